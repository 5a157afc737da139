package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"outland-server/internal/game"
	"outland-server/internal/models"
	"outland-server/internal/repository"
)

// ExecuteContract разрешает один прогон миссии. Поток: тик регена ->
// предусловия -> чистый розыгрыш -> коммит всех дельт одной транзакцией
// под CAS. Проигранная CAS-гонка перечитывает состояние и разрешает
// заново (включая предусловия) до maxCommitRetries раз.
func (s *coreService) ExecuteContract(ctx context.Context, userID, missionID uuid.UUID) (*ContractResult, error) {
	var lastErr error

	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		res, err := s.executeContractOnce(ctx, userID, missionID)
		if errors.Is(err, models.ErrConflict) {
			lastErr = err
			s.logger.Debug("Contract commit lost CAS race, retrying",
				zap.String("missionID", missionID.String()),
				zap.Int("attempt", attempt+1))
			continue
		}
		return res, err
	}
	return nil, fmt.Errorf("контракт не закоммичен за %d попыток: %w", maxCommitRetries, lastErr)
}

func (s *coreService) executeContractOnce(ctx context.Context, userID, missionID uuid.UUID) (*ContractResult, error) {
	now := time.Now().UTC()

	acc, _, err := s.getTickedAccount(ctx, s.tx.Pool(), userID, now)
	if err != nil {
		return nil, err
	}

	mission, err := s.missionRepo.GetByID(ctx, s.tx.Pool(), missionID)
	if err != nil {
		return nil, err
	}

	facilities, err := s.facilityRepo.ListByAccount(ctx, s.tx.Pool(), acc.ID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аутпостов: %w", err)
	}

	outcome, err := game.ResolveContract(game.ContractInput{
		Level:      acc.Level,
		Charge:     acc.Charge,
		Credits:    acc.Credits,
		Mission:    mission,
		Facilities: facilities,
	}, s.rng)
	if err != nil {
		return nil, err
	}

	spendCharge(acc, outcome.ChargeSpent, now)
	acc.Credits += outcome.CreditsDelta
	leveledUp := false
	if outcome.XPGained > 0 {
		leveledUp = applyXP(acc, outcome.XPGained)
	}
	loseVitality(acc, outcome.VitalityLoss, now)
	acc.UpdatedAt = now

	// Лут известен заранее: миссия дропает один фиксированный предмет.
	var lootItem *models.Item
	if outcome.LootDropped && mission.LootItemID != nil {
		lootItem, err = s.itemRepo.GetByID(ctx, s.tx.Pool(), *mission.LootItemID)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения лут-предмета %s: %w", mission.LootItemID, err)
		}
	}

	entry := s.buildContractLog(acc, mission, outcome, lootItem, now)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.accountRepo.UpdateCAS(ctx, tx, acc); err != nil {
			return err
		}
		if lootItem != nil {
			holding := &models.AccountItem{
				ID:         uuid.New(),
				AccountID:  acc.ID,
				ItemID:     lootItem.ID,
				AcquiredAt: now,
			}
			if err := s.itemRepo.AddHolding(ctx, tx, holding); err != nil {
				return fmt.Errorf("ошибка выдачи лута: %w", err)
			}
		}
		if err := s.logRepo.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("ошибка записи лога резолва: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishLog(ctx, entry)
	s.logger.Info("Contract resolved",
		zap.String("accountID", acc.ID.String()),
		zap.String("missionID", mission.ID.String()),
		zap.Bool("success", outcome.Success),
		zap.Int64("creditsDelta", outcome.CreditsDelta))

	return &ContractResult{
		Outcome:   outcome,
		LeveledUp: leveledUp,
		LootItem:  lootItem,
		Account:   acc,
	}, nil
}

func (s *coreService) buildContractLog(acc *models.Account, mission *models.Mission, outcome *game.ContractOutcome, lootItem *models.Item, now time.Time) *models.ResolutionLog {
	details, err := json.Marshal(outcome)
	if err != nil {
		s.logger.Warn("Failed to marshal contract outcome details", zap.Error(err))
		details = nil
	}
	entry := &models.ResolutionLog{
		ID:            uuid.New(),
		AccountID:     acc.ID,
		Kind:          models.ResolutionContract,
		RefID:         &mission.ID,
		Success:       outcome.Success,
		CreditsDelta:  outcome.CreditsDelta,
		XPDelta:       outcome.XPGained,
		VitalityDelta: -outcome.VitalityLoss,
		Details:       details,
		CreatedAt:     now,
	}
	if lootItem != nil {
		entry.LootItemID = &lootItem.ID
	}
	return entry
}
