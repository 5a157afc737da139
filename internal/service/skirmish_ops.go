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

// Сколько противников генерируется за один скаут по умолчанию и потолок.
const (
	defaultScoutCount = 3
	maxScoutCount     = 10
)

// ScoutOpponents генерирует эфемерных противников в полосе силы вокруг
// уровня аккаунта и кладет их в кеш с TTL. Противники не персистятся:
// протух кеш - скаутимся заново.
func (s *coreService) ScoutOpponents(ctx context.Context, userID uuid.UUID, count int) ([]*models.Opponent, error) {
	if count <= 0 {
		count = defaultScoutCount
	}
	if count > maxScoutCount {
		count = maxScoutCount
	}

	acc, err := s.accountRepo.GetByUserID(ctx, s.tx.Pool(), userID)
	if err != nil {
		return nil, err
	}

	opponents := make([]*models.Opponent, 0, count)
	for i := 0; i < count; i++ {
		opp := game.GenerateOpponent(acc.Level, s.rng)
		if err := s.opponents.StoreOpponent(ctx, acc.ID, opp); err != nil {
			return nil, err
		}
		opponents = append(opponents, opp)
	}

	s.logger.Debug("Opponents scouted",
		zap.String("accountID", acc.ID.String()),
		zap.Int("count", len(opponents)))
	return opponents, nil
}

// EngageOpponent разрешает стычку с ранее заскаученным противником.
// Тот же коммит-протокол, что и у контракта: тик -> предусловия ->
// розыгрыш -> одна транзакция под CAS с ретраями.
func (s *coreService) EngageOpponent(ctx context.Context, userID, opponentID uuid.UUID) (*SkirmishResult, error) {
	var lastErr error

	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		res, err := s.engageOpponentOnce(ctx, userID, opponentID)
		if errors.Is(err, models.ErrConflict) {
			lastErr = err
			s.logger.Debug("Skirmish commit lost CAS race, retrying",
				zap.String("opponentID", opponentID.String()),
				zap.Int("attempt", attempt+1))
			continue
		}
		return res, err
	}
	return nil, fmt.Errorf("стычка не закоммичена за %d попыток: %w", maxCommitRetries, lastErr)
}

func (s *coreService) engageOpponentOnce(ctx context.Context, userID, opponentID uuid.UUID) (*SkirmishResult, error) {
	now := time.Now().UTC()

	acc, _, err := s.getTickedAccount(ctx, s.tx.Pool(), userID, now)
	if err != nil {
		return nil, err
	}

	opp, err := s.opponents.GetOpponent(ctx, acc.ID, opponentID)
	if err != nil {
		return nil, err
	}

	remaining, err := s.opponents.CooldownRemaining(ctx, acc.ID, opponentID)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, &CooldownError{Remaining: remaining}
	}

	holdings, err := s.itemRepo.ListHoldings(ctx, s.tx.Pool(), acc.ID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения предметов: %w", err)
	}
	power := game.PowerFromHoldings(acc.Level, holdings)

	outcome, err := game.ResolveCombat(game.CombatInput{
		Power:    power,
		Adrenal:  acc.Adrenal,
		Opponent: opp,
	}, s.rng)
	if err != nil {
		return nil, err
	}

	spendAdrenal(acc, outcome.AdrenalSpent, now)
	acc.Credits += outcome.CreditsDelta
	leveledUp := false
	if outcome.XPGained > 0 {
		leveledUp = applyXP(acc, outcome.XPGained)
	}
	loseVitality(acc, outcome.VitalityLoss, now)
	acc.UpdatedAt = now

	// Лут стычки тянется из каталога по выпавшей редкости; пустой каталог
	// редкости - не ошибка стычки, просто дропа нет.
	var lootItem *models.Item
	if outcome.LootDropped {
		lootItem, err = s.itemRepo.PickRandomByRarity(ctx, s.tx.Pool(), outcome.LootRarity)
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("Loot dropped but catalog holds no items of rarity",
				zap.String("rarity", string(outcome.LootRarity)))
			lootItem = nil
		} else if err != nil {
			return nil, fmt.Errorf("ошибка розыгрыша лута: %w", err)
		}
	}

	entry := s.buildSkirmishLog(acc, opp, outcome, lootItem, now)

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

	// Кулдаун и публикация - best-effort после коммита: их потеря не
	// откатывает уже примененные дельты.
	if err := s.opponents.SetCooldown(ctx, acc.ID, opponentID); err != nil {
		s.logger.Warn("Failed to set skirmish cooldown after commit",
			zap.String("opponentID", opponentID.String()),
			zap.Error(err))
	}
	s.publishLog(ctx, entry)

	s.logger.Info("Skirmish resolved",
		zap.String("accountID", acc.ID.String()),
		zap.String("opponentID", opp.ID.String()),
		zap.Bool("win", outcome.Win),
		zap.Int64("creditsDelta", outcome.CreditsDelta))

	return &SkirmishResult{
		Outcome:   outcome,
		Opponent:  opp,
		LeveledUp: leveledUp,
		LootItem:  lootItem,
		Account:   acc,
	}, nil
}

func (s *coreService) buildSkirmishLog(acc *models.Account, opp *models.Opponent, outcome *game.CombatOutcome, lootItem *models.Item, now time.Time) *models.ResolutionLog {
	details, err := json.Marshal(outcome)
	if err != nil {
		s.logger.Warn("Failed to marshal skirmish outcome details", zap.Error(err))
		details = nil
	}
	entry := &models.ResolutionLog{
		ID:            uuid.New(),
		AccountID:     acc.ID,
		Kind:          models.ResolutionSkirmish,
		RefID:         &opp.ID,
		Success:       outcome.Win,
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
