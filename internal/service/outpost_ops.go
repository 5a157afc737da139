package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"outland-server/internal/game"
	"outland-server/internal/models"
	"outland-server/internal/repository"
)

// ApplyOutpostEffects прогоняет начисление спец-эффектов по всем аутпостам
// аккаунта. Коммит-протокол тот же, что у резолверов: все дельты плюс
// продвижение таймеров фасилити - одна транзакция под CAS.
func (s *coreService) ApplyOutpostEffects(ctx context.Context, userID uuid.UUID) (*OutpostReport, error) {
	var lastErr error

	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		res, err := s.applyOutpostEffectsOnce(ctx, userID)
		if errors.Is(err, models.ErrConflict) {
			lastErr = err
			s.logger.Debug("Outpost accrual lost CAS race, retrying", zap.Int("attempt", attempt+1))
			continue
		}
		return res, err
	}
	return nil, fmt.Errorf("начисление аутпостов не закоммичено за %d попыток: %w", maxCommitRetries, lastErr)
}

func (s *coreService) applyOutpostEffectsOnce(ctx context.Context, userID uuid.UUID) (*OutpostReport, error) {
	now := time.Now().UTC()

	acc, _, err := s.getTickedAccount(ctx, s.tx.Pool(), userID, now)
	if err != nil {
		return nil, err
	}

	facilities, err := s.facilityRepo.ListByAccount(ctx, s.tx.Pool(), acc.ID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аутпостов: %w", err)
	}

	accrual := game.AccrueOutposts(game.AccrualInput{
		Facilities:  facilities,
		Now:         now,
		Vitality:    acc.Vitality,
		VitalityMax: acc.VitalityMax,
		Alloy:       acc.Alloy,
	})

	acc.Alloy += accrual.AlloyDelta
	acc.Credits += accrual.CreditsDelta
	acc.Vitality += accrual.VitalityDelta
	acc.UpdatedAt = now

	// Сгенерированные предметы тянутся из каталога заранее; пустой каталог
	// не останавливает начисление остальных эффектов.
	items := make([]*models.Item, 0, accrual.ItemsProduced)
	for i := 0; i < accrual.ItemsProduced; i++ {
		item, err := s.itemRepo.PickRandomByRarity(ctx, s.tx.Pool(), models.RarityCommon)
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("Facility produced items but catalog holds no common items")
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка розыгрыша произведенного предмета: %w", err)
		}
		items = append(items, item)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.accountRepo.UpdateCAS(ctx, tx, acc); err != nil {
			return err
		}
		for _, fa := range accrual.PerFacility {
			if err := s.facilityRepo.SetEffectAppliedAt(ctx, tx, fa.FacilityID, fa.NewAppliedAt); err != nil {
				return fmt.Errorf("ошибка продвижения таймера фасилити %s: %w", fa.FacilityID, err)
			}
		}
		for _, item := range items {
			holding := &models.AccountItem{
				ID:         uuid.New(),
				AccountID:  acc.ID,
				ItemID:     item.ID,
				AcquiredAt: now,
			}
			if err := s.itemRepo.AddHolding(ctx, tx, holding); err != nil {
				return fmt.Errorf("ошибка выдачи произведенного предмета: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Outpost effects applied",
		zap.String("accountID", acc.ID.String()),
		zap.Int64("alloyDelta", accrual.AlloyDelta),
		zap.Int64("creditsDelta", accrual.CreditsDelta),
		zap.Int("vitalityDelta", accrual.VitalityDelta),
		zap.Int("itemsProduced", len(items)))

	return &OutpostReport{
		Accrual: accrual,
		Items:   items,
		Account: acc,
	}, nil
}

// CollectOutpostIncome явно собирает накопленный почасовой доход одного
// аутпоста. Единственная операция, обнуляющая таймер сбора.
func (s *coreService) CollectOutpostIncome(ctx context.Context, userID, facilityID uuid.UUID) (*CollectResult, error) {
	var lastErr error

	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		res, err := s.collectOutpostIncomeOnce(ctx, userID, facilityID)
		if errors.Is(err, models.ErrConflict) {
			lastErr = err
			s.logger.Debug("Income collect lost CAS race, retrying",
				zap.String("facilityID", facilityID.String()),
				zap.Int("attempt", attempt+1))
			continue
		}
		return res, err
	}
	return nil, fmt.Errorf("сбор дохода не закоммичен за %d попыток: %w", maxCommitRetries, lastErr)
}

func (s *coreService) collectOutpostIncomeOnce(ctx context.Context, userID, facilityID uuid.UUID) (*CollectResult, error) {
	now := time.Now().UTC()

	acc, _, err := s.getTickedAccount(ctx, s.tx.Pool(), userID, now)
	if err != nil {
		return nil, err
	}

	facility, err := s.facilityRepo.GetByID(ctx, s.tx.Pool(), facilityID)
	if err != nil {
		return nil, err
	}
	if facility.AccountID != acc.ID {
		return nil, models.ErrForbidden
	}

	credits := game.CollectibleIncome(facility, now)
	acc.Credits += credits
	acc.UpdatedAt = now

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.accountRepo.UpdateCAS(ctx, tx, acc); err != nil {
			return err
		}
		if err := s.facilityRepo.SetIncomeCollectedAt(ctx, tx, facility.ID, now); err != nil {
			return fmt.Errorf("ошибка сброса таймера сбора: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Outpost income collected",
		zap.String("accountID", acc.ID.String()),
		zap.String("facilityID", facility.ID.String()),
		zap.Int64("credits", credits))

	return &CollectResult{
		FacilityID: facility.ID,
		Credits:    credits,
		Account:    acc,
	}, nil
}
