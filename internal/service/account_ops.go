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

// CreateAccount - онбординг: один аккаунт на пользователя, фиксированные
// стартовые значения.
func (s *coreService) CreateAccount(ctx context.Context, userID uuid.UUID, handle string) (*models.Account, error) {
	logFields := []zap.Field{zap.String("userID", userID.String())}

	existing, err := s.accountRepo.GetByUserID(ctx, s.tx.Pool(), userID)
	if err != nil && !errors.Is(err, models.ErrAccountNotFound) {
		return nil, fmt.Errorf("ошибка проверки существующего аккаунта: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Account already exists for user", logFields...)
		return nil, ErrAccountAlreadyExists
	}

	now := time.Now().UTC()
	acc := models.NewAccount(userID, handle, now)
	acc.XPToNext = game.XPToAdvance(acc.Level)
	acc.Rank = game.RankForLevel(acc.Level)

	if err := s.accountRepo.Create(ctx, s.tx.Pool(), acc); err != nil {
		return nil, fmt.Errorf("ошибка создания аккаунта: %w", err)
	}
	s.logger.Info("Account onboarded", append(logFields, zap.String("accountID", acc.ID.String()))...)
	return acc, nil
}

// getTickedAccount читает аккаунт пользователя и приводит пулы к now.
// Возвращает аккаунт и флаг "реген что-то изменил".
func (s *coreService) getTickedAccount(ctx context.Context, querier repository.DBTX, userID uuid.UUID, now time.Time) (*models.Account, bool, error) {
	acc, err := s.accountRepo.GetByUserID(ctx, querier, userID)
	if err != nil {
		return nil, false, err
	}
	changed := game.TickAccount(acc, now)
	return acc, changed, nil
}

// GetAccountState - наблюдение с принудительным тиком регена.
// Write-back продвинутых таймеров сериализуется через CAS; проигранная
// гонка не ошибка - просто перечитываем уже обновленное состояние.
func (s *coreService) GetAccountState(ctx context.Context, userID uuid.UUID) (*AccountState, error) {
	now := time.Now().UTC()

	for attempt := 0; ; attempt++ {
		acc, changed, err := s.getTickedAccount(ctx, s.tx.Pool(), userID, now)
		if err != nil {
			return nil, err
		}

		if changed {
			err = s.accountRepo.UpdateCAS(ctx, s.tx.Pool(), acc)
			if errors.Is(err, models.ErrConflict) && attempt < maxCommitRetries {
				continue
			}
			if err != nil && !errors.Is(err, models.ErrConflict) {
				return nil, fmt.Errorf("ошибка write-back регена: %w", err)
			}
		}

		holdings, err := s.itemRepo.ListHoldings(ctx, s.tx.Pool(), acc.ID)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения предметов: %w", err)
		}
		return &AccountState{
			Account: acc,
			Power:   game.PowerFromHoldings(acc.Level, holdings),
		}, nil
	}
}

// ListMissions возвращает миссии каталога, досягаемые по уровню.
func (s *coreService) ListMissions(ctx context.Context, userID uuid.UUID) ([]*models.Mission, error) {
	acc, err := s.accountRepo.GetByUserID(ctx, s.tx.Pool(), userID)
	if err != nil {
		return nil, err
	}
	return s.missionRepo.ListAvailable(ctx, s.tx.Pool(), acc.Level)
}

// SetEquipped переключает флаг экипировки владения.
func (s *coreService) SetEquipped(ctx context.Context, userID, holdingID uuid.UUID, equipped bool) error {
	acc, err := s.accountRepo.GetByUserID(ctx, s.tx.Pool(), userID)
	if err != nil {
		return err
	}
	return s.itemRepo.SetEquipped(ctx, s.tx.Pool(), acc.ID, holdingID, equipped)
}

// ListResolutionLogs возвращает свежие записи резолвов.
func (s *coreService) ListResolutionLogs(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ResolutionLog, error) {
	acc, err := s.accountRepo.GetByUserID(ctx, s.tx.Pool(), userID)
	if err != nil {
		return nil, err
	}
	return s.logRepo.ListByAccount(ctx, s.tx.Pool(), acc.ID, limit)
}
