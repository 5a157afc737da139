package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"outland-server/internal/models"
)

// Compile-time check
var _ AccountRepository = (*pgAccountRepository)(nil)

type pgAccountRepository struct {
	logger *zap.Logger
}

// NewPgAccountRepository создает репозиторий аккаунтов.
func NewPgAccountRepository(logger *zap.Logger) AccountRepository {
	return &pgAccountRepository{
		logger: logger.Named("PgAccountRepo"),
	}
}

const accountColumns = `
    id, user_id, handle, level, xp, xp_to_next, rank,
    charge, charge_max, charge_tick,
    adrenal, adrenal_max, adrenal_tick,
    vitality, vitality_max, vitality_tick,
    credits, alloy, version, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	acc := &models.Account{}
	err := row.Scan(
		&acc.ID, &acc.UserID, &acc.Handle, &acc.Level, &acc.XP, &acc.XPToNext, &acc.Rank,
		&acc.Charge, &acc.ChargeMax, &acc.ChargeTick,
		&acc.Adrenal, &acc.AdrenalMax, &acc.AdrenalTick,
		&acc.Vitality, &acc.VitalityMax, &acc.VitalityTick,
		&acc.Credits, &acc.Alloy, &acc.Version, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// Create - вставка свежего аккаунта при онбординге.
func (r *pgAccountRepository) Create(ctx context.Context, querier DBTX, acc *models.Account) error {
	query := `
        INSERT INTO accounts (` + accountColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
    `
	logFields := []zap.Field{zap.String("accountID", acc.ID.String()), zap.String("userID", acc.UserID.String())}
	r.logger.Debug("Creating account", logFields...)

	_, err := querier.Exec(ctx, query,
		acc.ID, acc.UserID, acc.Handle, acc.Level, acc.XP, acc.XPToNext, acc.Rank,
		acc.Charge, acc.ChargeMax, acc.ChargeTick,
		acc.Adrenal, acc.AdrenalMax, acc.AdrenalTick,
		acc.Vitality, acc.VitalityMax, acc.VitalityTick,
		acc.Credits, acc.Alloy, acc.Version, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания аккаунта: %w", err)
	}
	r.logger.Info("Account created successfully", logFields...)
	return nil
}

func (r *pgAccountRepository) GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	logFields := []zap.Field{zap.String("accountID", id.String())}
	r.logger.Debug("Getting account by ID", logFields...)

	acc, err := scanAccount(querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Account not found by ID", logFields...)
			return nil, models.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения аккаунта %s: %w", id, err)
	}
	return acc, nil
}

func (r *pgAccountRepository) GetByUserID(ctx context.Context, querier DBTX, userID uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`
	logFields := []zap.Field{zap.String("userID", userID.String())}
	r.logger.Debug("Getting account by user ID", logFields...)

	acc, err := scanAccount(querier.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Account not found by user ID", logFields...)
			return nil, models.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account by user ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения аккаунта пользователя %s: %w", userID, err)
	}
	return acc, nil
}

// UpdateCAS - коммит состояния, защищенный колонкой version.
// Проигранная гонка возвращает models.ErrConflict: вызывающий обязан
// перечитать состояние и повторить резолв, а не писать поверх устаревшего.
func (r *pgAccountRepository) UpdateCAS(ctx context.Context, querier DBTX, acc *models.Account) error {
	query := `
        UPDATE accounts SET
            level = $3, xp = $4, xp_to_next = $5, rank = $6,
            charge = $7, charge_tick = $8,
            adrenal = $9, adrenal_tick = $10,
            vitality = $11, vitality_tick = $12,
            credits = $13, alloy = $14,
            version = version + 1, updated_at = $15
        WHERE id = $1 AND version = $2
    `
	logFields := []zap.Field{zap.String("accountID", acc.ID.String()), zap.Int64("version", acc.Version)}
	r.logger.Debug("Committing account state (CAS)", logFields...)

	tag, err := querier.Exec(ctx, query,
		acc.ID, acc.Version,
		acc.Level, acc.XP, acc.XPToNext, acc.Rank,
		acc.Charge, acc.ChargeTick,
		acc.Adrenal, acc.AdrenalTick,
		acc.Vitality, acc.VitalityTick,
		acc.Credits, acc.Alloy,
		time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to commit account state", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка коммита аккаунта %s: %w", acc.ID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Account commit lost a version race", logFields...)
		return models.ErrConflict
	}
	acc.Version++
	r.logger.Debug("Account state committed", logFields...)
	return nil
}
