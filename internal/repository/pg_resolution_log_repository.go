package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"outland-server/internal/models"
)

// Compile-time check
var _ ResolutionLogRepository = (*pgResolutionLogRepository)(nil)

type pgResolutionLogRepository struct {
	logger *zap.Logger
}

// NewPgResolutionLogRepository создает append-only репозиторий логов резолвов.
func NewPgResolutionLogRepository(logger *zap.Logger) ResolutionLogRepository {
	return &pgResolutionLogRepository{
		logger: logger.Named("PgResolutionLogRepo"),
	}
}

func (r *pgResolutionLogRepository) Append(ctx context.Context, querier DBTX, entry *models.ResolutionLog) error {
	query := `
        INSERT INTO resolution_logs
            (id, account_id, kind, ref_id, success, credits_delta, alloy_delta,
             xp_delta, vitality_delta, loot_item_id, details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	logFields := []zap.Field{
		zap.String("accountID", entry.AccountID.String()),
		zap.String("kind", string(entry.Kind)),
	}
	r.logger.Debug("Appending resolution log", logFields...)

	_, err := querier.Exec(ctx, query,
		entry.ID, entry.AccountID, entry.Kind, entry.RefID, entry.Success,
		entry.CreditsDelta, entry.AlloyDelta, entry.XPDelta, entry.VitalityDelta,
		entry.LootItemID, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append resolution log", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка записи лога резолва: %w", err)
	}
	return nil
}

func (r *pgResolutionLogRepository) ListByAccount(ctx context.Context, querier DBTX, accountID uuid.UUID, limit int) ([]*models.ResolutionLog, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
        SELECT id, account_id, kind, ref_id, success, credits_delta, alloy_delta,
               xp_delta, vitality_delta, loot_item_id, details, created_at
        FROM resolution_logs
        WHERE account_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	logFields := []zap.Field{zap.String("accountID", accountID.String()), zap.Int("limit", limit)}
	r.logger.Debug("Listing resolution logs", logFields...)

	rows, err := querier.Query(ctx, query, accountID, limit)
	if err != nil {
		r.logger.Error("Failed to list resolution logs", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка выборки логов аккаунта %s: %w", accountID, err)
	}
	defer rows.Close()

	var entries []*models.ResolutionLog
	for rows.Next() {
		e := &models.ResolutionLog{}
		err := rows.Scan(
			&e.ID, &e.AccountID, &e.Kind, &e.RefID, &e.Success,
			&e.CreditsDelta, &e.AlloyDelta, &e.XPDelta, &e.VitalityDelta,
			&e.LootItemID, &e.Details, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования лога: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода логов: %w", err)
	}
	return entries, nil
}
