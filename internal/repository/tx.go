package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TxRunner выполняет функцию в транзакции с автоматическим rollback при
// ошибке. Коммит резолвера - одна логическая транзакция: либо все дельты
// применены, либо ни одна (частичное применение не наблюдаемо).
type TxRunner struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewTxRunner создает помощник транзакций.
func NewTxRunner(db *pgxpool.Pool, logger *zap.Logger) *TxRunner {
	return &TxRunner{
		db:     db,
		logger: logger.Named("TxRunner"),
	}
}

// Pool возвращает пул для операций вне транзакции (чтения).
func (h *TxRunner) Pool() DBTX {
	return h.db
}

// WithTransaction выполняет fn в транзакции.
func (h *TxRunner) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, tx DBTX) error,
) error {
	tx, err := h.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				h.logger.Error("Failed to rollback transaction after panic",
					zap.Error(rollbackErr),
					zap.Any("panic", p))
			}
			panic(p) // re-throw panic after rollback
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			h.logger.Error("Failed to rollback transaction",
				zap.Error(rollbackErr),
				zap.NamedError("original_error", err))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
