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
var _ FacilityRepository = (*pgFacilityRepository)(nil)

type pgFacilityRepository struct {
	logger *zap.Logger
}

// NewPgFacilityRepository создает репозиторий аутпостов.
func NewPgFacilityRepository(logger *zap.Logger) FacilityRepository {
	return &pgFacilityRepository{
		logger: logger.Named("PgFacilityRepo"),
	}
}

const facilityColumns = `
    id, account_id, name, effect, magnitude, level,
    income_rate, effect_applied_at, income_collected_at`

func scanFacility(row pgx.Row) (*models.Facility, error) {
	f := &models.Facility{}
	err := row.Scan(
		&f.ID, &f.AccountID, &f.Name, &f.Effect, &f.Magnitude, &f.Level,
		&f.IncomeRate, &f.EffectAppliedAt, &f.IncomeCollectedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *pgFacilityRepository) GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1`
	logFields := []zap.Field{zap.String("facilityID", id.String())}
	r.logger.Debug("Getting facility by ID", logFields...)

	f, err := scanFacility(querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Facility not found", logFields...)
			return nil, models.ErrFacilityNotFound
		}
		r.logger.Error("Failed to get facility", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения фасилити %s: %w", id, err)
	}
	return f, nil
}

func (r *pgFacilityRepository) ListByAccount(ctx context.Context, querier DBTX, accountID uuid.UUID) ([]*models.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE account_id = $1 ORDER BY name`
	logFields := []zap.Field{zap.String("accountID", accountID.String())}
	r.logger.Debug("Listing facilities", logFields...)

	rows, err := querier.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to list facilities", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка выборки фасилити аккаунта %s: %w", accountID, err)
	}
	defer rows.Close()

	var facilities []*models.Facility
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования фасилити: %w", err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода фасилити: %w", err)
	}
	return facilities, nil
}

func (r *pgFacilityRepository) SetEffectAppliedAt(ctx context.Context, querier DBTX, facilityID uuid.UUID, appliedAt time.Time) error {
	query := `UPDATE facilities SET effect_applied_at = $2 WHERE id = $1`
	logFields := []zap.Field{zap.String("facilityID", facilityID.String()), zap.Time("appliedAt", appliedAt)}
	r.logger.Debug("Advancing facility effect clock", logFields...)

	tag, err := querier.Exec(ctx, query, facilityID, appliedAt)
	if err != nil {
		r.logger.Error("Failed to advance effect clock", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка сдвига таймера эффекта фасилити %s: %w", facilityID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrFacilityNotFound
	}
	return nil
}

func (r *pgFacilityRepository) SetIncomeCollectedAt(ctx context.Context, querier DBTX, facilityID uuid.UUID, collectedAt time.Time) error {
	query := `UPDATE facilities SET income_collected_at = $2 WHERE id = $1`
	logFields := []zap.Field{zap.String("facilityID", facilityID.String()), zap.Time("collectedAt", collectedAt)}
	r.logger.Debug("Resetting facility income clock", logFields...)

	tag, err := querier.Exec(ctx, query, facilityID, collectedAt)
	if err != nil {
		r.logger.Error("Failed to reset income clock", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка сброса таймера дохода фасилити %s: %w", facilityID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrFacilityNotFound
	}
	return nil
}
