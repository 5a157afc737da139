package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"outland-server/internal/models"
)

// Compile-time check
var _ MissionRepository = (*pgMissionRepository)(nil)

type pgMissionRepository struct {
	logger *zap.Logger
}

// NewPgMissionRepository создает read-only репозиторий каталога контрактов.
func NewPgMissionRepository(logger *zap.Logger) MissionRepository {
	return &pgMissionRepository{
		logger: logger.Named("PgMissionRepo"),
	}
}

const missionColumns = `
    id, name, description, type, tier, min_level,
    charge_cost, reward_credits, reward_xp, loot_chance, loot_item_id`

func scanMission(row pgx.Row) (*models.Mission, error) {
	m := &models.Mission{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Type, &m.Tier, &m.MinLevel,
		&m.ChargeCost, &m.RewardCredits, &m.RewardXP, &m.LootChance, &m.LootItemID,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMissionRepository) GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = $1`
	logFields := []zap.Field{zap.String("missionID", id.String())}
	r.logger.Debug("Getting mission by ID", logFields...)

	m, err := scanMission(querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Mission not found", logFields...)
			return nil, models.ErrMissionNotFound
		}
		r.logger.Error("Failed to get mission", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения миссии %s: %w", id, err)
	}
	return m, nil
}

func (r *pgMissionRepository) ListAvailable(ctx context.Context, querier DBTX, maxMinLevel int) ([]*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE min_level <= $1 ORDER BY tier, min_level, name`
	r.logger.Debug("Listing available missions", zap.Int("maxMinLevel", maxMinLevel))

	rows, err := querier.Query(ctx, query, maxMinLevel)
	if err != nil {
		r.logger.Error("Failed to list missions", zap.Error(err))
		return nil, fmt.Errorf("ошибка выборки миссий: %w", err)
	}
	defer rows.Close()

	var missions []*models.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования миссии: %w", err)
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода миссий: %w", err)
	}
	return missions, nil
}
