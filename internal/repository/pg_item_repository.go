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
var _ ItemRepository = (*pgItemRepository)(nil)

type pgItemRepository struct {
	logger *zap.Logger
}

// NewPgItemRepository создает репозиторий каталога предметов и владений.
func NewPgItemRepository(logger *zap.Logger) ItemRepository {
	return &pgItemRepository{
		logger: logger.Named("PgItemRepo"),
	}
}

const itemColumns = `id, name, category, rarity, attack, defense`

func scanItem(row pgx.Row) (*models.Item, error) {
	i := &models.Item{}
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.Rarity, &i.Attack, &i.Defense)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *pgItemRepository) GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	logFields := []zap.Field{zap.String("itemID", id.String())}
	r.logger.Debug("Getting item by ID", logFields...)

	item, err := scanItem(querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Item not found", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get item", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения предмета %s: %w", id, err)
	}
	return item, nil
}

// PickRandomByRarity - розыгрыш предмета заданной редкости из каталога.
// Идентичность предмета выбирает каталог, а не резолвер.
func (r *pgItemRepository) PickRandomByRarity(ctx context.Context, querier DBTX, rarity models.ItemRarity) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE rarity = $1 AND category != 'companion' ORDER BY random() LIMIT 1`
	logFields := []zap.Field{zap.String("rarity", string(rarity))}
	r.logger.Debug("Picking random item by rarity", logFields...)

	item, err := scanItem(querier.QueryRow(ctx, query, rarity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("No catalog items for rarity", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to pick random item", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка розыгрыша предмета редкости %s: %w", rarity, err)
	}
	return item, nil
}

func (r *pgItemRepository) ListHoldings(ctx context.Context, querier DBTX, accountID uuid.UUID) ([]*models.AccountItem, error) {
	query := `
        SELECT ai.id, ai.account_id, ai.item_id, ai.equipped, ai.acquired_at,
               i.id, i.name, i.category, i.rarity, i.attack, i.defense
        FROM account_items ai
        JOIN items i ON i.id = ai.item_id
        WHERE ai.account_id = $1
        ORDER BY ai.acquired_at
    `
	logFields := []zap.Field{zap.String("accountID", accountID.String())}
	r.logger.Debug("Listing account holdings", logFields...)

	rows, err := querier.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to list holdings", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка выборки предметов аккаунта %s: %w", accountID, err)
	}
	defer rows.Close()

	var holdings []*models.AccountItem
	for rows.Next() {
		h := &models.AccountItem{Item: &models.Item{}}
		err := rows.Scan(
			&h.ID, &h.AccountID, &h.ItemID, &h.Equipped, &h.AcquiredAt,
			&h.Item.ID, &h.Item.Name, &h.Item.Category, &h.Item.Rarity, &h.Item.Attack, &h.Item.Defense,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования владения: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода владений: %w", err)
	}
	return holdings, nil
}

func (r *pgItemRepository) AddHolding(ctx context.Context, querier DBTX, holding *models.AccountItem) error {
	query := `
        INSERT INTO account_items (id, account_id, item_id, equipped, acquired_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	logFields := []zap.Field{
		zap.String("accountID", holding.AccountID.String()),
		zap.String("itemID", holding.ItemID.String()),
	}
	r.logger.Debug("Adding holding", logFields...)

	_, err := querier.Exec(ctx, query, holding.ID, holding.AccountID, holding.ItemID, holding.Equipped, holding.AcquiredAt)
	if err != nil {
		r.logger.Error("Failed to add holding", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка добавления предмета аккаунту: %w", err)
	}
	r.logger.Info("Holding added", logFields...)
	return nil
}

func (r *pgItemRepository) SetEquipped(ctx context.Context, querier DBTX, accountID, holdingID uuid.UUID, equipped bool) error {
	// Расходники не экипируются ни при каких условиях.
	query := `
        UPDATE account_items ai SET equipped = $3
        FROM items i
        WHERE ai.id = $1 AND ai.account_id = $2 AND i.id = ai.item_id
          AND i.category IN ('weapon', 'armor')
    `
	logFields := []zap.Field{
		zap.String("accountID", accountID.String()),
		zap.String("holdingID", holdingID.String()),
		zap.Bool("equipped", equipped),
	}
	r.logger.Debug("Setting equipped flag", logFields...)

	tag, err := querier.Exec(ctx, query, holdingID, accountID, equipped)
	if err != nil {
		r.logger.Error("Failed to set equipped flag", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка экипировки предмета %s: %w", holdingID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Holding not found or not equippable", logFields...)
		return models.ErrNotFound
	}
	return nil
}
