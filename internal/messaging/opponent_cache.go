package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"outland-server/internal/models"
)

// TTL кеша противников и кулдауна повторной стычки.
const (
	OpponentTTL = 10 * time.Minute
	CooldownTTL = time.Hour
)

// OpponentCache defines short-lived storage for ephemeral opponents and
// per-opponent engagement cooldowns.
//
//go:generate mockery --name OpponentCache --output ./mocks --outpkg mocks --case=underscore
type OpponentCache interface {
	// StoreOpponent caches a freshly generated opponent for the account.
	StoreOpponent(ctx context.Context, accountID uuid.UUID, opp *models.Opponent) error

	// GetOpponent returns a cached opponent.
	// Returns models.ErrOpponentNotFound when missing or expired.
	GetOpponent(ctx context.Context, accountID, opponentID uuid.UUID) (*models.Opponent, error)

	// SetCooldown marks the opponent unengageable until the TTL expires.
	SetCooldown(ctx context.Context, accountID, opponentID uuid.UUID) error

	// CooldownRemaining returns the remaining cooldown (zero when none).
	CooldownRemaining(ctx context.Context, accountID, opponentID uuid.UUID) (time.Duration, error)
}

// redisOpponentCache implements OpponentCache on Redis: противники живут
// как JSON-значения с TTL, кулдауны - как ключи с TTL.
type redisOpponentCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisOpponentCache создает кеш противников поверх Redis.
func NewRedisOpponentCache(client *redis.Client, logger *zap.Logger) OpponentCache {
	return &redisOpponentCache{
		client: client,
		logger: logger.Named("RedisOpponentCache"),
	}
}

func opponentKey(accountID, opponentID uuid.UUID) string {
	return fmt.Sprintf("opponent:%s:%s", accountID, opponentID)
}

func cooldownKey(accountID, opponentID uuid.UUID) string {
	return fmt.Sprintf("skirmish_cd:%s:%s", accountID, opponentID)
}

func (c *redisOpponentCache) StoreOpponent(ctx context.Context, accountID uuid.UUID, opp *models.Opponent) error {
	body, err := json.Marshal(opp)
	if err != nil {
		return fmt.Errorf("ошибка сериализации противника %s: %w", opp.ID, err)
	}
	if err := c.client.Set(ctx, opponentKey(accountID, opp.ID), body, OpponentTTL).Err(); err != nil {
		c.logger.Error("Failed to cache opponent", zap.String("opponentID", opp.ID.String()), zap.Error(err))
		return fmt.Errorf("ошибка кеширования противника %s: %w", opp.ID, err)
	}
	return nil
}

func (c *redisOpponentCache) GetOpponent(ctx context.Context, accountID, opponentID uuid.UUID) (*models.Opponent, error) {
	body, err := c.client.Get(ctx, opponentKey(accountID, opponentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrOpponentNotFound
		}
		c.logger.Error("Failed to read cached opponent", zap.String("opponentID", opponentID.String()), zap.Error(err))
		return nil, fmt.Errorf("ошибка чтения противника %s из кеша: %w", opponentID, err)
	}
	opp := &models.Opponent{}
	if err := json.Unmarshal(body, opp); err != nil {
		return nil, fmt.Errorf("ошибка десериализации противника %s: %w", opponentID, err)
	}
	return opp, nil
}

func (c *redisOpponentCache) SetCooldown(ctx context.Context, accountID, opponentID uuid.UUID) error {
	if err := c.client.Set(ctx, cooldownKey(accountID, opponentID), 1, CooldownTTL).Err(); err != nil {
		c.logger.Error("Failed to set skirmish cooldown", zap.String("opponentID", opponentID.String()), zap.Error(err))
		return fmt.Errorf("ошибка установки кулдауна стычки: %w", err)
	}
	return nil
}

func (c *redisOpponentCache) CooldownRemaining(ctx context.Context, accountID, opponentID uuid.UUID) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, cooldownKey(accountID, opponentID)).Result()
	if err != nil {
		c.logger.Error("Failed to read skirmish cooldown", zap.String("opponentID", opponentID.String()), zap.Error(err))
		return 0, fmt.Errorf("ошибка чтения кулдауна стычки: %w", err)
	}
	// TTL < 0 означает отсутствие ключа либо ключ без TTL
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
