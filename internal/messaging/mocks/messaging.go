package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"outland-server/internal/models"
)

// Mock ResolutionEventPublisher
type ResolutionEventPublisher struct {
	mock.Mock
}

func (m *ResolutionEventPublisher) PublishResolution(ctx context.Context, entry *models.ResolutionLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Mock OpponentCache
type OpponentCache struct {
	mock.Mock
}

func (m *OpponentCache) StoreOpponent(ctx context.Context, accountID uuid.UUID, opp *models.Opponent) error {
	args := m.Called(ctx, accountID, opp)
	return args.Error(0)
}

func (m *OpponentCache) GetOpponent(ctx context.Context, accountID, opponentID uuid.UUID) (*models.Opponent, error) {
	args := m.Called(ctx, accountID, opponentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Opponent), args.Error(1)
}

func (m *OpponentCache) SetCooldown(ctx context.Context, accountID, opponentID uuid.UUID) error {
	args := m.Called(ctx, accountID, opponentID)
	return args.Error(0)
}

func (m *OpponentCache) CooldownRemaining(ctx context.Context, accountID, opponentID uuid.UUID) (time.Duration, error) {
	args := m.Called(ctx, accountID, opponentID)
	return args.Get(0).(time.Duration), args.Error(1)
}
