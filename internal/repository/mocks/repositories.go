package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"outland-server/internal/models"
	"outland-server/internal/repository"
)

// Mock AccountRepository
type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) Create(ctx context.Context, querier repository.DBTX, acc *models.Account) error {
	args := m.Called(ctx, querier, acc)
	return args.Error(0)
}

func (m *AccountRepository) GetByID(ctx context.Context, querier repository.DBTX, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, querier, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *AccountRepository) GetByUserID(ctx context.Context, querier repository.DBTX, userID uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, querier, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *AccountRepository) UpdateCAS(ctx context.Context, querier repository.DBTX, acc *models.Account) error {
	args := m.Called(ctx, querier, acc)
	return args.Error(0)
}

// Mock MissionRepository
type MissionRepository struct {
	mock.Mock
}

func (m *MissionRepository) GetByID(ctx context.Context, querier repository.DBTX, id uuid.UUID) (*models.Mission, error) {
	args := m.Called(ctx, querier, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mission), args.Error(1)
}

func (m *MissionRepository) ListAvailable(ctx context.Context, querier repository.DBTX, maxMinLevel int) ([]*models.Mission, error) {
	args := m.Called(ctx, querier, maxMinLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mission), args.Error(1)
}

// Mock ItemRepository
type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) GetByID(ctx context.Context, querier repository.DBTX, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, querier, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *ItemRepository) PickRandomByRarity(ctx context.Context, querier repository.DBTX, rarity models.ItemRarity) (*models.Item, error) {
	args := m.Called(ctx, querier, rarity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *ItemRepository) ListHoldings(ctx context.Context, querier repository.DBTX, accountID uuid.UUID) ([]*models.AccountItem, error) {
	args := m.Called(ctx, querier, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AccountItem), args.Error(1)
}

func (m *ItemRepository) AddHolding(ctx context.Context, querier repository.DBTX, holding *models.AccountItem) error {
	args := m.Called(ctx, querier, holding)
	return args.Error(0)
}

func (m *ItemRepository) SetEquipped(ctx context.Context, querier repository.DBTX, accountID, holdingID uuid.UUID, equipped bool) error {
	args := m.Called(ctx, querier, accountID, holdingID, equipped)
	return args.Error(0)
}

// Mock FacilityRepository
type FacilityRepository struct {
	mock.Mock
}

func (m *FacilityRepository) GetByID(ctx context.Context, querier repository.DBTX, id uuid.UUID) (*models.Facility, error) {
	args := m.Called(ctx, querier, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Facility), args.Error(1)
}

func (m *FacilityRepository) ListByAccount(ctx context.Context, querier repository.DBTX, accountID uuid.UUID) ([]*models.Facility, error) {
	args := m.Called(ctx, querier, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Facility), args.Error(1)
}

func (m *FacilityRepository) SetEffectAppliedAt(ctx context.Context, querier repository.DBTX, facilityID uuid.UUID, appliedAt time.Time) error {
	args := m.Called(ctx, querier, facilityID, appliedAt)
	return args.Error(0)
}

func (m *FacilityRepository) SetIncomeCollectedAt(ctx context.Context, querier repository.DBTX, facilityID uuid.UUID, collectedAt time.Time) error {
	args := m.Called(ctx, querier, facilityID, collectedAt)
	return args.Error(0)
}

// Mock ResolutionLogRepository
type ResolutionLogRepository struct {
	mock.Mock
}

func (m *ResolutionLogRepository) Append(ctx context.Context, querier repository.DBTX, entry *models.ResolutionLog) error {
	args := m.Called(ctx, querier, entry)
	return args.Error(0)
}

func (m *ResolutionLogRepository) ListByAccount(ctx context.Context, querier repository.DBTX, accountID uuid.UUID, limit int) ([]*models.ResolutionLog, error) {
	args := m.Called(ctx, querier, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ResolutionLog), args.Error(1)
}
