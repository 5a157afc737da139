package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"outland-server/internal/models"
)

// AccountRepository defines persistence for the mutable account state.
//
//go:generate mockery --name AccountRepository --output ./mocks --outpkg mocks --case=underscore
type AccountRepository interface {
	// Create inserts a freshly onboarded account.
	Create(ctx context.Context, querier DBTX, acc *models.Account) error

	// GetByID returns the account by its key.
	// Returns models.ErrNotFound if missing.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Account, error)

	// GetByUserID returns the account owned by the given identity.
	// Returns models.ErrNotFound if missing.
	GetByUserID(ctx context.Context, querier DBTX, userID uuid.UUID) (*models.Account, error)

	// UpdateCAS writes the whole mutable state back, guarded by the version
	// column. Returns models.ErrConflict when a concurrent commit won the
	// race; the caller must re-read and re-evaluate preconditions.
	// On success acc.Version is advanced to the committed value.
	UpdateCAS(ctx context.Context, querier DBTX, acc *models.Account) error
}

// MissionRepository is the read-only contract catalog.
//
//go:generate mockery --name MissionRepository --output ./mocks --outpkg mocks --case=underscore
type MissionRepository interface {
	// GetByID returns models.ErrMissionNotFound if missing.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Mission, error)

	// ListAvailable returns missions whose minimum level is within reach.
	ListAvailable(ctx context.Context, querier DBTX, maxMinLevel int) ([]*models.Mission, error)
}

// ItemRepository covers the item catalog and per-account holdings.
//
//go:generate mockery --name ItemRepository --output ./mocks --outpkg mocks --case=underscore
type ItemRepository interface {
	// GetByID returns models.ErrNotFound if missing.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Item, error)

	// PickRandomByRarity draws one catalog item of the given rarity.
	// Returns models.ErrNotFound when the catalog holds none.
	PickRandomByRarity(ctx context.Context, querier DBTX, rarity models.ItemRarity) (*models.Item, error)

	// ListHoldings returns the account's items with the catalog row joined in.
	ListHoldings(ctx context.Context, querier DBTX, accountID uuid.UUID) ([]*models.AccountItem, error)

	// AddHolding appends a newly acquired item.
	AddHolding(ctx context.Context, querier DBTX, holding *models.AccountItem) error

	// SetEquipped flips the equipped flag on a holding.
	// Returns models.ErrNotFound if the holding does not belong to the account.
	SetEquipped(ctx context.Context, querier DBTX, accountID, holdingID uuid.UUID, equipped bool) error
}

// FacilityRepository reads owned outposts and advances their accrual clocks.
//
//go:generate mockery --name FacilityRepository --output ./mocks --outpkg mocks --case=underscore
type FacilityRepository interface {
	// GetByID returns models.ErrFacilityNotFound if missing.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Facility, error)

	// ListByAccount returns every outpost the account owns.
	ListByAccount(ctx context.Context, querier DBTX, accountID uuid.UUID) ([]*models.Facility, error)

	// SetEffectAppliedAt advances the special-effect clock exactly as far
	// as the applied units.
	SetEffectAppliedAt(ctx context.Context, querier DBTX, facilityID uuid.UUID, appliedAt time.Time) error

	// SetIncomeCollectedAt resets the collectible-income clock; called only
	// by the explicit collect operation.
	SetIncomeCollectedAt(ctx context.Context, querier DBTX, facilityID uuid.UUID, collectedAt time.Time) error
}

// ResolutionLogRepository is the append-only sink for resolver outcomes.
//
//go:generate mockery --name ResolutionLogRepository --output ./mocks --outpkg mocks --case=underscore
type ResolutionLogRepository interface {
	// Append inserts one resolution record. Records are never mutated after.
	Append(ctx context.Context, querier DBTX, entry *models.ResolutionLog) error

	// ListByAccount returns the most recent records, newest first.
	ListByAccount(ctx context.Context, querier DBTX, accountID uuid.UUID, limit int) ([]*models.ResolutionLog, error)
}
