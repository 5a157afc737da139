package game_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outland-server/internal/game"
	"outland-server/internal/models"
)

func facility(effect models.FacilityEffect, magnitude float64, level int, appliedAt time.Time) *models.Facility {
	return &models.Facility{
		ID:              uuid.New(),
		AccountID:       uuid.New(),
		Name:            "Test Outpost",
		Effect:          effect,
		Magnitude:       magnitude,
		Level:           level,
		EffectAppliedAt: appliedAt,
	}
}

func TestAccrueOutposts(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Alloy generation floors whole units", func(t *testing.T) {
		// magnitude 2, level 3, 5 часов -> ровно floor(2*3*5) = 30
		f := facility(models.EffectAlloyGeneration, 2, 3, base)
		res := game.AccrueOutposts(game.AccrualInput{
			Facilities: []*models.Facility{f},
			Now:        base.Add(5 * time.Hour),
		})
		assert.Equal(t, int64(30), res.AlloyDelta)
		require.Len(t, res.PerFacility, 1)
		// Таймер сдвинут ровно на применённые юниты
		assert.Equal(t, base.Add(5*time.Hour), res.PerFacility[0].NewAppliedAt)
	})

	t.Run("Accrual never double counts across passes", func(t *testing.T) {
		// 2.5 часа при 6 юнитах/час: floor(15)=15; затем ещё 2.5 часа.
		// Два прохода в сумме дают то же, что один за 5 часов.
		f := facility(models.EffectAlloyGeneration, 2, 3, base)
		res1 := game.AccrueOutposts(game.AccrualInput{
			Facilities: []*models.Facility{f},
			Now:        base.Add(150 * time.Minute),
		})
		f.EffectAppliedAt = res1.PerFacility[0].NewAppliedAt
		res2 := game.AccrueOutposts(game.AccrualInput{
			Facilities: []*models.Facility{f},
			Now:        base.Add(300 * time.Minute),
		})
		assert.Equal(t, int64(30), res1.AlloyDelta+res2.AlloyDelta)
	})

	t.Run("Health regeneration capped at vitality max", func(t *testing.T) {
		f := facility(models.EffectHealthRegen, 10, 2, base)
		res := game.AccrueOutposts(game.AccrualInput{
			Facilities:  []*models.Facility{f},
			Now:         base.Add(10 * time.Hour), // 200 юнитов при потолке 100
			Vitality:    80,
			VitalityMax: 100,
		})
		assert.Equal(t, 20, res.VitalityDelta)
		// Таймер сдвинут только на применённые 20 юнитов (1 час при 20/час)
		assert.Equal(t, base.Add(time.Hour), res.PerFacility[0].NewAppliedAt)
	})

	t.Run("Alloy conversion never converts more than held", func(t *testing.T) {
		f := facility(models.EffectAlloyConversion, 5, 2, base)
		res := game.AccrueOutposts(game.AccrualInput{
			Facilities: []*models.Facility{f},
			Now:        base.Add(10 * time.Hour), // бюджет 100 юнитов
			Alloy:      7,
		})
		assert.Equal(t, int64(-7), res.AlloyDelta)
		assert.Equal(t, int64(7*game.AlloyConversionRate), res.CreditsDelta)
	})

	t.Run("Item generation counts in day units", func(t *testing.T) {
		f := facility(models.EffectItemGeneration, 2, 1, base)
		res := game.AccrueOutposts(game.AccrualInput{
			Facilities: []*models.Facility{f},
			Now:        base.Add(36 * time.Hour), // 2*36/24 = 3 предмета
		})
		assert.Equal(t, 3, res.ItemsProduced)
	})

	t.Run("Bonus-effect facilities produce no accrual", func(t *testing.T) {
		f := facility(models.EffectContractBonus, 5, 3, base)
		res := game.AccrueOutposts(game.AccrualInput{
			Facilities: []*models.Facility{f},
			Now:        base.Add(100 * time.Hour),
		})
		assert.Empty(t, res.PerFacility)
		assert.Zero(t, res.AlloyDelta)
	})

	t.Run("Effects of multiple facilities stack in totals", func(t *testing.T) {
		f1 := facility(models.EffectAlloyGeneration, 1, 2, base)
		f2 := facility(models.EffectAlloyGeneration, 2, 2, base)
		res := game.AccrueOutposts(game.AccrualInput{
			Facilities: []*models.Facility{f1, f2},
			Now:        base.Add(3 * time.Hour),
		})
		assert.Equal(t, int64(6+12), res.AlloyDelta)
		assert.Len(t, res.PerFacility, 2)
	})
}

func TestCollectibleIncome(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Rate times hours since last collection", func(t *testing.T) {
		f := facility(models.EffectAlloyGeneration, 1, 1, base)
		f.IncomeRate = 50
		f.IncomeCollectedAt = base
		assert.Equal(t, int64(250), game.CollectibleIncome(f, base.Add(5*time.Hour)))
	})

	t.Run("Capped at 24 hours worth", func(t *testing.T) {
		f := facility(models.EffectAlloyGeneration, 1, 1, base)
		f.IncomeRate = 50
		f.IncomeCollectedAt = base
		assert.Equal(t, int64(50*24), game.CollectibleIncome(f, base.Add(72*time.Hour)))
	})

	t.Run("Zero right after collection", func(t *testing.T) {
		f := facility(models.EffectAlloyGeneration, 1, 1, base)
		f.IncomeRate = 50
		f.IncomeCollectedAt = base
		assert.Zero(t, game.CollectibleIncome(f, base))
	})
}
