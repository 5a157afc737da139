package game_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outland-server/internal/game"
	"outland-server/internal/models"
)

func easyMission() *models.Mission {
	return &models.Mission{
		ID:            uuid.New(),
		Name:          "Supply Run",
		Type:          models.MissionTypeStandard,
		Tier:          models.TierEasy,
		MinLevel:      1,
		ChargeCost:    10,
		RewardCredits: 100,
		RewardXP:      10,
	}
}

func TestContractSuccessRate(t *testing.T) {
	t.Run("Easy mission at tier minimum cost is exactly the tier base", func(t *testing.T) {
		// Канонический случай: аккаунт 1 уровня, easy-миссия стоимостью 10.
		// Стоимость на минимуме яруса -> энерго-модификатор 0;
		// уровень равен требованию -> модификатор уровня 0. Ровно 95%.
		rate := game.ContractSuccessRate(models.TierEasy, 10, 1, 1)
		assert.InDelta(t, 95.0, rate, 1e-9)
	})

	t.Run("Cost below the tier minimum takes no penalty either", func(t *testing.T) {
		rate := game.ContractSuccessRate(models.TierEasy, 5, 1, 1)
		assert.InDelta(t, 95.0, rate, 1e-9)
	})

	t.Run("Energy modifier subtracts 2 percent per step within the tier", func(t *testing.T) {
		// easy: шаг 5 юнитов; стоимость 20 = 2 шага над минимумом 10
		rate := game.ContractSuccessRate(models.TierEasy, 20, 1, 1)
		assert.InDelta(t, 91.0, rate, 1e-9)
	})

	t.Run("Level modifier grants 5 percent per level capped at 20", func(t *testing.T) {
		// Уровень 20 против требования 15: min(20%, 5*5%) = 20%
		base := game.ContractSuccessRate(models.TierElite, 20, 15, 15)
		boosted := game.ContractSuccessRate(models.TierElite, 20, 20, 15)
		assert.InDelta(t, base+20.0, boosted, 1e-9)

		// Дальше потолка бонус не растет
		assert.InDelta(t, boosted, game.ContractSuccessRate(models.TierElite, 20, 50, 15), 1e-9)
	})

	t.Run("Rate bounded to 5..100 for every tier and cost", func(t *testing.T) {
		tiers := []models.MissionTier{models.TierEasy, models.TierRisky, models.TierElite, models.TierEvent}
		for _, tier := range tiers {
			for cost := 1; cost <= 200; cost++ {
				for _, lvl := range []int{1, 10, 60} {
					rate := game.ContractSuccessRate(tier, cost, lvl, 1)
					assert.GreaterOrEqual(t, rate, 5.0)
					assert.LessOrEqual(t, rate, 100.0)
				}
			}
		}
	})
}

func TestResolveContract(t *testing.T) {
	t.Run("Rejects level below requirement before any mutation", func(t *testing.T) {
		m := easyMission()
		m.MinLevel = 10
		_, err := game.ResolveContract(game.ContractInput{Level: 5, Charge: 100, Mission: m}, &scriptedRand{})
		var pre *game.PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, game.ReasonLevelTooLow, pre.Reason)
		assert.Equal(t, 10, pre.Required)
		assert.Equal(t, 5, pre.Available)
	})

	t.Run("Rejects insufficient charge", func(t *testing.T) {
		m := easyMission()
		_, err := game.ResolveContract(game.ContractInput{Level: 1, Charge: 9, Mission: m}, &scriptedRand{})
		var pre *game.PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, game.ReasonInsufficientCharge, pre.Reason)
	})

	t.Run("Success grants full reward and XP", func(t *testing.T) {
		m := easyMission()
		rng := &scriptedRand{floats: []float64{0.10}} // 10 < 95 -> успех, лута нет
		out, err := game.ResolveContract(game.ContractInput{Level: 1, Charge: 100, Mission: m}, rng)
		require.NoError(t, err)
		assert.True(t, out.Success)
		assert.InDelta(t, 95.0, out.SuccessRate, 1e-9)
		assert.Equal(t, int64(100), out.CreditsDelta)
		assert.Equal(t, 10, out.XPGained)
		assert.Equal(t, 10, out.ChargeSpent)
		assert.Zero(t, out.VitalityLoss)
	})

	t.Run("Facility bonus raises reward and is reported separately", func(t *testing.T) {
		m := easyMission()
		facilities := []*models.Facility{
			{Effect: models.EffectContractBonus, Magnitude: 2, Level: 5},  // +10%
			{Effect: models.EffectContractBonus, Magnitude: 1, Level: 10}, // +10%, складывается аддитивно
			{Effect: models.EffectSmugglingBonus, Magnitude: 5, Level: 4}, // не применяется: миссия не контрабандная
		}
		rng := &scriptedRand{floats: []float64{0.10}}
		out, err := game.ResolveContract(game.ContractInput{Level: 1, Charge: 100, Mission: m, Facilities: facilities}, rng)
		require.NoError(t, err)
		assert.Equal(t, int64(120), out.CreditsDelta)
		assert.Equal(t, int64(20), out.BonusCredits)
	})

	t.Run("Smuggling bonus applies by keyword match", func(t *testing.T) {
		m := easyMission()
		m.Name = "Contraband Drop"
		facilities := []*models.Facility{
			{Effect: models.EffectSmugglingBonus, Magnitude: 5, Level: 4}, // +20%
		}
		rng := &scriptedRand{floats: []float64{0.10}}
		out, err := game.ResolveContract(game.ContractInput{Level: 1, Charge: 100, Mission: m, Facilities: facilities}, rng)
		require.NoError(t, err)
		assert.Equal(t, int64(120), out.CreditsDelta)
	})

	t.Run("Easy tier failure loses nothing but the charge", func(t *testing.T) {
		m := easyMission()
		rng := &scriptedRand{floats: []float64{0.999}} // 99.9 >= 95 -> провал
		out, err := game.ResolveContract(game.ContractInput{Level: 1, Charge: 100, Credits: 500, Mission: m}, rng)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Zero(t, out.CreditsDelta)
		assert.Zero(t, out.XPGained)
		assert.Zero(t, out.VitalityLoss)
		assert.Equal(t, 10, out.ChargeSpent)
	})

	t.Run("Risky tier failure loses a reward fraction and grants partial XP", func(t *testing.T) {
		m := easyMission()
		m.Tier = models.TierRisky
		m.ChargeCost = 10
		m.RewardCredits = 200
		m.RewardXP = 40
		rng := &scriptedRand{floats: []float64{0.999}}
		out, err := game.ResolveContract(game.ContractInput{Level: 1, Charge: 100, Credits: 500, Mission: m}, rng)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, int64(-20), out.CreditsDelta) // 10% от 200
		assert.Equal(t, 10, out.XPGained)             // 25% от 40
		assert.Zero(t, out.VitalityLoss)
	})

	t.Run("Elite tier failure additionally inflicts vitality loss", func(t *testing.T) {
		m := easyMission()
		m.Tier = models.TierElite
		m.ChargeCost = 20
		rng := &scriptedRand{floats: []float64{0.999}, ints: []int{4}}
		out, err := game.ResolveContract(game.ContractInput{Level: 20, Charge: 100, Credits: 500, Mission: m}, rng)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, 9, out.VitalityLoss) // 5 + 4 из диапазона 5..15
	})

	t.Run("Failure loss never exceeds held credits", func(t *testing.T) {
		m := easyMission()
		m.Tier = models.TierEvent
		m.ChargeCost = 25
		m.RewardCredits = 10_000
		rng := &scriptedRand{floats: []float64{0.999}, ints: []int{0}}
		out, err := game.ResolveContract(game.ContractInput{Level: 30, Charge: 100, Credits: 7, Mission: m}, rng)
		require.NoError(t, err)
		assert.Equal(t, int64(-7), out.CreditsDelta)
	})

	t.Run("Loot drop drawn against flat mission chance on success", func(t *testing.T) {
		m := easyMission()
		lootID := uuid.New()
		m.LootItemID = &lootID
		m.LootChance = 0.5

		rng := &scriptedRand{floats: []float64{0.10, 0.49}} // успех, дроп
		out, err := game.ResolveContract(game.ContractInput{Level: 1, Charge: 100, Mission: m}, rng)
		require.NoError(t, err)
		assert.True(t, out.LootDropped)

		rng = &scriptedRand{floats: []float64{0.10, 0.51}} // успех, без дропа
		out, err = game.ResolveContract(game.ContractInput{Level: 1, Charge: 100, Mission: m}, rng)
		require.NoError(t, err)
		assert.False(t, out.LootDropped)
	})
}
