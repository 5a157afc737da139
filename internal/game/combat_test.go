package game_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outland-server/internal/game"
	"outland-server/internal/models"
)

func testOpponent() *models.Opponent {
	return &models.Opponent{
		ID:            uuid.New(),
		Name:          "Rustjaw Raider",
		Power:         1000,
		AdrenalCost:   10,
		RewardCredits: 200,
		RewardXP:      50,
	}
}

func TestWinChance(t *testing.T) {
	t.Run("Equal power resolves to exactly 50 percent", func(t *testing.T) {
		assert.InDelta(t, 0.5, game.WinChance(1000, 1000), 1e-12)
	})

	t.Run("One point per ten power advantage", func(t *testing.T) {
		assert.InDelta(t, 0.51, game.WinChance(1010, 1000), 1e-12)
		assert.InDelta(t, 0.49, game.WinChance(990, 1000), 1e-12)
	})

	t.Run("Hard bounded to keep every matchup winnable and losable", func(t *testing.T) {
		assert.InDelta(t, 0.9, game.WinChance(100_000, 0), 1e-12)
		assert.InDelta(t, 0.1, game.WinChance(0, 100_000), 1e-12)
		for delta := -10000; delta <= 10000; delta += 97 {
			c := game.WinChance(1000+delta, 1000)
			assert.GreaterOrEqual(t, c, 0.1)
			assert.LessOrEqual(t, c, 0.9)
		}
	})
}

func TestResolveCombat(t *testing.T) {
	power := game.Power(20, 0, 0, 0, 0) // 1000

	t.Run("Rejects insufficient adrenal before any mutation", func(t *testing.T) {
		_, err := game.ResolveCombat(game.CombatInput{Power: power, Adrenal: 5, Opponent: testOpponent()}, &scriptedRand{})
		var pre *game.PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, game.ReasonInsufficientAdrenal, pre.Reason)
		assert.Equal(t, 10, pre.Required)
		assert.Equal(t, 5, pre.Available)
	})

	t.Run("Win grants scaled rewards and draws damage ranges", func(t *testing.T) {
		// floats: исход (0.2 < 0.5 - победа), лут (0.9 - нет)
		// ints: урон нанесен, урон получен, бонус кредитов, бонус XP, серия
		rng := &scriptedRand{
			floats: []float64{0.2, 0.9},
			ints:   []int{5, 3, 25, 4, 2},
		}
		out, err := game.ResolveCombat(game.CombatInput{Power: power, Adrenal: 50, Opponent: testOpponent()}, rng)
		require.NoError(t, err)
		assert.True(t, out.Win)
		assert.Equal(t, 15, out.DamageDealt) // 10 + 5
		assert.Equal(t, 8, out.DamageTaken)  // 5 + 3
		// 200 (конверт) + 1000/10 + 25 = 325
		assert.Equal(t, int64(325), out.CreditsDelta)
		// 50 + 1000/20 + 4 = 104
		assert.Equal(t, 104, out.XPGained)
		assert.Equal(t, 3, out.Streak)
		assert.Zero(t, out.VitalityLoss) // победа не отнимает живучесть
		assert.False(t, out.LootDropped)
		assert.Equal(t, 10, out.AdrenalSpent)
	})

	t.Run("Loss grants reduced XP, no credits, vitality loss", func(t *testing.T) {
		rng := &scriptedRand{
			floats: []float64{0.8}, // 0.8 >= 0.5 - поражение
			ints:   []int{2, 5},    // урон нанесен, урон получен
		}
		out, err := game.ResolveCombat(game.CombatInput{Power: power, Adrenal: 50, Opponent: testOpponent()}, rng)
		require.NoError(t, err)
		assert.False(t, out.Win)
		assert.Equal(t, 7, out.DamageDealt)  // 5 + 2
		assert.Equal(t, 20, out.DamageTaken) // 15 + 5
		assert.Zero(t, out.CreditsDelta)
		// floor((50 + 1000/20) * 0.25) = 25
		assert.Equal(t, 25, out.XPGained)
		assert.Equal(t, 20, out.VitalityLoss)
		assert.Zero(t, out.Streak)
		assert.False(t, out.LootDropped)
	})

	t.Run("Loot rarity weighted by opponent power", func(t *testing.T) {
		opp := testOpponent()
		opp.Power = 1000 // rare-шанс 0.5
		// floats: исход, лут (0.1 < 0.2 - дроп), редкость (0.4 < 0.5 - rare)
		rng := &scriptedRand{
			floats: []float64{0.2, 0.1, 0.4},
			ints:   []int{0, 0, 0, 0, 0},
		}
		out, err := game.ResolveCombat(game.CombatInput{Power: power, Adrenal: 50, Opponent: opp}, rng)
		require.NoError(t, err)
		assert.True(t, out.LootDropped)
		assert.Equal(t, models.RarityRare, out.LootRarity)

		// Слабый противник почти не роняет редкое
		opp.Power = 100 // rare-шанс 0.05
		rng = &scriptedRand{
			floats: []float64{0.2, 0.1, 0.4},
			ints:   []int{0, 0, 0, 0, 0},
		}
		out, err = game.ResolveCombat(game.CombatInput{Power: power, Adrenal: 50, Opponent: opp}, rng)
		require.NoError(t, err)
		assert.True(t, out.LootDropped)
		assert.Equal(t, models.RarityCommon, out.LootRarity)
	})
}

func TestGenerateOpponent(t *testing.T) {
	t.Run("Power stays in a band around the account level", func(t *testing.T) {
		rng := game.NewRand(7, 11)
		for i := 0; i < 200; i++ {
			opp := game.GenerateOpponent(10, rng)
			assert.GreaterOrEqual(t, opp.Power, 400) // 500 - 20%
			assert.LessOrEqual(t, opp.Power, 600)    // 500 + 20%
			assert.Positive(t, opp.AdrenalCost)
			assert.Positive(t, opp.RewardXP)
			assert.NotEmpty(t, opp.Name)
		}
	})
}
