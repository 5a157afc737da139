package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"outland-server/internal/game"
)

func TestXPToAdvance(t *testing.T) {
	t.Run("Base cost at level 1", func(t *testing.T) {
		assert.Equal(t, 100, game.XPToAdvance(1))
	})

	t.Run("Cost is non-decreasing in level", func(t *testing.T) {
		prev := game.XPToAdvance(1)
		for level := 2; level < game.LevelCap; level++ {
			cost := game.XPToAdvance(level)
			assert.GreaterOrEqual(t, cost, prev, "level %d", level)
			prev = cost
		}
	})

	t.Run("Tier boundaries are continuous", func(t *testing.T) {
		// Нижний ярус: 100 + (n-1)*50
		assert.Equal(t, 500, game.XPToAdvance(9))
		// Средний ярус продолжает от вершины нижнего
		assert.Equal(t, 600, game.XPToAdvance(10))
		assert.Equal(t, 2000, game.XPToAdvance(24))
		// Верхний ярус
		assert.Equal(t, 2250, game.XPToAdvance(25))
	})

	t.Run("Zero past the cap", func(t *testing.T) {
		assert.Equal(t, 0, game.XPToAdvance(game.LevelCap))
	})
}

func TestLevelUp(t *testing.T) {
	t.Run("No level gained", func(t *testing.T) {
		level, xp, toNext, leveled := game.LevelUp(1, 20, 30)
		assert.Equal(t, 1, level)
		assert.Equal(t, 50, xp)
		assert.Equal(t, 100, toNext)
		assert.False(t, leveled)
	})

	t.Run("Single level up", func(t *testing.T) {
		level, xp, toNext, leveled := game.LevelUp(1, 90, 20)
		assert.Equal(t, 2, level)
		assert.Equal(t, 10, xp)
		assert.Equal(t, 150, toNext)
		assert.True(t, leveled)
	})

	t.Run("Multi level up resolves iteratively", func(t *testing.T) {
		// 100 + 150 + 200 = 450 на уровни 1->4, остаток 50
		level, xp, toNext, leveled := game.LevelUp(1, 0, 500)
		assert.Equal(t, 4, level)
		assert.Equal(t, 50, xp)
		assert.Equal(t, 250, toNext)
		assert.True(t, leveled)
	})

	t.Run("Remaining XP always below current cost", func(t *testing.T) {
		for _, gain := range []int{0, 99, 100, 1234, 99999} {
			level, xp, toNext, _ := game.LevelUp(1, 0, gain)
			if level < game.LevelCap {
				assert.Less(t, xp, toNext)
			}
			assert.GreaterOrEqual(t, level, 1)
		}
	})

	t.Run("Excess XP discarded at the cap", func(t *testing.T) {
		level, xp, toNext, leveled := game.LevelUp(game.LevelCap-1, 0, 100_000_000)
		assert.Equal(t, game.LevelCap, level)
		assert.Equal(t, 0, xp)
		assert.Equal(t, 0, toNext)
		assert.True(t, leveled)
	})

	t.Run("Never decreases level", func(t *testing.T) {
		level, _, _, leveled := game.LevelUp(50, 0, 0)
		assert.Equal(t, 50, level)
		assert.False(t, leveled)
	})
}

func TestRankForLevel(t *testing.T) {
	cases := []struct {
		level int
		rank  string
	}{
		{1, "Drifter"},
		{4, "Drifter"},
		{5, "Scavenger"},
		{14, "Runner"},
		{15, "Smuggler"},
		{20, "Enforcer"},
		{49, "Warlord"},
		{50, "Baron"},
		{100, "Legend"},
	}
	for _, c := range cases {
		assert.Equal(t, c.rank, game.RankForLevel(c.level), "level %d", c.level)
	}
}
