package game_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"outland-server/internal/game"
	"outland-server/internal/models"
)

func TestPower(t *testing.T) {
	t.Run("Base is 50 per level", func(t *testing.T) {
		b := game.Power(10, 0, 0, 0, 0)
		assert.Equal(t, 500, b.Base)
		assert.Equal(t, 500, b.Total)
	})

	t.Run("Breakdown components sum to total", func(t *testing.T) {
		b := game.Power(3, 10, 20, 30, 40)
		assert.Equal(t, 150, b.Base)
		assert.Equal(t, 150+10+20+30+40, b.Total)
		assert.Equal(t, 10, b.CompanionAttack)
		assert.Equal(t, 20, b.CompanionDefense)
		assert.Equal(t, 30, b.GearAttack)
		assert.Equal(t, 40, b.GearDefense)
	})
}

func TestPowerFromHoldings(t *testing.T) {
	item := func(cat models.ItemCategory, atk, def int, equipped bool) *models.AccountItem {
		return &models.AccountItem{
			ID:       uuid.New(),
			Equipped: equipped,
			Item:     &models.Item{ID: uuid.New(), Category: cat, Attack: atk, Defense: def},
		}
	}

	t.Run("Only equipped gear contributes", func(t *testing.T) {
		holdings := []*models.AccountItem{
			item(models.CategoryWeapon, 15, 0, true),
			item(models.CategoryWeapon, 100, 0, false), // в рюкзаке, не считается
			item(models.CategoryArmor, 0, 25, true),
		}
		b := game.PowerFromHoldings(2, holdings)
		assert.Equal(t, 15, b.GearAttack)
		assert.Equal(t, 25, b.GearDefense)
		assert.Equal(t, 100+15+25, b.Total)
	})

	t.Run("Companions contribute by ownership", func(t *testing.T) {
		holdings := []*models.AccountItem{
			item(models.CategoryCompanion, 5, 7, false),
			item(models.CategoryCompanion, 3, 2, false),
		}
		b := game.PowerFromHoldings(1, holdings)
		assert.Equal(t, 8, b.CompanionAttack)
		assert.Equal(t, 9, b.CompanionDefense)
	})

	t.Run("Consumables never contribute even if flagged equipped", func(t *testing.T) {
		holdings := []*models.AccountItem{
			item(models.CategoryConsumable, 50, 50, true),
		}
		b := game.PowerFromHoldings(1, holdings)
		assert.Equal(t, 50, b.Total) // только base
	})
}

func TestItemCanEquip(t *testing.T) {
	assert.True(t, (&models.Item{Category: models.CategoryWeapon}).CanEquip())
	assert.True(t, (&models.Item{Category: models.CategoryArmor}).CanEquip())
	assert.False(t, (&models.Item{Category: models.CategoryConsumable}).CanEquip())
	assert.False(t, (&models.Item{Category: models.CategoryCompanion}).CanEquip())
}
