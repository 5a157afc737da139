package models

import (
	"time"

	"github.com/google/uuid"
)

// FacilityEffect - тег спец-эффекта аутпоста. Несколько фасилити с одним
// тегом складываются аддитивно.
type FacilityEffect string

const (
	EffectContractBonus   FacilityEffect = "contract_bonus"
	EffectSmugglingBonus  FacilityEffect = "smuggling_bonus"
	EffectAlloyGeneration FacilityEffect = "alloy_generation"
	EffectHealthRegen     FacilityEffect = "health_regeneration"
	EffectAlloyConversion FacilityEffect = "alloy_conversion"
	EffectItemGeneration  FacilityEffect = "item_generation"
)

// Facility - принадлежащий аккаунту аутпост. Ядро читает бонусы и двигает
// таймеры начисления; владение записью - за внешним коллаборатором.
type Facility struct {
	ID        uuid.UUID      `json:"id"`
	AccountID uuid.UUID      `json:"account_id"`
	Name      string         `json:"name"`
	Effect    FacilityEffect `json:"effect"`
	Magnitude float64        `json:"magnitude"` // величина эффекта на уровень фасилити
	Level     int            `json:"level"`

	// Почасовой собираемый доход (кредиты/час), независимый от спец-эффекта.
	IncomeRate int64 `json:"income_rate"`

	// Таймеры "последнего применения". Двигаются ровно настолько, насколько
	// юнитов реально применено - иначе начисление задвоится.
	EffectAppliedAt   time.Time `json:"effect_applied_at"`
	IncomeCollectedAt time.Time `json:"income_collected_at"`
}

// BonusPct возвращает вклад фасилити в процентный бонус (magnitude * level).
// Имеет смысл только для contract_bonus / smuggling_bonus.
func (f *Facility) BonusPct() float64 {
	return f.Magnitude * float64(f.Level)
}
