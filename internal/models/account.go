package models

import (
	"time"

	"github.com/google/uuid"
)

// Стартовые значения аккаунта при онбординге.
const (
	StartingLevel       = 1
	StartingChargeMax   = 100
	StartingAdrenalMax  = 50
	StartingVitalityMax = 100
	StartingCredits     = 500
	StartingAlloy       = 0
)

// Account - экономический субъект игры. Единственный владелец своих пулов,
// валют и полей прогрессии. Создается один раз при онбординге, мутируется
// каждым вызовом резолвера, никогда не удаляется.
//
// Инварианты: 0 <= пул <= его максимум; Level >= 1; валюты >= 0.
// Поле Rank денормализовано для выборок и ПЕРЕВЫЧИСЛЯЕТСЯ из Level
// на каждом пути мутации (см. game.RankForLevel).
type Account struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Handle string    `json:"handle"`

	Level    int    `json:"level"`
	XP       int    `json:"xp"`         // опыт, накопленный внутри текущего уровня
	XPToNext int    `json:"xp_to_next"` // стоимость перехода с текущего уровня
	Rank     string `json:"rank"`

	// Три независимых пула с отдельными часами регенерации.
	// Charge ("заряд") тратится на контракты, Adrenal ("адреналин") на стычки,
	// Vitality ("живучесть") - здоровье.
	Charge       int       `json:"charge"`
	ChargeMax    int       `json:"charge_max"`
	ChargeTick   time.Time `json:"charge_tick"`
	Adrenal      int       `json:"adrenal"`
	AdrenalMax   int       `json:"adrenal_max"`
	AdrenalTick  time.Time `json:"adrenal_tick"`
	Vitality     int       `json:"vitality"`
	VitalityMax  int       `json:"vitality_max"`
	VitalityTick time.Time `json:"vitality_tick"`

	Credits int64 `json:"credits"` // основная валюта
	Alloy   int64 `json:"alloy"`   // вторичная валюта ("сплав")

	// Version инкрементируется при каждом коммите; используется для CAS,
	// чтобы два конкурентных резолвера не переписали друг друга.
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount создает аккаунт с фиксированными стартовыми значениями.
func NewAccount(userID uuid.UUID, handle string, now time.Time) *Account {
	return &Account{
		ID:           uuid.New(),
		UserID:       userID,
		Handle:       handle,
		Level:        StartingLevel,
		XP:           0,
		Charge:       StartingChargeMax,
		ChargeMax:    StartingChargeMax,
		ChargeTick:   now,
		Adrenal:      StartingAdrenalMax,
		AdrenalMax:   StartingAdrenalMax,
		AdrenalTick:  now,
		Vitality:     StartingVitalityMax,
		VitalityMax:  StartingVitalityMax,
		VitalityTick: now,
		Credits:      StartingCredits,
		Alloy:        StartingAlloy,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
