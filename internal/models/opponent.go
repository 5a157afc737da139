package models

import (
	"github.com/google/uuid"
)

// Opponent - эфемерный противник для стычки. Генерируется на запрос,
// живет в кеше до истечения TTL и не персистится как сущность:
// сохраняется только итоговый лог стычки.
type Opponent struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Power         int       `json:"power"`
	AdrenalCost   int       `json:"adrenal_cost"`
	RewardCredits int64     `json:"reward_credits"` // базовый конверт наград
	RewardXP      int       `json:"reward_xp"`
}
