package models

import (
	"github.com/google/uuid"
)

// MissionTier - классификация сложности контракта.
type MissionTier string

const (
	TierEasy  MissionTier = "easy"
	TierRisky MissionTier = "risky"
	TierElite MissionTier = "elite"
	TierEvent MissionTier = "event"
)

// MissionType - тип контракта; smuggling-контракты получают бонус
// от фасилити с эффектом smuggling_bonus.
type MissionType string

const (
	MissionTypeStandard  MissionType = "standard"
	MissionTypeSmuggling MissionType = "smuggling"
)

// Mission - неизменяемая запись каталога контрактов. Ядро только читает ее;
// владелец - внешний каталог.
type Mission struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Type          MissionType `json:"type"`
	Tier          MissionTier `json:"tier"`
	MinLevel      int         `json:"min_level"`
	ChargeCost    int         `json:"charge_cost"`
	RewardCredits int64       `json:"reward_credits"`
	RewardXP      int         `json:"reward_xp"`
	// Плоский шанс дропа одного фиксированного предмета при успехе, [0,1].
	LootChance float64    `json:"loot_chance"`
	LootItemID *uuid.UUID `json:"loot_item_id,omitempty"`
}
