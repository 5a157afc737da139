package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemCategory определяет, как предмет участвует в боевой силе:
// оружие и броня дают вклад только будучи экипированными, компаньоны -
// самим фактом владения, расходники не дают вклада и не экипируются.
type ItemCategory string

const (
	CategoryWeapon     ItemCategory = "weapon"
	CategoryArmor      ItemCategory = "armor"
	CategoryCompanion  ItemCategory = "companion"
	CategoryConsumable ItemCategory = "consumable"
)

// ItemRarity - редкость предмета для взвешенного лута в стычках.
type ItemRarity string

const (
	RarityCommon ItemRarity = "common"
	RarityRare   ItemRarity = "rare"
)

// Item - неизменяемая запись каталога предметов.
type Item struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Category ItemCategory `json:"category"`
	Rarity   ItemRarity   `json:"rarity"`
	Attack   int          `json:"attack"`
	Defense  int          `json:"defense"`
}

// CanEquip сообщает, может ли предмет быть экипирован вообще.
func (i *Item) CanEquip() bool {
	return i.Category == CategoryWeapon || i.Category == CategoryArmor
}

// AccountItem - единица владения предметом.
type AccountItem struct {
	ID         uuid.UUID `json:"id"`
	AccountID  uuid.UUID `json:"account_id"`
	ItemID     uuid.UUID `json:"item_id"`
	Equipped   bool      `json:"equipped"`
	AcquiredAt time.Time `json:"acquired_at"`

	// Item заполняется репозиторием при JOIN-выборке; nil при простом чтении.
	Item *Item `json:"item,omitempty"`
}
