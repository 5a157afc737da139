package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResolutionKind - вид разрешенного действия.
type ResolutionKind string

const (
	ResolutionContract ResolutionKind = "contract"
	ResolutionSkirmish ResolutionKind = "skirmish"
)

// ResolutionLog - append-only запись одного вызова резолвера: исход,
// примененные дельты, момент времени. После вставки никогда не мутируется.
type ResolutionLog struct {
	ID        uuid.UUID      `json:"id"`
	AccountID uuid.UUID      `json:"account_id"`
	Kind      ResolutionKind `json:"kind"`
	// RefID - id миссии или противника, к которому относится запись.
	RefID         *uuid.UUID      `json:"ref_id,omitempty"`
	Success       bool            `json:"success"`
	CreditsDelta  int64           `json:"credits_delta"`
	AlloyDelta    int64           `json:"alloy_delta"`
	XPDelta       int             `json:"xp_delta"`
	VitalityDelta int             `json:"vitality_delta"`
	LootItemID    *uuid.UUID      `json:"loot_item_id,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"` // расшифровка исхода для отчетности
	CreatedAt     time.Time       `json:"created_at"`
}
