package game

import "fmt"

// Причины отказа по предусловиям. Каждая - отдельное отклоняемое условие,
// проверяемое ДО любой мутации.
const (
	ReasonLevelTooLow         = "level_too_low"
	ReasonInsufficientCharge  = "insufficient_charge"
	ReasonInsufficientAdrenal = "insufficient_adrenal"
)

// PreconditionError - отказ по предусловию с конкретными величинами
// "требуется/доступно", чтобы отдать их вызывающему дословно.
type PreconditionError struct {
	Reason    string
	Required  int
	Available int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s (required %d, available %d)", e.Reason, e.Required, e.Available)
}
