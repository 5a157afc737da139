package handler

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
	// Reason заполняется для отказов по предусловиям (insufficient_charge и т.п.).
	Reason    string `json:"reason,omitempty"`
	Required  int    `json:"required,omitempty"`
	Available int    `json:"available,omitempty"`
	// RetryAfterSec заполняется для отказов по кулдауну.
	RetryAfterSec int `json:"retry_after_sec,omitempty"`
}

// createAccountRequest - тело POST /accounts.
type createAccountRequest struct {
	Handle string `json:"handle" validate:"required,min=3,max=24"`
}

// scoutRequest - тело POST /skirmish/scout.
type scoutRequest struct {
	Count int `json:"count" validate:"omitempty,min=1,max=10"`
}

// equipRequest - тело PUT /holdings/:id/equip.
type equipRequest struct {
	Equipped bool `json:"equipped"`
}
