package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAccountAlreadyExists = errors.New("account already exists for this user")
	// Можно добавить другие специфичные ошибки
)

// CooldownError - отказ стычки: противник еще на кулдауне.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("opponent is on cooldown for another %s", e.Remaining.Round(time.Second))
}
