package game

import (
	"time"

	"outland-server/internal/models"
)

// Интервалы регенерации трех пулов: заряд восстанавливается быстро,
// адреналин медленнее, живучесть медленнее всех.
const (
	ChargeRegenInterval   = 3 * time.Minute
	AdrenalRegenInterval  = 5 * time.Minute
	VitalityRegenInterval = 10 * time.Minute
)

// Regen вычисляет ленивую регенерацию капнутого пула.
//
// Если пул полон, входы возвращаются без изменений - lastTick НЕ двигается,
// так что после траты отсчет идет от последнего реального перехода
// full->partial (сознательно сохраненная особенность, см. тесты).
// Иначе начисляются целые юниты за прошедшее время, а lastTick сдвигается
// ровно на unitsGained*interval (не на now), сохраняя дробный прогресс
// к следующему юниту. Функция идемпотентна по now.
func Regen(current, maxValue int, lastTick, now time.Time, interval time.Duration) (int, time.Time) {
	if current >= maxValue {
		return current, lastTick
	}
	elapsed := now.Sub(lastTick)
	if elapsed <= 0 {
		return current, lastTick
	}
	unitsGained := int(elapsed / interval)
	if unitsGained <= 0 {
		return current, lastTick
	}
	newCurrent := current + unitsGained
	if newCurrent > maxValue {
		newCurrent = maxValue
	}
	newTick := lastTick.Add(time.Duration(unitsGained) * interval)
	return newCurrent, newTick
}

// TickAccount приводит все три пула аккаунта к текущему моменту.
// Возвращает true, если хоть одно значение изменилось (и состояние надо
// писать обратно). Сам по себе вызов безопасен для конкурентных читателей:
// сериализуется только write-back.
func TickAccount(acc *models.Account, now time.Time) bool {
	changed := false

	if c, t := Regen(acc.Charge, acc.ChargeMax, acc.ChargeTick, now, ChargeRegenInterval); c != acc.Charge || !t.Equal(acc.ChargeTick) {
		acc.Charge, acc.ChargeTick = c, t
		changed = true
	}
	if a, t := Regen(acc.Adrenal, acc.AdrenalMax, acc.AdrenalTick, now, AdrenalRegenInterval); a != acc.Adrenal || !t.Equal(acc.AdrenalTick) {
		acc.Adrenal, acc.AdrenalTick = a, t
		changed = true
	}
	if v, t := Regen(acc.Vitality, acc.VitalityMax, acc.VitalityTick, now, VitalityRegenInterval); v != acc.Vitality || !t.Equal(acc.VitalityTick) {
		acc.Vitality, acc.VitalityTick = v, t
		changed = true
	}

	return changed
}
