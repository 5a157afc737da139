package game

import (
	"math"
	"time"

	"github.com/google/uuid"

	"outland-server/internal/models"
)

// Константы начисления аутпостов.
const (
	// Курс конверсии: кредитов за единицу сплава.
	AlloyConversionRate = 3
	// Генерация предметов считается в сутках: magnitude*level предметов за 24ч.
	itemGenerationHours = 24
	// Собираемый доход копится максимум за 24 часа.
	incomeCapHours = 24
)

// FacilityAccrual - результат начисления по одному фасилити. NewAppliedAt -
// новый таймер "последнего применения", продвинутый ровно настолько,
// насколько юнитов реально применено.
type FacilityAccrual struct {
	FacilityID    uuid.UUID             `json:"facility_id"`
	Effect        models.FacilityEffect `json:"effect"`
	AlloyDelta    int64                 `json:"alloy_delta"`
	CreditsDelta  int64                 `json:"credits_delta"`
	VitalityDelta int                   `json:"vitality_delta"`
	ItemsProduced int                   `json:"items_produced"`
	NewAppliedAt  time.Time             `json:"-"`
}

// AccrualResult - суммарные эффекты начисления по всем фасилити.
type AccrualResult struct {
	PerFacility   []FacilityAccrual `json:"per_facility"`
	AlloyDelta    int64             `json:"alloy_delta"`
	CreditsDelta  int64             `json:"credits_delta"`
	VitalityDelta int               `json:"vitality_delta"`
	ItemsProduced int               `json:"items_produced"`
}

// AccrualInput - снимок счетов аккаунта, нужных движку начисления.
type AccrualInput struct {
	Facilities  []*models.Facility
	Now         time.Time
	Vitality    int
	VitalityMax int
	Alloy       int64
}

// advanceFor возвращает новый таймер применения, сдвинутый на время,
// соответствующее applied юнитам при скорости unitsPerHour.
// Дробный прогресс к следующему юниту сохраняется.
func advanceFor(appliedAt time.Time, applied float64, unitsPerHour float64) time.Time {
	if applied <= 0 || unitsPerHour <= 0 {
		return appliedAt
	}
	hours := applied / unitsPerHour
	return appliedAt.Add(time.Duration(hours * float64(time.Hour)))
}

// AccrueOutposts применяет спец-эффекты всех фасилити за время, прошедшее
// с их таймеров последнего применения. Вся математика монотонна и
// перевычислима из (rate, level, elapsed); двойной счет исключен тем, что
// таймер двигается ровно на примененные юниты.
func AccrueOutposts(in AccrualInput) *AccrualResult {
	res := &AccrualResult{}
	vitality := in.Vitality
	alloy := in.Alloy

	for _, f := range in.Facilities {
		hours := in.Now.Sub(f.EffectAppliedAt).Hours()
		if hours <= 0 {
			continue
		}
		unitsPerHour := f.Magnitude * float64(f.Level)
		if unitsPerHour <= 0 {
			continue
		}

		acc := FacilityAccrual{FacilityID: f.ID, Effect: f.Effect, NewAppliedAt: f.EffectAppliedAt}

		switch f.Effect {
		case models.EffectAlloyGeneration:
			units := math.Floor(unitsPerHour * hours)
			if units > 0 {
				acc.AlloyDelta = int64(units)
				acc.NewAppliedAt = advanceFor(f.EffectAppliedAt, units, unitsPerHour)
			}

		case models.EffectHealthRegen:
			units := int(math.Floor(unitsPerHour * hours))
			if room := in.VitalityMax - vitality; units > room {
				units = room
			}
			if units > 0 {
				acc.VitalityDelta = units
				vitality += units
				acc.NewAppliedAt = advanceFor(f.EffectAppliedAt, float64(units), unitsPerHour)
			}

		case models.EffectAlloyConversion:
			// Конвертируем не больше, чем аккаунт реально держит сплава.
			budget := int64(math.Floor(unitsPerHour * hours))
			if budget > alloy {
				budget = alloy
			}
			if budget > 0 {
				acc.AlloyDelta = -budget
				acc.CreditsDelta = budget * AlloyConversionRate
				alloy -= budget
				acc.NewAppliedAt = advanceFor(f.EffectAppliedAt, float64(budget), unitsPerHour)
			}

		case models.EffectItemGeneration:
			items := int(math.Floor(unitsPerHour * hours / itemGenerationHours))
			if items > 0 {
				acc.ItemsProduced = items
				acc.NewAppliedAt = advanceFor(f.EffectAppliedAt, float64(items)*itemGenerationHours, unitsPerHour)
			}

		default:
			// Боевые/контрактные бонусы начислений не производят.
			continue
		}

		res.PerFacility = append(res.PerFacility, acc)
		res.AlloyDelta += acc.AlloyDelta
		res.CreditsDelta += acc.CreditsDelta
		res.VitalityDelta += acc.VitalityDelta
		res.ItemsProduced += acc.ItemsProduced
	}

	return res
}

// CollectibleIncome возвращает накопленный собираемый доход фасилити:
// incomeRate за час с момента последнего сбора, с потолком в 24 часа.
// Таймер сбора обнуляется ТОЛЬКО явной операцией сбора, не этим расчетом.
func CollectibleIncome(f *models.Facility, now time.Time) int64 {
	hours := now.Sub(f.IncomeCollectedAt).Hours()
	if hours <= 0 {
		return 0
	}
	if hours > incomeCapHours {
		hours = incomeCapHours
	}
	return int64(math.Floor(float64(f.IncomeRate) * hours))
}
