package game

import (
	"math"

	"github.com/google/uuid"

	"outland-server/internal/models"
)

// Константы модели стычки.
const (
	// Сдвиг шанса победы: 1 процентный пункт за каждые 10 очков
	// преимущества в силе, жесткие границы [10%, 90%].
	winChanceBase     = 0.5
	winChancePerPower = 0.01 / 10
	winChanceMin      = 0.10
	winChanceMax      = 0.90

	// Диапазоны урона: при победе наносим больше, чем получаем.
	winDamageDealtMin, winDamageDealtMax   = 10, 25
	winDamageTakenMin, winDamageTakenMax   = 5, 15
	lossDamageDealtMin, lossDamageDealtMax = 5, 15
	lossDamageTakenMin, lossDamageTakenMax = 15, 30

	// Доля XP победы, достающаяся проигравшему.
	lossXPFraction = 0.25

	// Плоский шанс лута при победе; шанс редкого тира растет с силой
	// противника до потолка.
	lootChance        = 0.20
	rareChancePerPow  = 1.0 / 2000
	rareChanceCeiling = 0.5
)

// CombatInput - снимок состояния для чистого резолвера стычки.
type CombatInput struct {
	Power    PowerBreakdown
	Adrenal  int
	Opponent *models.Opponent
}

// CombatOutcome - результат стычки.
type CombatOutcome struct {
	Win       bool    `json:"win"`
	WinChance float64 `json:"win_chance"` // [0.1, 0.9]

	AdrenalSpent int `json:"adrenal_spent"`
	DamageDealt  int `json:"damage_dealt"`
	DamageTaken  int `json:"damage_taken"`

	CreditsDelta int64 `json:"credits_delta"`
	XPGained     int   `json:"xp_gained"`
	// VitalityLoss применяется только при поражении.
	VitalityLoss int `json:"vitality_loss"`

	LootDropped bool              `json:"loot_dropped"`
	LootRarity  models.ItemRarity `json:"loot_rarity,omitempty"`
	Streak      int               `json:"streak"` // косметический счетчик серии

	PowerBreakdown PowerBreakdown `json:"power_breakdown"`
}

// WinChance вычисляет вероятность победы для пары скаляров силы.
// Равная сила дает ровно 50%; границы держат любой матч выигрываемым
// и проигрываемым.
func WinChance(power, opponentPower int) float64 {
	chance := winChanceBase + float64(power-opponentPower)*winChancePerPower
	if chance < winChanceMin {
		return winChanceMin
	}
	if chance > winChanceMax {
		return winChanceMax
	}
	return chance
}

func rollRange(rng Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// ResolveCombat разрешает стычку с противником. Предусловие (адреналин)
// проверяется до любой мутации; дельты коммитит сервисный слой.
func ResolveCombat(in CombatInput, rng Rand) (*CombatOutcome, error) {
	opp := in.Opponent

	if in.Adrenal < opp.AdrenalCost {
		return nil, &PreconditionError{Reason: ReasonInsufficientAdrenal, Required: opp.AdrenalCost, Available: in.Adrenal}
	}

	out := &CombatOutcome{
		WinChance:      WinChance(in.Power.Total, opp.Power),
		AdrenalSpent:   opp.AdrenalCost,
		PowerBreakdown: in.Power,
	}

	out.Win = rng.Float64() < out.WinChance

	// XP победы масштабируется силой противника; базовая (нерандомная)
	// часть нужна и проигравшему для фиксированной доли.
	baseWinXP := opp.RewardXP + opp.Power/20

	if out.Win {
		out.DamageDealt = rollRange(rng, winDamageDealtMin, winDamageDealtMax)
		out.DamageTaken = rollRange(rng, winDamageTakenMin, winDamageTakenMax)
		out.CreditsDelta = opp.RewardCredits + int64(opp.Power/10) + int64(rng.IntN(51))
		out.XPGained = baseWinXP + rng.IntN(11)
		out.Streak = 1 + rng.IntN(5)
		if rng.Float64() < lootChance {
			out.LootDropped = true
			rareChance := float64(opp.Power) * rareChancePerPow
			if rareChance > rareChanceCeiling {
				rareChance = rareChanceCeiling
			}
			if rng.Float64() < rareChance {
				out.LootRarity = models.RarityRare
			} else {
				out.LootRarity = models.RarityCommon
			}
		}
		return out, nil
	}

	out.DamageDealt = rollRange(rng, lossDamageDealtMin, lossDamageDealtMax)
	out.DamageTaken = rollRange(rng, lossDamageTakenMin, lossDamageTakenMax)
	out.XPGained = int(math.Floor(float64(baseWinXP) * lossXPFraction))
	out.VitalityLoss = out.DamageTaken
	return out, nil
}

// Имена генерируемых противников.
var opponentNames = []string{
	"Rustjaw Raider", "Dune Stalker", "Scrap Baron's Enforcer",
	"Ashlands Marauder", "Flare Gang Lookout", "Salvage Pit Brawler",
	"Convoy Hijacker", "Ridgeline Sniper",
}

// GenerateOpponent создает эфемерного противника в полосе силы вокруг
// уровня аккаунта (+/- 20% от базовой силы уровня).
func GenerateOpponent(level int, rng Rand) *models.Opponent {
	base := level * PowerPerLevel
	spread := base / 5
	power := base - spread + rng.IntN(2*spread+1)
	if power < PowerPerLevel {
		power = PowerPerLevel
	}
	return &models.Opponent{
		ID:            uuid.New(),
		Name:          opponentNames[rng.IntN(len(opponentNames))],
		Power:         power,
		AdrenalCost:   5 + level/5,
		RewardCredits: int64(power / 5),
		RewardXP:      5 + level/2,
	}
}
