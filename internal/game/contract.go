package game

import (
	"math"
	"strings"

	"outland-server/internal/models"
)

// Константы модели вероятности успеха контракта.
const (
	// Каждые chargeStep юнитов стоимости сверх минимума яруса снимают 2%.
	energyStepPenaltyPct = 2.0
	// Пол базовой ставки яруса после энерго-модификатора.
	minTierRatePct = 30.0
	// Бонус за каждый уровень сверх требования миссии и его потолок.
	levelBonusPerLevelPct = 5.0
	levelBonusCapPct      = 20.0
	// Итоговая вероятность никогда не опускается ниже этого пола.
	minSuccessRatePct = 5.0
)

// tierParams - параметры яруса сложности: базовая ставка, минимальная
// стоимость заряда в ярусе, шаг энерго-штрафа и штрафы за провал.
type tierParams struct {
	baseRatePct float64
	minCharge   int
	chargeStep  int
	// Провал: процент недополученной награды, теряемый кредитами,
	// доля XP-награды, и диапазон потери живучести (0/0 = нет).
	failCreditsPct  float64
	failXPFrac      float64
	vitalityLossMin int
	vitalityLossMax int
}

var tierTable = map[models.MissionTier]tierParams{
	models.TierEasy:  {baseRatePct: 95, minCharge: 10, chargeStep: 5},
	models.TierRisky: {baseRatePct: 75, minCharge: 10, chargeStep: 4, failCreditsPct: 10, failXPFrac: 0.25},
	models.TierElite: {baseRatePct: 55, minCharge: 20, chargeStep: 3, failCreditsPct: 20, failXPFrac: 0.25, vitalityLossMin: 5, vitalityLossMax: 15},
	models.TierEvent: {baseRatePct: 40, minCharge: 25, chargeStep: 2, failCreditsPct: 25, failXPFrac: 0.25, vitalityLossMin: 10, vitalityLossMax: 25},
}

// ContractInput - снимок состояния, необходимый чистому резолверу контракта.
type ContractInput struct {
	Level      int
	Charge     int
	Credits    int64
	Mission    *models.Mission
	Facilities []*models.Facility
}

// ContractOutcome - результат разрешения контракта: исход и дельты,
// которые коммитит сервисный слой.
type ContractOutcome struct {
	Success     bool    `json:"success"`
	SuccessRate float64 `json:"success_rate"` // итоговая вероятность, %

	ChargeSpent  int   `json:"charge_spent"`
	CreditsDelta int64 `json:"credits_delta"`
	// BonusCredits - часть награды, пришедшая от бонусов фасилити
	// (отчетность; уже включена в CreditsDelta).
	BonusCredits int64 `json:"bonus_credits"`
	XPGained     int   `json:"xp_gained"`
	VitalityLoss int   `json:"vitality_loss"`
	LootDropped  bool  `json:"loot_dropped"`
}

// ContractSuccessRate вычисляет итоговую вероятность успеха (%) для
// комбинации ярус/стоимость/уровни. Вынесена отдельно, чтобы свойства
// границ проверялись без розыгрыша.
func ContractSuccessRate(tier models.MissionTier, chargeCost, accountLevel, minLevel int) float64 {
	p, ok := tierTable[tier]
	if !ok {
		p = tierTable[models.TierEasy]
	}

	base := p.baseRatePct
	if chargeCost > p.minCharge && p.chargeStep > 0 {
		steps := (chargeCost - p.minCharge) / p.chargeStep
		base -= float64(steps) * energyStepPenaltyPct
	}
	if base < minTierRatePct {
		base = minTierRatePct
	}

	// Уровни сверх требования дают бонус; на уровне требования модификатор
	// нулевой (ниже требования - уже отклонено предусловием).
	levelBonus := 0.0
	if accountLevel > minLevel {
		levelBonus = float64(accountLevel-minLevel) * levelBonusPerLevelPct
		if levelBonus > levelBonusCapPct {
			levelBonus = levelBonusCapPct
		}
	}

	rate := base + levelBonus
	if rate < minSuccessRatePct {
		rate = minSuccessRatePct
	}
	if rate > 100 {
		rate = 100
	}
	return rate
}

// isSmugglingMission определяет, относится ли миссия к контрабандным
// (по типу либо ключевым словам в названии/описании).
func isSmugglingMission(m *models.Mission) bool {
	if m.Type == models.MissionTypeSmuggling {
		return true
	}
	text := strings.ToLower(m.Name + " " + m.Description)
	return strings.Contains(text, "smuggl") || strings.Contains(text, "contraband")
}

// contractBonusPct суммирует процентные бонусы фасилити, применимые к миссии.
func contractBonusPct(m *models.Mission, facilities []*models.Facility) float64 {
	smuggling := isSmugglingMission(m)
	var pct float64
	for _, f := range facilities {
		switch f.Effect {
		case models.EffectContractBonus:
			pct += f.BonusPct()
		case models.EffectSmugglingBonus:
			if smuggling {
				pct += f.BonusPct()
			}
		}
	}
	return pct
}

// ResolveContract разрешает выполнение контракта. Предусловия проверяются
// до любой мутации; функция чистая - все дельты возвращаются наружу и
// коммитятся сервисным слоем одной транзакцией.
func ResolveContract(in ContractInput, rng Rand) (*ContractOutcome, error) {
	m := in.Mission

	if in.Level < m.MinLevel {
		return nil, &PreconditionError{Reason: ReasonLevelTooLow, Required: m.MinLevel, Available: in.Level}
	}
	if in.Charge < m.ChargeCost {
		return nil, &PreconditionError{Reason: ReasonInsufficientCharge, Required: m.ChargeCost, Available: in.Charge}
	}

	bonusPct := contractBonusPct(m, in.Facilities)
	reward := int64(math.Floor(float64(m.RewardCredits) * (1 + bonusPct/100)))
	bonusCredits := reward - m.RewardCredits

	rate := ContractSuccessRate(m.Tier, m.ChargeCost, in.Level, m.MinLevel)

	out := &ContractOutcome{
		SuccessRate: rate,
		ChargeSpent: m.ChargeCost,
	}

	out.Success = rng.Float64()*100 < rate

	if out.Success {
		out.CreditsDelta = reward
		out.BonusCredits = bonusCredits
		out.XPGained = m.RewardXP
		if m.LootItemID != nil && m.LootChance > 0 {
			out.LootDropped = rng.Float64() < m.LootChance
		}
		return out, nil
	}

	p := tierTable[m.Tier]
	if p.failCreditsPct > 0 {
		loss := int64(math.Floor(float64(reward) * p.failCreditsPct / 100))
		// Потеря не может увести баланс в минус - структурная гарантия,
		// а не проверка на коммите.
		if loss > in.Credits {
			loss = in.Credits
		}
		out.CreditsDelta = -loss
	}
	if p.failXPFrac > 0 {
		out.XPGained = int(math.Floor(float64(m.RewardXP) * p.failXPFrac))
	}
	if p.vitalityLossMax > 0 {
		out.VitalityLoss = p.vitalityLossMin + rng.IntN(p.vitalityLossMax-p.vitalityLossMin+1)
	}
	return out, nil
}
