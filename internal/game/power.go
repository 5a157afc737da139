package game

import "outland-server/internal/models"

// PowerPerLevel - вклад уровня в базовую боевую силу.
const PowerPerLevel = 50

// PowerBreakdown - разложение боевой силы по источникам. Возвращается
// целиком, а не только скаляр - для прозрачности в UI и тестируемости.
type PowerBreakdown struct {
	Base             int `json:"base"`
	CompanionAttack  int `json:"companion_attack"`
	CompanionDefense int `json:"companion_defense"`
	GearAttack       int `json:"gear_attack"`
	GearDefense      int `json:"gear_defense"`
	Total            int `json:"total"`
}

// Power агрегирует базовую силу уровня со вспомогательными источниками.
func Power(level, companionAttack, companionDefense, gearAttack, gearDefense int) PowerBreakdown {
	b := PowerBreakdown{
		Base:             level * PowerPerLevel,
		CompanionAttack:  companionAttack,
		CompanionDefense: companionDefense,
		GearAttack:       gearAttack,
		GearDefense:      gearDefense,
	}
	b.Total = b.Base + b.CompanionAttack + b.CompanionDefense + b.GearAttack + b.GearDefense
	return b
}

// PowerFromHoldings собирает разбивку силы из предметов аккаунта.
// Компаньоны дают вклад самим фактом владения, оружие и броня - только
// будучи экипированными, расходники не участвуют никогда.
func PowerFromHoldings(level int, holdings []*models.AccountItem) PowerBreakdown {
	var compAtk, compDef, gearAtk, gearDef int
	for _, h := range holdings {
		if h.Item == nil {
			continue
		}
		switch h.Item.Category {
		case models.CategoryCompanion:
			compAtk += h.Item.Attack
			compDef += h.Item.Defense
		case models.CategoryWeapon, models.CategoryArmor:
			if h.Equipped {
				gearAtk += h.Item.Attack
				gearDef += h.Item.Defense
			}
		}
	}
	return Power(level, compAtk, compDef, gearAtk, gearDef)
}
