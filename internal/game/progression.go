package game

// LevelCap - жесткий потолок прогрессии. Опыт сверх потолка отбрасывается,
// не копится.
const LevelCap = 100

// Параметры кусочно-линейной кривой опыта: базовая стоимость на первом
// уровне и растущие инкременты по ярусам. Кривая ускоряется, но остается
// кусочно-линейной, не экспоненциальной.
const (
	xpBaseCost = 100

	xpLowTierCeiling = 9  // уровни 1..9
	xpLowTierStep    = 50 // инкремент за уровень в нижнем ярусе

	xpMidTierCeiling = 24  // уровни 10..24
	xpMidTierStep    = 100 // инкремент в среднем ярусе

	xpHighTierStep = 250 // инкремент за пределами среднего яруса
)

// XPToAdvance возвращает стоимость перехода С уровня level на следующий.
// Для уровней за потолком возвращает 0.
func XPToAdvance(level int) int {
	switch {
	case level < 1:
		return xpBaseCost
	case level >= LevelCap:
		return 0
	case level <= xpLowTierCeiling:
		return xpBaseCost + (level-1)*xpLowTierStep
	case level <= xpMidTierCeiling:
		lowTop := xpBaseCost + (xpLowTierCeiling-1)*xpLowTierStep
		return lowTop + (level-xpLowTierCeiling)*xpMidTierStep
	default:
		lowTop := xpBaseCost + (xpLowTierCeiling-1)*xpLowTierStep
		midTop := lowTop + (xpMidTierCeiling-xpLowTierCeiling)*xpMidTierStep
		return midTop + (level-xpMidTierCeiling)*xpHighTierStep
	}
}

// LevelUp итеративно разрешает начисление опыта в (возможно многошаговый)
// level-up. Возвращает новый уровень, остаток опыта внутри уровня,
// стоимость следующего перехода и флаг "был ли взят хотя бы один уровень".
func LevelUp(level, xpCurrent, xpGained int) (newLevel, newXP, newXPToNext int, leveledUp bool) {
	if level < 1 {
		level = 1
	}
	total := xpCurrent + xpGained
	for level < LevelCap {
		cost := XPToAdvance(level)
		if total < cost {
			break
		}
		total -= cost
		level++
		leveledUp = true
	}
	if level >= LevelCap {
		// Потолок: излишек отбрасывается
		return LevelCap, 0, 0, leveledUp
	}
	return level, total, XPToAdvance(level), leveledUp
}

// rankThreshold - порог таблицы званий. Пороги монотонны и не пересекаются.
type rankThreshold struct {
	minLevel int
	title    string
}

var rankTable = []rankThreshold{
	{1, "Drifter"},
	{5, "Scavenger"},
	{10, "Runner"},
	{15, "Smuggler"},
	{20, "Enforcer"},
	{30, "Captain"},
	{40, "Warlord"},
	{50, "Baron"},
	{75, "Overlord"},
	{100, "Legend"},
}

// RankForLevel - чистый lookup звания по уровню. Звание не хранится как
// источник истины: любое персистентное значение перевычисляется отсюда
// на каждом пути мутации.
func RankForLevel(level int) string {
	title := rankTable[0].title
	for _, r := range rankTable {
		if level >= r.minLevel {
			title = r.title
		}
	}
	return title
}
