package game

import (
	mrand "math/rand/v2"
)

// Rand - инжектируемый источник случайности для резолверов.
// Абстракция нужна, чтобы исходы были воспроизводимы в тестах:
// продакшен использует PCG из math/rand/v2, тесты - скриптованные
// последовательности.
type Rand interface {
	// Float64 возвращает значение в [0, 1).
	Float64() float64
	// IntN возвращает целое в [0, n). Паникует при n <= 0.
	IntN(n int) int
}

type pcgRand struct {
	r *mrand.Rand
}

// NewRand создает seedable источник случайности на базе PCG.
func NewRand(seed1, seed2 uint64) Rand {
	return &pcgRand{r: mrand.New(mrand.NewPCG(seed1, seed2))}
}

func (p *pcgRand) Float64() float64 { return p.r.Float64() }
func (p *pcgRand) IntN(n int) int   { return p.r.IntN(n) }
