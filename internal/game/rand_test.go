package game_test

// scriptedRand - детерминированный источник случайности для тестов:
// отдает заранее заданные последовательности значений.
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedRand) Float64() float64 {
	if s.fi >= len(s.floats) {
		return 0.999999
	}
	v := s.floats[s.fi]
	s.fi++
	return v
}

func (s *scriptedRand) IntN(n int) int {
	if s.ii >= len(s.ints) {
		return 0
	}
	v := s.ints[s.ii]
	s.ii++
	if v >= n {
		v = n - 1
	}
	return v
}
