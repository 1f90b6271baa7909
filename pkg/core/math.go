package core

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. When lo > hi the result is lo.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
