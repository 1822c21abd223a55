// Package numeric holds small generic numeric helpers shared across the
// protocol and world-generation packages, which would otherwise each grow
// their own type-specific clamp.
package numeric

import "golang.org/x/exp/constraints"

// Clamp restricts v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
