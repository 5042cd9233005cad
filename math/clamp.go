// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	gmath "math"
)

type Number interface {
	int | int32 | int64 | float32 | float64
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// AddSat32 adds two int32 values and saturates instead of wrapping.
func AddSat32(a, b int32) int32 {
	s := int64(a) + int64(b)
	if s > gmath.MaxInt32 {
		return gmath.MaxInt32
	}
	if s < gmath.MinInt32 {
		return gmath.MinInt32
	}
	return int32(s)
}

// ClampInt16 narrows v to the int16 range.
func ClampInt16(v int32) int16 {
	if v > gmath.MaxInt16 {
		return gmath.MaxInt16
	}
	if v < gmath.MinInt16 {
		return gmath.MinInt16
	}
	return int16(v)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
