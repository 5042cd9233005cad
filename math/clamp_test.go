// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	gmath "math"
	"testing"
)

func TestClampMin(t *testing.T) {
	v := Clamp(1, 0, 10)
	if v != 1 {
		t.Errorf("Clamp(1,0,10) = %v", v)
	}
}

func TestClampMan(t *testing.T) {
	v := Clamp(1, 100, 10)
	if v != 10 {
		t.Errorf("Clamp(1,100,10) = %v", v)
	}
}

func TestClampVal(t *testing.T) {
	v := Clamp(1, 5, 10)
	if v != 5 {
		t.Errorf("Clamp(1,5,10) = %v", v)
	}
}

func TestAddSat32(t *testing.T) {
	for _, tc := range []struct {
		a, b, want int32
	}{
		{1, 2, 3},
		{gmath.MaxInt32, 1, gmath.MaxInt32},
		{gmath.MaxInt32 - 5, 100, gmath.MaxInt32},
		{gmath.MinInt32, -1, gmath.MinInt32},
		{-5, 5, 0},
	} {
		if got := AddSat32(tc.a, tc.b); got != tc.want {
			t.Errorf("AddSat32(%v,%v) = %v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestClampInt16(t *testing.T) {
	for _, tc := range []struct {
		in   int32
		want int16
	}{
		{0, 0},
		{40000, 32767},
		{-40000, -32768},
		{-12, -12},
	} {
		if got := ClampInt16(tc.in); got != tc.want {
			t.Errorf("ClampInt16(%v) = %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	if !IsPowerOfTwo(16384) {
		t.Errorf("IsPowerOfTwo(16384) = false")
	}
	if IsPowerOfTwo(0) || IsPowerOfTwo(12) {
		t.Errorf("IsPowerOfTwo accepted 0 or 12")
	}
}
