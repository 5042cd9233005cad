// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"testing"

	"github.com/chewxy/math32"
)

var (
	NULL = Vec3{}
)

func TestLength(t *testing.T) {
	if NULL.Length() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	for _, v := range []Vec3{{2, 2, 1}, {2, 1, 2}, {1, 2, 2}} {
		if v.Length() != 3 {
			t.Errorf("%v Length is not 3", v)
		}
		if v.LengthSquared() != 9 {
			t.Errorf("%v LengthSquared is not 9", v)
		}
	}
}

func TestAddSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := Add(v, NULL); got != v {
		t.Errorf("Adding a null vector changed the vector")
	}
	if got, want := Add(v, v), (Vec3{2, 4, 6}); got != want {
		t.Errorf("Add(%v,%v) = %v want %v", v, v, got, want)
	}
	v2 := Vec3{9, 7, 5}
	if got, want := Sub(v2, v), (Vec3{8, 5, 2}); got != want {
		t.Errorf("Sub(%v,%v) = %v want %v", v2, v, got, want)
	}
}

func TestNormalize(t *testing.T) {
	n, l := NULL.Normalize()
	if n != NULL || l != 0 {
		t.Errorf("Normalize(NULL) = %v, %v", n, l)
	}
	n, l = Vec3{0, 3, 4}.Normalize()
	if l != 5 {
		t.Errorf("Normalize length = %v want 5", l)
	}
	if math32.Abs(n.Length()-1) > 1e-6 {
		t.Errorf("Normalize(%v) has length %v", n, n.Length())
	}
}

func TestDistanceSquared(t *testing.T) {
	if got := DistanceSquared(Vec3{1, 1, 1}, Vec3{1, 4, 5}); got != 25 {
		t.Errorf("DistanceSquared = %v want 25", got)
	}
}

func TestAngleVectors(t *testing.T) {
	f, r, u := AngleVectors(Vec3{0, 0, 0})
	near := func(a, b Vec3) bool {
		return DistanceSquared(a, b) < 1e-10
	}
	if !near(f, Vec3{1, 0, 0}) {
		t.Errorf("forward = %v", f)
	}
	if !near(r, Vec3{0, -1, 0}) {
		t.Errorf("right = %v", r)
	}
	if !near(u, Vec3{0, 0, 1}) {
		t.Errorf("up = %v", u)
	}
	if d := Dot(Cross(f, u), r); math32.Abs(d-1) > 1e-6 {
		t.Errorf("axes are not right handed: %v", d)
	}
}
