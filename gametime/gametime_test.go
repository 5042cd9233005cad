// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"testing"
)

func TestUpdateTime(t *testing.T) {
	now := 1.0
	h := GameTime{Now: func() float64 { return now }}
	if !h.UpdateTime() {
		t.Fatalf("first UpdateTime() = false")
	}
	if h.FrameTime() != 0.1 {
		t.Errorf("FrameTime() = %v want 0.1", h.FrameTime())
	}
	now += 0.001
	if h.UpdateTime() {
		t.Errorf("UpdateTime() above host_maxfps = true")
	}
	if w := h.Wait(); w <= 0 {
		t.Errorf("Wait() = %v want > 0", w)
	}
	now += 0.02
	if !h.UpdateTime() {
		t.Fatalf("UpdateTime() = false")
	}
	if ft := h.FrameTime(); ft < 0.0209 || ft > 0.0211 {
		t.Errorf("FrameTime() = %v want 0.021", ft)
	}
	if h.OldTime() != now {
		t.Errorf("OldTime() = %v want %v", h.OldTime(), now)
	}
	h.FrameIncrease()
	if h.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d want 1", h.FrameCount())
	}
}
