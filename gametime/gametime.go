// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"time"

	"gosnd/cvars"
	"gosnd/math"
)

var (
	startTime = time.Now()
)

func seconds() float64 {
	return time.Since(startTime).Seconds()
}

type GameTime struct {
	time       float64
	oldTime    float64
	frameTime  float64
	frameCount int
	// seconds since start, the wall clock if nil
	Now func() float64
}

func (h *GameTime) Reset() {
	h.frameTime = 0.1
}

func (h *GameTime) Time() float64      { return h.time }
func (h *GameTime) OldTime() float64   { return h.oldTime }
func (h *GameTime) FrameTime() float64 { return h.frameTime }
func (h *GameTime) FrameCount() int    { return h.frameCount }
func (h *GameTime) FrameIncrease()     { h.frameCount++ }

// UpdateTime updates the host time.
// Returns false if it would exceed max fps
func (h *GameTime) UpdateTime() bool {
	now := h.Now
	if now == nil {
		now = seconds
	}
	h.time = now()
	maxFPS := math.Clamp(10.0, float64(cvars.HostMaxFps.Value()), 1000.0)
	if h.time-h.oldTime < 1/maxFPS {
		return false
	}
	h.frameTime = math.Clamp(0.001, h.time-h.oldTime, 0.1)
	h.oldTime = h.time
	return true
}

// Wait is the time until the next frame may start.
func (h *GameTime) Wait() time.Duration {
	maxFPS := math.Clamp(10.0, float64(cvars.HostMaxFps.Value()), 1000.0)
	now := h.Now
	if now == nil {
		now = seconds
	}
	w := h.oldTime + 1/maxFPS - now()
	if w < 0 {
		return 0
	}
	return time.Duration(w * float64(time.Second))
}
