// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"log"

	"gosnd/cvars"
	"gosnd/math"
	"gosnd/math/vec"
)

const (
	// world units per second
	dopplerSpeed = 13500
	minDoppler   = 0.5
	maxDoppler   = 2
	// real loops are not attenuated and play a little quieter
	realLoopVolume = 90
)

type loopSound struct {
	origin   vec.Vec3
	velocity vec.Vec3
	sfx      *sfx
	active   bool
	// regular loops are swept when not registered again in a frame
	kill bool
	// registration frame
	frame      int
	merges     int
	mergeFrame int

	doppler         bool
	dopplerScale    float32
	oldDopplerScale float32
	// read position of a doppler shifted loop
	phase float64
}

func (s *SndSys) addLoop(entity int, origin, velocity vec.Vec3, h Handle, kill bool) {
	if entity < 0 || entity >= MaxEntities {
		log.Printf("AddLoopingSound: bad entitynum %d", entity)
		return
	}
	sf := s.store.resolve(h)
	if sf == nil {
		return
	}
	if sf.length == 0 {
		log.Printf("%s has length 0", sf.name)
		return
	}

	l := &s.loops[entity]
	// blend from the scale of the previous frame, also on repeated
	// registrations within one frame
	old := float32(1)
	switch {
	case l.active && l.frame == s.frame:
		old = l.oldDopplerScale
		l.merges++
	case l.active && l.frame+1 == s.frame:
		old = l.dopplerScale
		l.merges = 0
	default:
		l.merges = 0
	}
	if l.sfx != sf {
		if l.sfx != nil {
			l.sfx.refs--
		}
		sf.refs++
		l.sfx = sf
		l.phase = 0
	}
	l.origin = origin
	l.velocity = velocity
	l.active = true
	l.kill = kill
	l.frame = s.frame

	l.oldDopplerScale = old
	l.doppler = false
	l.dopplerScale = 1
	if !cvars.SoundDoppler.Bool() || velocity.LengthSquared() == 0 {
		return
	}
	dir, dist := vec.Sub(s.listener.Origin, origin).Normalize()
	if dist < collocated {
		return
	}
	// positive when the source moves toward the listener
	radial := vec.Dot(velocity, dir)
	target := float32(maxDoppler)
	if radial < dopplerSpeed {
		target = dopplerSpeed / (dopplerSpeed - radial)
	}
	target = math.Clamp(minDoppler, target, maxDoppler)
	scale := old + (target-old)*0.5
	if scale > 1.001 || scale < 0.999 {
		l.doppler = true
		l.dopplerScale = scale
	}
}

func (s *SndSys) stopLoop(entity int) {
	if entity < 0 || entity >= MaxEntities {
		return
	}
	l := &s.loops[entity]
	if l.sfx != nil {
		l.sfx.refs--
	}
	*l = loopSound{}
}

func (s *SndSys) clearLoops(killAll bool) {
	if killAll {
		for i := range s.loops {
			if s.loops[i].active {
				s.stopLoop(i)
			}
		}
	}
	s.frame++
}

// sweepLoops stops regular loops that were not registered in the current
// frame.
func (s *SndSys) sweepLoops() {
	for i := range s.loops {
		l := &s.loops[i]
		if l.active && l.kill && l.frame != s.frame {
			s.stopLoop(i)
		}
	}
}

func (s *SndSys) spatializeLoop(entity int, l *loopSound) (int, int) {
	if entity == s.listener.Entity {
		if l.kill {
			return masterVolume, masterVolume
		}
		return realLoopVolume, realLoopVolume
	}
	if l.kill {
		return s.spatialize(l.origin, masterVolume, true)
	}
	return s.spatialize(l.origin, realLoopVolume, false)
}

// addLoopSounds builds the loop slots painted by the mixer. Loops of the
// same sound without doppler share one slot with summed volume.
func (s *SndSys) addLoopSounds() {
	s.sweepLoops()
	s.numLoopSlots = 0
	s.loopFrame++
	now := s.now()
	for i := range s.loops {
		l := &s.loops[i]
		if !l.active || l.mergeFrame == s.loopFrame {
			continue
		}
		left, right := s.spatializeLoop(i, l)
		l.sfx.lastTimeUsed = now
		if !l.doppler {
			for j := i + 1; j < len(s.loops); j++ {
				o := &s.loops[j]
				if !o.active || o.doppler || o.sfx != l.sfx {
					continue
				}
				o.mergeFrame = s.loopFrame
				ol, or := s.spatializeLoop(j, o)
				left += ol
				right += or
			}
		}
		if left == 0 && right == 0 {
			continue
		}
		ch := &s.loopSlots[s.numLoopSlots]
		*ch = channel{
			entity:          i,
			masterVol:       masterVolume,
			leftVol:         math.Clamp(0, left, 255),
			rightVol:        math.Clamp(0, right, 255),
			sfx:             l.sfx,
			doppler:         l.doppler,
			dopplerScale:    l.dopplerScale,
			oldDopplerScale: l.oldDopplerScale,
			loop:            i,
		}
		s.numLoopSlots++
		if s.numLoopSlots == MaxChannels {
			return
		}
	}
}

func (s *SndSys) activeLoops() int {
	n := 0
	for i := range s.loops {
		if s.loops[i].active {
			n++
		}
	}
	return n
}
