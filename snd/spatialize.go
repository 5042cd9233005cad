// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"log"

	"gosnd/cvars"
	"gosnd/math"
	"gosnd/math/vec"
)

const (
	// full volume inside this radius
	soundFullVolume = 80
	soundAttenuate  = 0.0008
	// sources closer than this are heard at full volume on both sides
	collocated = 0.001
)

// Listener is the position and orientation sounds are heard from.
type Listener struct {
	Entity  int
	Origin  vec.Vec3
	Forward vec.Vec3
	Right   vec.Vec3
	Up      vec.Vec3
}

// spatialize returns the left and right volume of a source at origin.
// Without attenuation only the stereo separation applies.
func (s *SndSys) spatialize(origin vec.Vec3, master int, attenuate bool) (int, int) {
	src, dist := vec.Sub(origin, s.listener.Origin).Normalize()
	if dist < collocated {
		return master, master
	}
	if attenuate {
		dist -= soundFullVolume
		if dist < 0 {
			dist = 0
		}
		dist *= soundAttenuate
	} else {
		dist = 0
	}

	lscale, rscale := float32(1), float32(1)
	if s.dma.Channels != 1 {
		dot := vec.Dot(src, s.listener.Right) * cvars.SoundSeparation.Value()
		dot = math.Clamp(-1, dot, 1)
		rscale = 0.5 * (1 + dot)
		lscale = 0.5 * (1 - dot)
	}
	right := int(float32(master) * (1 - dist) * rscale)
	left := int(float32(master) * (1 - dist) * lscale)
	return math.Clamp(0, left, 255), math.Clamp(0, right, 255)
}

func (s *SndSys) channelOrigin(ch *channel) (vec.Vec3, bool) {
	if ch.fixedOrigin {
		return ch.origin, true
	}
	if ch.entity < 0 || ch.entity >= MaxEntities {
		return vec.Vec3{}, false
	}
	return s.entityOrigins[ch.entity], true
}

func (s *SndSys) spatializeChannel(ch *channel) {
	if ch.entity == s.listener.Entity {
		ch.leftVol, ch.rightVol = ch.masterVol, ch.masterVol
		return
	}
	origin, ok := s.channelOrigin(ch)
	if !ok {
		ch.leftVol, ch.rightVol = ch.masterVol, ch.masterVol
		return
	}
	ch.leftVol, ch.rightVol = s.spatialize(origin, ch.masterVol, true)
}

// respatialize moves the listener and recomputes all channel gains.
func (s *SndSys) respatialize(l Listener) {
	s.listener = l
	for i := range s.channels {
		ch := &s.channels[i]
		if ch.sfx == nil {
			continue
		}
		s.spatializeChannel(ch)
	}
	s.addLoopSounds()
}

func (s *SndSys) updateEntityPosition(entity int, origin vec.Vec3) {
	if entity < 0 || entity >= MaxEntities {
		log.Printf("UpdateEntityPosition: bad entitynum %d", entity)
		return
	}
	s.entityOrigins[entity] = origin
	s.loops[entity].origin = origin
}
