// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"log"
	"math"

	"gosnd/conlog"
	"gosnd/cvars"
	"gosnd/math/vec"
)

const (
	MaxChannels = 96
	MaxEntities = 1 << 10
	MaxClients  = 64

	startImmediate int64 = math.MaxInt64
	masterVolume         = 127
	// a second start of the same sound on one entity within this window is dropped
	duplicateMs = 50
)

// Sub channels of an entity. Starting a sound on a used sub channel other
// than ChanAuto replaces the playing sound.
const (
	ChanAuto = iota
	ChanLocal
	ChanWeapon
	ChanVoice
	ChanItem
	ChanBody
	ChanLocalSound
	ChanAnnouncer
)

type channel struct {
	allocTime int64
	// startImmediate until the next mix scan
	startSample int64
	entity      int
	subChannel  int
	// 0-255 after spatialization
	leftVol   int
	rightVol  int
	masterVol int

	dopplerScale    float32
	oldDopplerScale float32
	doppler         bool

	origin      vec.Vec3
	fixedOrigin bool
	sfx         *sfx
	// entity of the loop driving a loop slot
	loop int
}

func (ch *channel) remaining(paintedTime int64) int64 {
	if ch.startSample == startImmediate {
		return int64(ch.sfx.length)
	}
	return ch.startSample + int64(ch.sfx.length) - paintedTime
}

func (ch *channel) volume() int {
	return max(ch.leftVol, ch.rightVol)
}

// attach moves the channel to a new sound and keeps the eviction guard of
// both sounds up to date.
func (s *SndSys) attach(ch *channel, sf *sfx) {
	if ch.sfx != nil {
		ch.sfx.refs--
	}
	ch.sfx = sf
	if sf != nil {
		sf.refs++
	}
}

func (s *SndSys) freeChannel(ch *channel) {
	if ch.sfx == nil {
		return
	}
	if ch.subChannel == ChanVoice && ch.entity >= 0 && ch.entity < MaxClients {
		s.talk[ch.entity] = 0
	}
	s.attach(ch, nil)
}

// evictable reports whether ch may be taken for a request of entity.
func (s *SndSys) evictable(ch *channel, entity int) bool {
	if entity == s.listener.Entity {
		return true
	}
	return ch.entity != s.listener.Entity && ch.subChannel != ChanAnnouncer
}

// moreEvictable orders eviction candidates: channels of the requesting
// entity first, then the quietest, then the closest to its end, then the
// oldest.
func (s *SndSys) moreEvictable(a, b *channel, entity int) bool {
	if sa, sb := a.entity == entity, b.entity == entity; sa != sb {
		return sa
	}
	if va, vb := a.volume(), b.volume(); va != vb {
		return va < vb
	}
	if ra, rb := a.remaining(s.paintedTime), b.remaining(s.paintedTime); ra != rb {
		return ra < rb
	}
	return a.allocTime < b.allocTime
}

// pickChannel returns the channel a new sound of entity on subChannel
// replaces. At most one playing channel is stopped.
func (s *SndSys) pickChannel(entity, subChannel int) *channel {
	if subChannel != ChanAuto {
		for i := range s.channels {
			ch := &s.channels[i]
			if ch.sfx != nil && ch.entity == entity && ch.subChannel == subChannel {
				s.freeChannel(ch)
				return ch
			}
		}
	}
	for i := range s.channels {
		if s.channels[i].sfx == nil {
			return &s.channels[i]
		}
	}
	var chosen *channel
	for i := range s.channels {
		ch := &s.channels[i]
		if !s.evictable(ch, entity) {
			continue
		}
		if chosen == nil || s.moreEvictable(ch, chosen, entity) {
			chosen = ch
		}
	}
	if chosen != nil {
		s.freeChannel(chosen)
	}
	return chosen
}

func (s *SndSys) startSound(origin *vec.Vec3, entity, subChannel int, h Handle, start int64, master int) {
	if origin == nil && (entity < 0 || entity >= MaxEntities) {
		log.Printf("StartSound: bad entitynum %d", entity)
		return
	}
	sf := s.store.resolve(h)
	if sf == nil {
		return
	}
	if cvars.SoundShow.Int() == 1 {
		conlog.Printf("%d : %s\n", s.paintedTime, sf.name)
	}

	now := s.now()
	allowed := 4
	if entity == s.listener.Entity {
		allowed = 8
	}
	inplay := 0
	for i := range s.channels {
		ch := &s.channels[i]
		if ch.sfx == sf && ch.entity == entity {
			if now-ch.allocTime < duplicateMs {
				return
			}
			inplay++
		}
	}
	if inplay > allowed {
		return
	}

	sf.lastTimeUsed = now
	ch := s.pickChannel(entity, subChannel)
	if ch == nil {
		if cvars.SoundShow.Bool() {
			conlog.Printf("dropping sound %s\n", sf.name)
		}
		return
	}

	s.attach(ch, sf)
	ch.allocTime = now
	ch.startSample = start
	ch.entity = entity
	ch.subChannel = subChannel
	ch.masterVol = master
	ch.leftVol = master
	ch.rightVol = master
	ch.doppler = false
	ch.dopplerScale = 1
	ch.oldDopplerScale = 1
	if origin != nil {
		ch.origin = *origin
		ch.fixedOrigin = true
	} else {
		ch.fixedOrigin = false
	}
	s.spatializeChannel(ch)
}

// scanChannelStarts turns immediate starts into the current paint time and
// frees channels that finished playing.
func (s *SndSys) scanChannelStarts() {
	for i := range s.channels {
		ch := &s.channels[i]
		if ch.sfx == nil {
			continue
		}
		if ch.startSample == startImmediate {
			ch.startSample = s.paintedTime
			continue
		}
		if ch.startSample+int64(ch.sfx.length) <= s.paintedTime {
			s.freeChannel(ch)
		}
	}
}

func (s *SndSys) stopSound(entity, subChannel int) {
	for i := range s.channels {
		ch := &s.channels[i]
		if ch.sfx != nil && ch.entity == entity && ch.subChannel == subChannel {
			s.freeChannel(ch)
		}
	}
}

// clearChannels hard stops every channel.
func (s *SndSys) clearChannels() {
	for i := range s.channels {
		s.freeChannel(&s.channels[i])
		s.channels[i] = channel{}
	}
}

func (s *SndSys) activeChannels() int {
	n := 0
	for i := range s.channels {
		if s.channels[i].sfx != nil {
			n++
		}
	}
	return n
}
