// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"encoding/binary"
	gmath "math"

	"gosnd/cvars"
	"gosnd/math"
	"gosnd/snd/codec"
)

// PaintBufferSize is the number of frames mixed per block.
const PaintBufferSize = 4096

type samplePair struct {
	left, right int32
}

// scratch holds the last decoded chunk of a compressed sound.
type scratch struct {
	sfx   *sfx
	chunk int
	gen   int
	n     int
	buf   [codec.MaxChunkSamples]int16
}

// chunkSamples returns the samples of chunk idx of sf.
func (s *SndSys) chunkSamples(sf *sfx, idx int) []int16 {
	c := s.store.alloc.Get(sf.chunks[idx])
	if sf.method == codec.PCM {
		return c.Data[:c.Samples]
	}
	sc := &s.scratch
	if sc.sfx != sf || sc.chunk != idx || sc.gen != sf.gen {
		sc.n = codec.Decode(sf.method, c, sc.buf[:])
		sc.sfx, sc.chunk, sc.gen = sf, idx, sf.gen
	}
	return sc.buf[:sc.n]
}

// sampleAt returns the sample at pos for interpolated reads.
func (s *SndSys) sampleAt(sf *sfx, pos int) int16 {
	idx := sf.chunkAt(pos)
	if idx < 0 {
		return 0
	}
	data := s.chunkSamples(sf, idx)
	off := pos - sf.starts[idx]
	if off >= len(data) {
		return 0
	}
	return data[off]
}

// paintChannel adds count samples of sf starting at sampleOffset into the
// paint buffer at bufferOffset and returns the peak absolute sample.
func (s *SndSys) paintChannel(ch *channel, sf *sfx, count, sampleOffset, bufferOffset int) int {
	lv := int64(ch.leftVol * s.sndVol)
	rv := int64(ch.rightVol * s.sndVol)
	pb := s.paintBuf[bufferOffset : bufferOffset+count]
	idx := sf.chunkAt(sampleOffset)
	off := sampleOffset - sf.starts[idx]
	peak := 0
	for i := 0; i < count && idx < len(sf.chunks); idx, off = idx+1, 0 {
		data := s.chunkSamples(sf, idx)
		if off >= len(data) {
			continue
		}
		n := min(len(data)-off, count-i)
		for _, v := range data[off : off+n] {
			pb[i].left = math.AddSat32(pb[i].left, int32((int64(v)*lv)>>8))
			pb[i].right = math.AddSat32(pb[i].right, int32((int64(v)*rv)>>8))
			if a := abs(int(v)); a > peak {
				peak = a
			}
			i++
		}
	}
	return peak
}

// paintDoppler resamples a looping sound by its doppler scale with linear
// interpolation.
func (s *SndSys) paintDoppler(ch *channel, sf *sfx, l *loopSound, count int) {
	lv := float64(ch.leftVol*s.sndVol) / 256
	rv := float64(ch.rightVol*s.sndVol) / 256
	length := float64(sf.length)
	step := float64(ch.dopplerScale)
	phase := l.phase
	pb := s.paintBuf[:count]
	for i := range pb {
		i0 := int(phase)
		frac := phase - float64(i0)
		i1 := i0 + 1
		if i1 >= sf.length {
			i1 = 0
		}
		a := float64(s.sampleAt(sf, i0))
		b := float64(s.sampleAt(sf, i1))
		v := a + (b-a)*frac
		pb[i].left = math.AddSat32(pb[i].left, int32(v*lv))
		pb[i].right = math.AddSat32(pb[i].right, int32(v*rv))
		phase += step
		if phase >= length {
			phase -= length
		}
	}
	l.phase = phase
}

func (s *SndSys) paintChannels(start, end int64) {
	for i := range s.channels {
		ch := &s.channels[i]
		sf := ch.sfx
		if sf == nil || !sf.inMemory || ch.leftVol|ch.rightVol == 0 || ch.startSample == startImmediate {
			continue
		}
		ltime := start
		bufferOffset := 0
		if ch.startSample > ltime {
			bufferOffset = int(ch.startSample - ltime)
			ltime = ch.startSample
		}
		if ltime >= end {
			continue
		}
		sampleOffset := int(ltime - ch.startSample)
		count := int(end - ltime)
		if sampleOffset+count > sf.length {
			count = sf.length - sampleOffset
		}
		if count <= 0 {
			continue
		}
		peak := s.paintChannel(ch, sf, count, sampleOffset, bufferOffset)
		if ch.subChannel == ChanVoice && ch.entity >= 0 && ch.entity < MaxClients {
			s.talk[ch.entity] = uint8(min(peak>>7, 255))
		}
	}
}

func (s *SndSys) paintLoops(start, end int64) {
	n := int(end - start)
	for i := 0; i < s.numLoopSlots; i++ {
		ch := &s.loopSlots[i]
		sf := ch.sfx
		if sf == nil || !sf.inMemory || sf.length == 0 {
			continue
		}
		if ch.doppler {
			s.paintDoppler(ch, sf, &s.loops[ch.loop], n)
			continue
		}
		for ltime := start; ltime < end; {
			sampleOffset := int(ltime % int64(sf.length))
			count := int(end - ltime)
			if sampleOffset+count > sf.length {
				count = sf.length - sampleOffset
			}
			s.paintChannel(ch, sf, count, sampleOffset, int(ltime-start))
			ltime += int64(count)
		}
	}
}

// paint mixes everything up to endTime into the DMA buffer.
func (s *SndSys) paint(endTime int64) {
	s.sndVol = int(cvars.SoundVolume.Value() * 255)
	for s.paintedTime < endTime {
		end := min(endTime, s.paintedTime+PaintBufferSize)
		s.readRaw(s.paintBuf[:end-s.paintedTime], s.paintedTime)
		s.paintChannels(s.paintedTime, end)
		s.paintLoops(s.paintedTime, end)
		s.transfer(end)
		s.paintedTime = end
	}
}

func (s *SndSys) testSound(pb []samplePair) {
	for i := range pb {
		v := int32(gmath.Sin(float64(s.paintedTime+int64(i))*0.1) * 20000 * 256)
		pb[i] = samplePair{v, v}
	}
}

func clampPaint(v int32) int32 {
	return math.Clamp(-0x800000, v, 0x7fff00) >> 8
}

// transfer copies the paint buffer into the DMA ring.
func (s *SndSys) transfer(end int64) {
	pb := s.paintBuf[:end-s.paintedTime]
	if cvars.SoundTestSound.Bool() {
		s.testSound(pb)
	}
	d := s.dma
	if d.Buffer == nil {
		return
	}
	mask := int64(d.Samples - 1)
	out := s.paintedTime * int64(d.Channels)
	for _, p := range pb {
		frame := [2]int32{p.left, p.right}
		for _, v := range frame[:d.Channels] {
			o := out & mask
			val := clampPaint(v)
			if d.SampleBits == 16 {
				binary.LittleEndian.PutUint16(d.Buffer[o*2:], uint16(int16(val)))
			} else {
				d.Buffer[o] = byte((val >> 8) + 128)
			}
			out++
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
