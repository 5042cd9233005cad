// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"encoding/binary"
	"log"

	"gosnd/conlog"
	"gosnd/cvars"
	"gosnd/math"
)

const (
	MaxRawSamples = 16384
	// one stream for music and two per client for voice
	MaxRawStreams = MaxClients*2 + 1
)

type rawStream struct {
	samples [MaxRawSamples]samplePair
	// end of all queued raw data
	end       int64
	streamEnd [MaxRawStreams]int64
}

func (r *rawStream) clear() {
	*r = rawStream{}
}

// rawFrame returns frame i of little endian PCM data. 8 bit data is
// unsigned.
func rawFrame(data []byte, i, width, channels int) (int32, int32, bool) {
	off := i * width * channels
	if off+width*channels > len(data) {
		return 0, 0, false
	}
	sample := func(o int) int32 {
		if width == 2 {
			return int32(int16(binary.LittleEndian.Uint16(data[o:])))
		}
		// unsigned for stereo too, like 8 bit wav data
		return int32(data[o]) - 128
	}
	l := sample(off)
	if channels == 1 {
		return l, l, true
	}
	return l, sample(off + width), true
}

// rawSamples queues externally produced PCM on stream. Data overlapping
// what another stream already queued is mixed in.
func (s *SndSys) rawSamples(stream, samples, rate, width, channels int, data []byte, volume float32, entity int) {
	if stream < 0 || stream >= MaxRawStreams {
		log.Printf("RawSamples: bad stream %d", stream)
		return
	}
	if rate <= 0 || (width != 1 && width != 2) || (channels != 1 && channels != 2) {
		log.Printf("RawSamples: bad format %d Hz %d bytes %d channels", rate, width, channels)
		return
	}
	r := &s.raw
	intVolume := int64(256 * volume * cvars.SoundVolume.Value())
	if width == 1 {
		intVolume *= 256
	}
	cur := r.streamEnd[stream]
	if cur < s.soundTime {
		conlog.DPrintf("raw stream %d: resetting minimum: %d < %d\n", stream, cur, s.soundTime)
		cur = s.soundTime
	}
	mergeLimit := r.end
	scale := float64(rate) / float64(s.dma.Speed)
	peak := int32(0)
	for i := 0; ; i++ {
		src := int(float64(i) * scale)
		if src >= samples {
			break
		}
		l, rt, ok := rawFrame(data, src, width, channels)
		if !ok {
			break
		}
		peak = max(peak, l, -l, rt, -rt)
		p := samplePair{
			left:  int32(int64(l) * intVolume),
			right: int32(int64(rt) * intVolume),
		}
		dst := &r.samples[cur&(MaxRawSamples-1)]
		if cur < mergeLimit {
			dst.left = math.AddSat32(dst.left, p.left)
			dst.right = math.AddSat32(dst.right, p.right)
		} else {
			*dst = p
		}
		cur++
	}
	r.streamEnd[stream] = cur
	if cur > r.end {
		r.end = cur
	}
	if cur > s.soundTime+MaxRawSamples {
		conlog.DPrintf("raw stream %d overflowed\n", stream)
	}
	if entity >= 0 && entity < MaxClients {
		if width == 1 {
			peak <<= 8
		}
		s.talk[entity] = uint8(min(peak>>7, 255))
	}
}

// readRaw starts a paint block with the queued raw data and releases the
// slots it consumed.
func (s *SndSys) readRaw(pb []samplePair, start int64) {
	r := &s.raw
	stop := min(start+int64(len(pb)), r.end)
	i := 0
	for t := start; t < stop; t++ {
		slot := &r.samples[t&(MaxRawSamples-1)]
		pb[i] = *slot
		*slot = samplePair{}
		i++
	}
	clear(pb[i:])
}
