// SPDX-License-Identifier: GPL-2.0-or-later

// Package codec stores 16 bit sound data in chunk chains, either as plain
// PCM or compressed.
package codec

import (
	"github.com/pkg/errors"

	"gosnd/snd/chunk"
)

type Method int

const (
	PCM Method = iota
	ADPCM
	Wavelet
	MuLaw
)

func (m Method) String() string {
	switch m {
	case PCM:
		return "pcm"
	case ADPCM:
		return "adpcm"
	case Wavelet:
		return "wavelet"
	case MuLaw:
		return "mulaw"
	}
	return "unknown"
}

// MaxChunkSamples is the largest number of samples any method stores in
// one chunk. Decode buffers must be at least this long.
const MaxChunkSamples = adpcmChunkSamples

// Encode stores samples in newly allocated chunks. On error all chunks
// allocated so far are released again.
func Encode(m Method, a *chunk.Allocator, samples []int16) ([]chunk.ID, error) {
	var (
		ids []chunk.ID
		err error
	)
	switch m {
	case PCM:
		ids, err = encodePCM(a, samples)
	case ADPCM:
		ids, err = encodeADPCM(a, samples)
	case Wavelet:
		ids, err = encodeWavelet(a, samples)
	case MuLaw:
		ids, err = encodeMuLaw(a, samples)
	default:
		return nil, errors.Errorf("unknown compression method %d", m)
	}
	if err != nil {
		a.ReleaseAll(ids)
		return nil, errors.Wrapf(err, "encode %v", m)
	}
	return ids, nil
}

// Decode expands c into out and returns the number of samples written,
// which is c.Samples.
func Decode(m Method, c *chunk.Chunk, out []int16) int {
	n := c.Samples
	if n > len(out) {
		n = len(out)
	}
	switch m {
	case PCM:
		copy(out[:n], c.Data[:n])
	case ADPCM:
		d := DecodeADPCM(c, out)
		// the last chunk of an odd length sound carries one pad nibble
		for i := d; i < n; i++ {
			out[i] = 0
		}
	case Wavelet:
		decodeWavelet(c, out[:n])
	case MuLaw:
		decodeMuLaw(c, out[:n])
	default:
		for i := range out[:n] {
			out[i] = 0
		}
	}
	return n
}

// Chain allocates chunks for samples, letting fill encode up to per
// samples into each one.
func chain(a *chunk.Allocator, samples []int16, per int, fill func(c *chunk.Chunk, s []int16)) ([]chunk.ID, error) {
	ids := make([]chunk.ID, 0, (len(samples)+per-1)/per)
	for len(samples) > 0 {
		n := min(per, len(samples))
		id, err := a.Alloc()
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
		c := a.Get(id)
		c.Samples = n
		fill(c, samples[:n])
		samples = samples[n:]
	}
	return ids, nil
}

func encodePCM(a *chunk.Allocator, samples []int16) ([]chunk.ID, error) {
	return chain(a, samples, chunk.Size, func(c *chunk.Chunk, s []int16) {
		copy(c.Data[:], s)
		c.Packed = len(s) * 2
	})
}
