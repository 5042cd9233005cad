// SPDX-License-Identifier: GPL-2.0-or-later

package codec

import (
	"gosnd/snd/chunk"
)

// two samples per byte
const adpcmChunkSamples = chunk.SizeBytes * 2

var adpcmIndexTable = [16]int{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

var adpcmStepTable = [89]int{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > 88 {
		return 88
	}
	return i
}

func clampSample(v int) int {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// adpcmEncode packs in into out, high nibble first, and advances state.
// It returns the number of bytes written.
func adpcmEncode(in []int16, out []byte, state *chunk.ADPCMState) int {
	valpred := int(state.Sample)
	index := int(state.Index)
	step := adpcmStepTable[index]
	n := 0
	var outputbuffer byte
	high := true

	for _, s := range in {
		diff := int(s) - valpred
		sign := 0
		if diff < 0 {
			sign = 8
			diff = -diff
		}

		delta := 0
		vpdiff := step >> 3
		if diff >= step {
			delta = 4
			diff -= step
			vpdiff += step
		}
		step >>= 1
		if diff >= step {
			delta |= 2
			diff -= step
			vpdiff += step
		}
		step >>= 1
		if diff >= step {
			delta |= 1
			vpdiff += step
		}

		if sign != 0 {
			valpred -= vpdiff
		} else {
			valpred += vpdiff
		}
		valpred = clampSample(valpred)

		delta |= sign
		index = clampIndex(index + adpcmIndexTable[delta])
		step = adpcmStepTable[index]

		if high {
			outputbuffer = byte(delta<<4) & 0xf0
		} else {
			out[n] = byte(delta&0x0f) | outputbuffer
			n++
		}
		high = !high
	}
	if !high {
		out[n] = outputbuffer
		n++
	}

	state.Sample = int16(valpred)
	state.Index = int8(index)
	return n
}

// DecodeADPCM decodes c starting from the state stored in the chunk and
// returns 2*c.Packed, the number of samples written to out.
func DecodeADPCM(c *chunk.Chunk, out []int16) int {
	in := c.Raw()[:c.Packed]
	valpred := int(c.ADPCM.Sample)
	index := clampIndex(int(c.ADPCM.Index))
	step := adpcmStepTable[index]
	n := 0
	for _, b := range in {
		for _, delta := range [2]int{int(b>>4) & 0xf, int(b) & 0xf} {
			if n >= len(out) {
				return n
			}
			index = clampIndex(index + adpcmIndexTable[delta])
			sign := delta & 8
			delta &= 7

			vpdiff := step >> 3
			if delta&4 != 0 {
				vpdiff += step
			}
			if delta&2 != 0 {
				vpdiff += step >> 1
			}
			if delta&1 != 0 {
				vpdiff += step >> 2
			}
			if sign != 0 {
				valpred -= vpdiff
			} else {
				valpred += vpdiff
			}
			valpred = clampSample(valpred)
			step = adpcmStepTable[index]
			out[n] = int16(valpred)
			n++
		}
	}
	return n
}

// ADPCMChunks is the number of chunks needed for n samples.
func ADPCMChunks(n int) int {
	return (n + adpcmChunkSamples - 1) / adpcmChunkSamples
}

func encodeADPCM(a *chunk.Allocator, samples []int16) ([]chunk.ID, error) {
	var state chunk.ADPCMState
	if len(samples) > 0 {
		state.Sample = samples[0]
	}
	return chain(a, samples, adpcmChunkSamples, func(c *chunk.Chunk, s []int16) {
		c.ADPCM = state
		c.Packed = adpcmEncode(s, c.Raw(), &state)
	})
}
