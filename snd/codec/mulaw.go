// SPDX-License-Identifier: GPL-2.0-or-later

package codec

import (
	"gosnd/snd/chunk"
)

const mulawChunkSamples = chunk.SizeBytes

var numBits = [256]byte{
	1, 1, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
}

// MuLawToShort maps a mu-law code to its 16 bit value.
var MuLawToShort [256]int16

func init() {
	for i := range MuLawToShort {
		MuLawToShort[i] = MuLawDecode(byte(i))
	}
}

// MuLawZero is the code of a zero sample.
const MuLawZero = 127

func MuLawEncode(s int16) byte {
	sign := byte(0x80)
	v := int(s)
	if v < 0 {
		sign = 0
		v = -v
	}
	adjusted := v + 128 + 4
	if adjusted > 32767 {
		adjusted = 32767
	}
	exponent := numBits[(adjusted>>7)&0xff] - 1
	mantissa := byte(adjusted>>(exponent+3)) & 0xf
	return ^(sign | exponent<<4 | mantissa)
}

func MuLawDecode(u byte) int16 {
	u = ^u
	exponent := int(u>>4) & 0x7
	mantissa := int(u&0xf) + 16
	adjusted := (mantissa << (exponent + 3)) - 128 - 4
	if u&0x80 != 0 {
		return int16(adjusted)
	}
	return int16(-adjusted)
}

// encodeMuLaw quantizes with error feedback: the rounding error of one
// sample is added to the next.
func encodeMuLaw(a *chunk.Allocator, samples []int16) ([]chunk.ID, error) {
	grade := 0
	return chain(a, samples, mulawChunkSamples, func(c *chunk.Chunk, s []int16) {
		out := c.Raw()
		for i, v := range s {
			p := clampSample(int(v) + grade)
			out[i] = MuLawEncode(int16(p))
			grade = p - int(MuLawToShort[out[i]])
		}
		c.Packed = len(s)
	})
}

func decodeMuLaw(c *chunk.Chunk, out []int16) {
	in := c.Raw()
	for i := range out {
		out[i] = MuLawToShort[in[i]]
	}
}
