// SPDX-License-Identifier: GPL-2.0-or-later

package codec

import (
	"gosnd/snd/chunk"
)

const (
	// SentinelMuLawZeroRun is followed by a count of mu-law zero codes.
	SentinelMuLawZeroRun = 127
	// SentinelMuLawFourBitRun is followed by a count and count nibbles,
	// two per byte, each a code close to zero.
	SentinelMuLawFourBitRun = 126

	waveletMaxBlock = chunk.SizeBytes
	maxRun          = 255
)

const (
	c0 = 0.4829629131445341
	c1 = 0.8365163037378079
	c2 = 0.2241438680420134
	c3 = -0.1294095225512604
)

// daub4 applies one level of the Daubechies-4 transform to a[:n].
func daub4(a, wksp []float32, n int, forward bool) {
	if n < 4 {
		return
	}
	nh := n >> 1
	if forward {
		i := 0
		for j := 0; j < n-3; j += 2 {
			wksp[i] = c0*a[j] + c1*a[j+1] + c2*a[j+2] + c3*a[j+3]
			wksp[i+nh] = c3*a[j] - c2*a[j+1] + c1*a[j+2] - c0*a[j+3]
			i++
		}
		wksp[i] = c0*a[n-2] + c1*a[n-1] + c2*a[0] + c3*a[1]
		wksp[i+nh] = c3*a[n-2] - c2*a[n-1] + c1*a[0] - c0*a[1]
	} else {
		wksp[0] = c2*a[nh-1] + c1*a[n-1] + c0*a[0] + c3*a[nh]
		wksp[1] = c3*a[nh-1] - c0*a[n-1] + c1*a[0] - c2*a[nh]
		j := 2
		for i := 0; i < nh-1; i++ {
			wksp[j] = c2*a[i] + c1*a[i+nh] + c0*a[i+1] + c3*a[i+nh+1]
			j++
			wksp[j] = c3*a[i] - c0*a[i+nh] + c1*a[i+1] - c2*a[i+nh+1]
			j++
		}
	}
	copy(a[:n], wksp[:n])
}

// three levels: n, n/2, n/4
func wt1(a, wksp []float32, forward bool) {
	n := len(a)
	if forward {
		for nn := n; nn >= n/4; nn >>= 1 {
			daub4(a, wksp, nn, true)
		}
	} else {
		for nn := n / 4; nn <= n; nn <<= 1 {
			daub4(a, wksp, nn, false)
		}
	}
}

// waveletBlock is the padded transform length for n samples.
func waveletBlock(n int) int {
	b := (n + 7) &^ 7
	if b < 8 {
		b = 8
	}
	return b
}

// fourBit maps a code close to mu-law zero to its nibble.
func fourBit(code byte) (byte, bool) {
	switch {
	case code >= 0x78 && code <= 0x7f:
		return code - 0x78, true
	case code >= 0xf8:
		return code - 0xf8 + 8, true
	}
	return 0, false
}

func fromFourBit(n byte) byte {
	if n < 8 {
		return 0x78 + n
	}
	return 0xf8 + n - 8
}

func runOf(codes []byte, pred func(byte) bool) int {
	n := 0
	for n < len(codes) && n < maxRun && pred(codes[n]) {
		n++
	}
	return n
}

func isZero(c byte) bool {
	return c == MuLawZero
}

func isFourBit(c byte) bool {
	_, ok := fourBit(c)
	return ok
}

// packRuns run length codes mu-law codes. It returns the packed length
// and false if out is too small.
func packRuns(codes, out []byte) (int, bool) {
	o := 0
	put := func(b ...byte) bool {
		if o+len(b) > len(out) {
			return false
		}
		copy(out[o:], b)
		o += len(b)
		return true
	}
	for i := 0; i < len(codes); {
		c := codes[i]
		if c == MuLawZero {
			r := runOf(codes[i:], isZero)
			if !put(SentinelMuLawZeroRun, byte(r)) {
				return o, false
			}
			i += r
			continue
		}
		if isFourBit(c) {
			// small codes, stopping in front of a long zero run
			r := 0
			for r < len(codes)-i && r < maxRun && isFourBit(codes[i+r]) {
				if z := runOf(codes[i+r:], isZero); z >= 8 {
					break
				}
				r++
			}
			if r >= 4 || c == SentinelMuLawFourBitRun {
				if r == 0 {
					r = 1
				}
				if !put(SentinelMuLawFourBitRun, byte(r)) {
					return o, false
				}
				for k := 0; k < r; k += 2 {
					hi, _ := fourBit(codes[i+k])
					lo := byte(0)
					if k+1 < r {
						lo, _ = fourBit(codes[i+k+1])
					}
					if !put(hi<<4 | lo) {
						return o, false
					}
				}
				i += r
				continue
			}
		}
		if !put(c) {
			return o, false
		}
		i++
	}
	return o, true
}

// unpackRuns expands packed into codes. Truncated input leaves the rest of
// codes as mu-law zero.
func unpackRuns(packed, codes []byte) {
	o := 0
	emit := func(c byte) bool {
		if o >= len(codes) {
			return false
		}
		codes[o] = c
		o++
		return true
	}
	i := 0
	for i < len(packed) && o < len(codes) {
		b := packed[i]
		i++
		switch b {
		case SentinelMuLawZeroRun:
			if i >= len(packed) {
				break
			}
			count := int(packed[i])
			i++
			for k := 0; k < count && emit(MuLawZero); k++ {
			}
		case SentinelMuLawFourBitRun:
			if i >= len(packed) {
				break
			}
			count := int(packed[i])
			i++
			for k := 0; k < count; k++ {
				if i+k/2 >= len(packed) {
					// missing nibbles are silence
					emit(MuLawZero)
					continue
				}
				nb := packed[i+k/2]
				if k%2 == 0 {
					nb >>= 4
				}
				emit(fromFourBit(nb & 0xf))
			}
			i += (count + 1) / 2
		default:
			emit(b)
		}
	}
	for ; o < len(codes); o++ {
		codes[o] = MuLawZero
	}
}

type waveletEncoder struct {
	block []float32
	wksp  []float32
	codes []byte
	out   [chunk.SizeBytes]byte
}

// pack transforms samples and returns the packed stream or false if it
// does not fit one chunk.
func (e *waveletEncoder) pack(samples []int16) ([]byte, bool) {
	n := waveletBlock(len(samples))
	block := e.block[:n]
	for i := range block {
		block[i] = 0
	}
	for i, s := range samples {
		block[i] = float32(s)
	}
	wt1(block, e.wksp, true)
	codes := e.codes[:n]
	for i, v := range block {
		codes[i] = MuLawEncode(int16(clampSample(int(v))))
	}
	l, ok := packRuns(codes, e.out[:])
	return e.out[:l], ok
}

func encodeWavelet(a *chunk.Allocator, samples []int16) ([]chunk.ID, error) {
	e := &waveletEncoder{
		block: make([]float32, waveletMaxBlock),
		wksp:  make([]float32, waveletMaxBlock),
		codes: make([]byte, waveletMaxBlock),
	}
	var ids []chunk.ID
	for len(samples) > 0 {
		n := min(waveletMaxBlock, len(samples))
		packed, ok := e.pack(samples[:n])
		for !ok {
			n /= 2
			packed, ok = e.pack(samples[:n])
		}
		id, err := a.Alloc()
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
		c := a.Get(id)
		c.Samples = n
		c.Packed = copy(c.Raw(), packed)
		samples = samples[n:]
	}
	return ids, nil
}

func decodeWavelet(c *chunk.Chunk, out []int16) {
	n := waveletBlock(c.Samples)
	var (
		codes [waveletMaxBlock]byte
		block [waveletMaxBlock]float32
		wksp  [waveletMaxBlock]float32
	)
	packed := c.Raw()[:min(c.Packed, chunk.SizeBytes)]
	unpackRuns(packed, codes[:n])
	for i := range block[:n] {
		block[i] = float32(MuLawToShort[codes[i]])
	}
	wt1(block[:n], wksp[:], false)
	for i := range out {
		out[i] = int16(clampSample(int(block[i])))
	}
}
