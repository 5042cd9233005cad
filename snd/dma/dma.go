// SPDX-License-Identifier: GPL-2.0-or-later

// Package dma describes the ring buffer shared between the mixer and a
// playback device.
package dma

import (
	"github.com/pkg/errors"

	"gosnd/math"
)

var ErrDeviceInit = errors.New("sound device init failed")

// DMA is the negotiated device format and the ring the mixer paints into.
type DMA struct {
	Channels int
	// Samples is the number of mono samples in Buffer, a power of two.
	Samples int
	// SubmissionChunk is the smallest number of sample frames worth mixing.
	SubmissionChunk int
	SampleBits      int
	Speed           int
	Buffer          []byte
}

// New allocates a ring of about bufferMs milliseconds.
func New(speed, channels, bits, bufferMs int) (*DMA, error) {
	if channels != 1 && channels != 2 {
		return nil, errors.Errorf("unsupported channel count %d", channels)
	}
	if bits != 8 && bits != 16 {
		return nil, errors.Errorf("unsupported sample bits %d", bits)
	}
	if speed <= 0 {
		return nil, errors.Errorf("invalid speed %d", speed)
	}
	want := speed * channels * bufferMs / 1000
	samples := 1 << 10
	for samples < want {
		samples <<= 1
	}
	d := &DMA{
		Channels:        channels,
		Samples:         samples,
		SubmissionChunk: submissionChunk(speed),
		SampleBits:      bits,
		Speed:           speed,
	}
	d.Buffer = make([]byte, samples*bits/8)
	return d, nil
}

// same steps as the device buffer sizes of the quake engines
func submissionChunk(speed int) int {
	switch {
	case speed <= 11025:
		return 256
	case speed <= 22050:
		return 512
	case speed <= 44100:
		return 1024
	case speed <= 56000:
		return 2048
	}
	return 4096
}

func (d *DMA) Validate() error {
	if !math.IsPowerOfTwo(d.Samples) {
		return errors.Errorf("dma samples %d not a power of two", d.Samples)
	}
	if len(d.Buffer) != d.Samples*d.SampleBits/8 {
		return errors.Errorf("dma buffer is %d bytes, want %d", len(d.Buffer), d.Samples*d.SampleBits/8)
	}
	return nil
}

// BytesPerFrame is the size of one sample frame over all channels.
func (d *DMA) BytesPerFrame() int {
	return d.Channels * d.SampleBits / 8
}

// Frames is the ring length in sample frames.
func (d *DMA) Frames() int {
	return d.Samples / d.Channels
}

// AppendFrames appends the bytes of frames [from, to) to dst, wrapping at
// the ring end.
func (d *DMA) AppendFrames(dst []byte, from, to int64) []byte {
	bpf := int64(d.BytesPerFrame())
	size := int64(len(d.Buffer))
	for from < to {
		off := (from * bpf) % size
		n := min((to-from)*bpf, size-off)
		dst = append(dst, d.Buffer[off:off+n]...)
		from += n / bpf
	}
	return dst
}

// Clear fills the ring with silence.
func (d *DMA) Clear() {
	c := byte(0)
	if d.SampleBits == 8 {
		c = 0x80
	}
	for i := range d.Buffer {
		d.Buffer[i] = c
	}
}

// Device is a playback backend.
type Device interface {
	Init() (*DMA, error)
	// Pos is the mono sample index in the ring the device plays next.
	Pos() int
	BeginPainting()
	// Submit hands the painted frames [from, to) to the device.
	Submit(from, to int64)
	Shutdown()
	Block()
	Unblock()
}
