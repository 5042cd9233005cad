// SPDX-License-Identifier: GPL-2.0-or-later

package dma

import (
	"log"
	"sync/atomic"

	"github.com/smallnest/ringbuffer"
)

// Stream feeds submitted frames to a pull based device callback through a
// lock free ring. The callback side runs on the device thread.
type Stream struct {
	dma  *DMA
	ring *ringbuffer.RingBuffer
	// scratch for Submit, sized to the whole ring
	buf []byte

	consumed  atomic.Int64
	underruns atomic.Int64
	overflows atomic.Int64
	blocked   atomic.Bool
}

// NewStream sizes the ring to hold the whole DMA buffer.
func NewStream(d *DMA) *Stream {
	return &Stream{
		dma:  d,
		ring: ringbuffer.New(len(d.Buffer)),
		buf:  make([]byte, 0, len(d.Buffer)),
	}
}

// Submit copies frames [from, to) of the DMA ring into the stream.
func (s *Stream) Submit(from, to int64) {
	if to <= from {
		return
	}
	if limit := int64(s.dma.Frames()); to-from > limit {
		from = to - limit
	}
	s.buf = s.dma.AppendFrames(s.buf[:0], from, to)
	n, err := s.ring.Write(s.buf)
	if err != nil && n < len(s.buf) {
		if s.overflows.Add(1) == 1 {
			log.Printf("sound stream overflow, dropped %d bytes", len(s.buf)-n)
		}
	}
}

// Read is the device callback. Missing data is played as silence and
// still counts as consumed so the play cursor keeps real time.
func (s *Stream) Read(p []byte) (int, error) {
	if s.blocked.Load() {
		s.silence(p)
		return len(p), nil
	}
	n, _ := s.ring.TryRead(p)
	if n < len(p) {
		s.silence(p[n:])
		s.underruns.Add(1)
	}
	s.consumed.Add(int64(len(p)))
	return len(p), nil
}

func (s *Stream) silence(p []byte) {
	c := byte(0)
	if s.dma.SampleBits == 8 {
		c = 0x80
	}
	for i := range p {
		p[i] = c
	}
}

// Consume advances the play cursor for devices that report played bytes
// instead of pulling through Read.
func (s *Stream) Consume(n int) {
	s.consumed.Add(int64(n))
}

// Pos is the mono sample position of the device in the DMA ring.
func (s *Stream) Pos() int {
	frames := s.consumed.Load() / int64(s.dma.BytesPerFrame())
	return int(frames*int64(s.dma.Channels)) & (s.dma.Samples - 1)
}

// Buffered is the number of bytes waiting for the device.
func (s *Stream) Buffered() int {
	return s.ring.Length()
}

func (s *Stream) Underruns() int64 {
	return s.underruns.Load()
}

func (s *Stream) Block() {
	s.blocked.Store(true)
}

func (s *Stream) Unblock() {
	s.blocked.Store(false)
}

func (s *Stream) Reset() {
	s.ring.Reset()
}
