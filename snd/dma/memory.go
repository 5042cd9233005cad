// SPDX-License-Identifier: GPL-2.0-or-later

package dma

// Memory is a device without output. The play cursor only moves with
// Advance, which makes it the device for tests and headless runs.
type Memory struct {
	Speed      int
	Channels   int
	SampleBits int
	BufferMs   int
	// Fail makes Init report an error.
	Fail bool

	dma       *DMA
	frames    int64
	submitted int64
	painting  int
	blocked   bool
}

func (m *Memory) Init() (*DMA, error) {
	if m.Fail {
		return nil, ErrDeviceInit
	}
	speed, ch, bits, ms := m.Speed, m.Channels, m.SampleBits, m.BufferMs
	if speed == 0 {
		speed = 22050
	}
	if ch == 0 {
		ch = 2
	}
	if bits == 0 {
		bits = 16
	}
	if ms == 0 {
		ms = 500
	}
	d, err := New(speed, ch, bits, ms)
	if err != nil {
		return nil, err
	}
	d.Clear()
	m.dma = d
	return d, nil
}

// Advance moves the play cursor by n sample frames.
func (m *Memory) Advance(n int) {
	if m.blocked {
		return
	}
	m.frames += int64(n)
}

func (m *Memory) Pos() int {
	if m.dma == nil {
		return 0
	}
	return int(m.frames*int64(m.dma.Channels)) & (m.dma.Samples - 1)
}

func (m *Memory) BeginPainting() {
	m.painting++
}

func (m *Memory) Submit(from, to int64) {
	if to > m.submitted {
		m.submitted = to
	}
}

// Submitted is the end of the last submitted range.
func (m *Memory) Submitted() int64 {
	return m.submitted
}

// Paints counts BeginPainting calls.
func (m *Memory) Paints() int {
	return m.painting
}

func (m *Memory) Shutdown() {
	m.dma = nil
}

func (m *Memory) Block() {
	m.blocked = true
}

func (m *Memory) Unblock() {
	m.blocked = false
}
