// SPDX-License-Identifier: GPL-2.0-or-later

package dma

import (
	"testing"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		speed, ch, bits, ms int
		samples, chunk      int
	}{
		{22050, 2, 16, 500, 32768, 512},
		{11025, 1, 8, 100, 2048, 256},
		{44100, 2, 16, 10, 1024, 1024},
	} {
		d, err := New(tc.speed, tc.ch, tc.bits, tc.ms)
		if err != nil {
			t.Fatalf("New(%v): %v", tc, err)
		}
		if d.Samples != tc.samples || d.SubmissionChunk != tc.chunk {
			t.Errorf("New(%d,%d,%d,%d) = %d samples, chunk %d want %d, %d",
				tc.speed, tc.ch, tc.bits, tc.ms, d.Samples, d.SubmissionChunk, tc.samples, tc.chunk)
		}
		if err := d.Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	}
	if _, err := New(22050, 3, 16, 100); err == nil {
		t.Errorf("New accepted 3 channels")
	}
	if _, err := New(22050, 2, 24, 100); err == nil {
		t.Errorf("New accepted 24 bits")
	}
}

func TestAppendFramesWraps(t *testing.T) {
	d, _ := New(11025, 2, 16, 1)
	for i := range d.Buffer {
		d.Buffer[i] = byte(i)
	}
	frames := int64(d.Frames())
	got := d.AppendFrames(nil, frames-1, frames+1)
	if len(got) != 8 {
		t.Fatalf("len = %d want 8", len(got))
	}
	n := len(d.Buffer)
	want := []byte{byte(n - 4), byte(n - 3), byte(n - 2), byte(n - 1), 0, 1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %d want %d", i, got[i], want[i])
		}
	}
}

func TestMemory(t *testing.T) {
	m := &Memory{Speed: 11025, Channels: 2}
	d, err := m.Init()
	if err != nil {
		t.Fatal(err)
	}
	if m.Pos() != 0 {
		t.Errorf("Pos() = %d want 0", m.Pos())
	}
	m.Advance(10)
	if m.Pos() != 20 {
		t.Errorf("Pos() = %d want 20", m.Pos())
	}
	m.Advance(d.Frames())
	if m.Pos() != 20 {
		t.Errorf("Pos() after wrap = %d want 20", m.Pos())
	}
	m.Block()
	m.Advance(5)
	if m.Pos() != 20 {
		t.Errorf("blocked device moved")
	}
	m.Submit(0, 100)
	if m.Submitted() != 100 {
		t.Errorf("Submitted() = %d", m.Submitted())
	}
	if _, err := (&Memory{Fail: true}).Init(); err != ErrDeviceInit {
		t.Errorf("Init() = %v want ErrDeviceInit", err)
	}
}

func TestStream(t *testing.T) {
	d, _ := New(11025, 2, 16, 1)
	for i := range d.Buffer {
		d.Buffer[i] = byte(i%250 + 1)
	}
	s := NewStream(d)
	s.Submit(0, 4)
	if s.Buffered() != 16 {
		t.Fatalf("Buffered() = %d want 16", s.Buffered())
	}
	p := make([]byte, 24)
	n, err := s.Read(p)
	if n != 24 || err != nil {
		t.Fatalf("Read = %d, %v", n, err)
	}
	for i := 0; i < 16; i++ {
		if p[i] != d.Buffer[i] {
			t.Errorf("p[%d] = %d want %d", i, p[i], d.Buffer[i])
		}
	}
	for i := 16; i < 24; i++ {
		if p[i] != 0 {
			t.Errorf("underrun byte %d = %d want silence", i, p[i])
		}
	}
	if s.Underruns() != 1 {
		t.Errorf("Underruns() = %d want 1", s.Underruns())
	}
	// 24 bytes are 6 stereo frames
	if s.Pos() != 12 {
		t.Errorf("Pos() = %d want 12", s.Pos())
	}
	s.Block()
	s.Read(p)
	if s.Pos() != 12 {
		t.Errorf("blocked stream moved to %d", s.Pos())
	}
}
