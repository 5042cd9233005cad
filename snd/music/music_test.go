// SPDX-License-Identifier: GPL-2.0-or-later

package music

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

func constWAV(t *testing.T, rate, frames, value int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]int, frames)
	for i := range data {
		data[i] = value
	}
	e := wav.NewEncoder(f, rate, 16, 1, 1)
	if err := e.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func files(m map[string][]byte) Loader {
	return func(name string) ([]byte, error) {
		if b, ok := m[name]; ok {
			return b, nil
		}
		return nil, os.ErrNotExist
	}
}

func readFrames(t *testing.T, tr *Track, n int) [][2]int16 {
	t.Helper()
	p := make([]byte, n*frameSize)
	got, err := tr.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != len(p) {
		t.Fatalf("Read = %d want %d", got, len(p))
	}
	out := make([][2]int16, n)
	for i := range out {
		out[i][0] = int16(binary.LittleEndian.Uint16(p[i*frameSize:]))
		out[i][1] = int16(binary.LittleEndian.Uint16(p[i*frameSize+2:]))
	}
	return out
}

func near(a, b, tol int) bool {
	d := a - b
	return d <= tol && d >= -tol
}

func TestLoopOnly(t *testing.T) {
	load := files(map[string][]byte{"music/l.wav": constWAV(t, 8000, 100, 16384)})
	tr, err := Open(load, "music/l.wav", "", 8000)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tr.Close()
	if tr.Name() != "music/l.wav" {
		t.Errorf("Name() = %q", tr.Name())
	}
	for i, f := range readFrames(t, tr, 350) {
		if !near(int(f[0]), 16384, 2) || f[0] != f[1] {
			t.Fatalf("frame %d = %v want ~16384 on both sides", i, f)
		}
	}
}

func TestCrossfade(t *testing.T) {
	const rate = 1000
	load := files(map[string][]byte{
		"intro.wav": constWAV(t, rate, 2000, 16384),
		"loop.wav":  constWAV(t, rate, 1000, -16384),
	})
	tr, err := Open(load, "intro.wav", "loop.wav", rate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tr.Close()
	if tr.fade != rate/2 {
		t.Fatalf("fade = %d want %d", tr.fade, rate/2)
	}
	fr := readFrames(t, tr, 2000)
	tests := []struct {
		frame int
		want  int
	}{
		{0, 16384},
		{1499, 16384},
		{1500, 16384},
		{1750, 0},
		{1999, -16285},
	}
	for _, tc := range tests {
		if got := int(fr[tc.frame][0]); !near(got, tc.want, 40) {
			t.Errorf("frame %d = %d want %d", tc.frame, got, tc.want)
		}
	}
	for i := 1501; i < 2000; i++ {
		if fr[i][0] > fr[i-1][0] {
			t.Fatalf("fade not monotonic at %d: %d > %d", i, fr[i][0], fr[i-1][0])
		}
	}
	if tr.Name() != "loop.wav" {
		t.Errorf("Name() after intro = %q want loop.wav", tr.Name())
	}
	for i, f := range readFrames(t, tr, 1500) {
		if !near(int(f[0]), -16384, 2) {
			t.Fatalf("loop frame %d = %v", i, f)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	load := files(map[string][]byte{"a.xyz": {1, 2, 3}})
	if _, err := Open(load, "a.xyz", "", 22050); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Open(a.xyz) = %v want %v", err, ErrUnsupported)
	}
	if _, err := Open(load, "missing.wav", "", 22050); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing.wav) = %v want %v", err, os.ErrNotExist)
	}
	if _, err := Open(load, "", "", 22050); err == nil {
		t.Errorf("Open() with no track succeeded")
	}
}
