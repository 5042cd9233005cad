// SPDX-License-Identifier: GPL-2.0-or-later

// Package music streams the background track. A track is an optional intro
// followed by a file that loops forever. The intro fades into the loop.
package music

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/pkg/errors"
)

const (
	resampleQuality = 4
	// seconds the intro and the loop overlap
	fadeSeconds = 0.5
	// bytes per output frame, 16 bit stereo
	frameSize = 4
)

var ErrUnsupported = errors.New("unsupported music format")

// Loader returns the file contents of a track.
type Loader func(name string) ([]byte, error)

type readSeekCloser struct {
	*bytes.Reader
}

func (readSeekCloser) Close() error { return nil }

func decodeFile(load Loader, name string) (beep.StreamSeekCloser, beep.Format, error) {
	data, err := load(name)
	if err != nil {
		return nil, beep.Format{}, err
	}
	rc := readSeekCloser{bytes.NewReader(data)}
	var (
		s beep.StreamSeekCloser
		f beep.Format
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		s, f, err = wav.Decode(rc)
	case ".mp3":
		s, f, err = mp3.Decode(rc)
	case ".ogg":
		s, f, err = vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, errors.Wrap(ErrUnsupported, name)
	}
	if err != nil {
		return nil, beep.Format{}, errors.Wrapf(err, "decode %s", name)
	}
	return s, f, nil
}

// looper restarts its streamer whenever it runs out.
type looper struct {
	s   beep.StreamSeeker
	err error
}

func (l *looper) Stream(samples [][2]float64) (n int, ok bool) {
	if l.err != nil {
		return 0, false
	}
	for len(samples) > 0 {
		sn, sok := l.s.Stream(samples)
		n += sn
		samples = samples[sn:]
		if sn == 0 || !sok {
			if err := l.s.Err(); err != nil {
				l.err = err
				return n, n > 0
			}
			if l.s.Len() == 0 {
				l.err = errors.New("empty loop")
				return n, n > 0
			}
			if err := l.s.Seek(0); err != nil {
				l.err = err
				return n, n > 0
			}
		}
	}
	return n, true
}

func (l *looper) Err() error {
	return l.err
}

func resample(s beep.Streamer, from beep.SampleRate, to int) beep.Streamer {
	if int(from) == to {
		return s
	}
	return beep.Resample(resampleQuality, from, beep.SampleRate(to), s)
}

// Track produces 16 bit stereo little endian frames at the output rate.
type Track struct {
	name     string
	loopName string

	intro   beep.StreamSeekCloser
	introS  beep.Streamer
	// frames of the intro left to play
	introLeft int
	fade      int

	loopDec beep.StreamSeekCloser
	loop    *looper
	loopS   beep.Streamer

	buf [][2]float64
	tmp [][2]float64
	err error
}

// Open starts a track. An empty loop or a loop equal to the intro plays
// the intro as loop.
func Open(load Loader, intro, loop string, rate int) (*Track, error) {
	if intro == "" {
		return nil, errors.New("no track")
	}
	if loop == "" || strings.EqualFold(loop, intro) {
		loop = intro
		intro = ""
	}
	t := &Track{name: loop, loopName: loop}
	ld, lf, err := decodeFile(load, loop)
	if err != nil {
		return nil, err
	}
	t.loopDec = ld
	t.loop = &looper{s: ld}
	t.loopS = resample(t.loop, lf.SampleRate, rate)
	if intro == "" {
		return t, nil
	}

	id, inf, err := decodeFile(load, intro)
	if err != nil {
		ld.Close()
		return nil, err
	}
	t.name = intro
	t.intro = id
	t.introS = resample(id, inf.SampleRate, rate)
	t.introLeft = int(int64(id.Len()) * int64(rate) / int64(inf.SampleRate))
	t.fade = min(int(fadeSeconds*float64(rate)), t.introLeft/2)
	if t.introLeft == 0 {
		t.endIntro()
	}
	return t, nil
}

// Name is the file currently playing.
func (t *Track) Name() string {
	return t.name
}

func (t *Track) endIntro() {
	t.intro.Close()
	t.intro = nil
	t.introS = nil
	t.name = t.loopName
}

func (t *Track) stream(out [][2]float64) {
	clear(out)
	for len(out) > 0 && t.err == nil {
		if t.intro == nil {
			n, ok := t.loopS.Stream(out)
			if !ok || n == 0 {
				t.err = t.loop.Err()
				if t.err == nil {
					t.err = errors.New("loop ended")
				}
				return
			}
			out = out[n:]
			continue
		}
		if t.introLeft > t.fade {
			n := min(len(out), t.introLeft-t.fade)
			t.introS.Stream(out[:n])
			t.introLeft -= n
			out = out[n:]
			continue
		}
		if t.introLeft == 0 {
			t.endIntro()
			continue
		}
		n := min(len(out), t.introLeft)
		if cap(t.tmp) < n {
			t.tmp = make([][2]float64, n)
		}
		tmp := t.tmp[:n]
		clear(tmp)
		t.introS.Stream(out[:n])
		t.loopS.Stream(tmp)
		for i := range n {
			g := float64(t.fade-t.introLeft+i) / float64(t.fade)
			out[i][0] = out[i][0]*(1-g) + tmp[i][0]*g
			out[i][1] = out[i][1]*(1-g) + tmp[i][1]*g
		}
		t.introLeft -= n
		out = out[n:]
	}
}

func toInt16(v float64) int16 {
	v *= 32767
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// Read fills p with whole frames. It only fails if the loop can not be
// streamed any more.
func (t *Track) Read(p []byte) (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	frames := len(p) / frameSize
	if cap(t.buf) < frames {
		t.buf = make([][2]float64, frames)
	}
	buf := t.buf[:frames]
	t.stream(buf)
	if t.err != nil {
		return 0, t.err
	}
	for i, s := range buf {
		binary.LittleEndian.PutUint16(p[i*frameSize:], uint16(toInt16(s[0])))
		binary.LittleEndian.PutUint16(p[i*frameSize+2:], uint16(toInt16(s[1])))
	}
	return frames * frameSize, nil
}

func (t *Track) Close() error {
	if t.intro != nil {
		t.intro.Close()
		t.intro = nil
	}
	return t.loopDec.Close()
}
