// SPDX-License-Identifier: GPL-2.0-or-later

// Package decode turns sound files into mono 16 bit PCM.
package decode

import (
	"bytes"
	"io"
	"strings"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/pkg/errors"
)

var (
	ErrUnknownFormat = errors.New("unknown sound format")
	ErrUnsupported   = errors.New("unsupported sound encoding")
	ErrEmpty         = errors.New("sound has no samples")
)

// PCM is a decoded sound.
type PCM struct {
	Rate int
	// Channels of the source file, Samples is always mono.
	Channels int
	// Width in bytes of the source samples.
	Width   int
	Samples []int16
}

type decoder func(data []byte) (*PCM, error)

var decoders = map[string]decoder{
	".wav":  WAV,
	".aif":  AIFF,
	".aiff": AIFF,
	".mp3":  MP3,
	".ogg":  Ogg,
}

func ext(name string) string {
	i := strings.LastIndexAny(name, "./\\")
	if i < 0 || name[i] != '.' {
		return ""
	}
	return strings.ToLower(name[i:])
}

func sniff(data []byte) decoder {
	switch {
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return WAV
	case len(data) >= 12 && string(data[:4]) == "FORM" &&
		(string(data[8:12]) == "AIFF" || string(data[8:12]) == "AIFC"):
		return AIFF
	case len(data) >= 4 && string(data[:4]) == "OggS":
		return Ogg
	case len(data) >= 3 && string(data[:3]) == "ID3",
		len(data) >= 2 && data[0] == 0xff && data[1]&0xe0 == 0xe0:
		return MP3
	}
	return nil
}

// Decode picks a decoder by the extension of name or, failing that, by
// the magic bytes of data.
func Decode(name string, data []byte) (*PCM, error) {
	d, ok := decoders[ext(name)]
	if !ok {
		d = sniff(data)
	}
	if d == nil {
		return nil, errors.Wrap(ErrUnknownFormat, name)
	}
	p, err := d(data)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if len(p.Samples) == 0 {
		return nil, errors.Wrap(ErrEmpty, name)
	}
	return p, nil
}

// to16 scales a sample of the given bit depth to 16 bit.
func to16(v, bits int) int {
	switch {
	case bits > 16:
		return v >> (bits - 16)
	case bits < 16:
		return v << (16 - bits)
	}
	return v
}

func clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// mono averages interleaved frames of n channels.
func mono(data []int, n int, conv func(int) int) []int16 {
	if n < 1 {
		n = 1
	}
	out := make([]int16, len(data)/n)
	for i := range out {
		sum := 0
		for c := 0; c < n; c++ {
			sum += conv(data[i*n+c])
		}
		out[i] = clamp16(sum / n)
	}
	return out
}

func fromIntBuffer(buf *goaudio.IntBuffer, bits int, unsigned8 bool) (*PCM, error) {
	if buf == nil || buf.Format == nil {
		return nil, ErrUnsupported
	}
	if bits != 8 && bits != 16 && bits != 24 && bits != 32 {
		return nil, errors.Wrapf(ErrUnsupported, "%d bit", bits)
	}
	conv := func(v int) int { return to16(v, bits) }
	if bits == 8 {
		if unsigned8 {
			conv = func(v int) int { return (int(uint8(v)) - 128) << 8 }
		} else {
			conv = func(v int) int { return int(int8(uint8(v))) << 8 }
		}
	}
	return &PCM{
		Rate:     buf.Format.SampleRate,
		Channels: buf.Format.NumChannels,
		Width:    bits / 8,
		Samples:  mono(buf.Data, buf.Format.NumChannels, conv),
	}, nil
}

func WAV(data []byte) (*PCM, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}
	if d.WavAudioFormat != 1 {
		return nil, errors.Wrapf(ErrUnsupported, "wav format %d", d.WavAudioFormat)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "read wav")
	}
	return fromIntBuffer(buf, int(d.BitDepth), true)
}

func AIFF(data []byte) (*PCM, error) {
	d := aiff.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, errors.New("invalid aiff file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "read aiff")
	}
	return fromIntBuffer(buf, int(d.BitDepth), false)
}

func MP3(data []byte) (*PCM, error) {
	d, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open mp3")
	}
	// 16 bit little endian stereo
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, errors.Wrap(err, "read mp3")
	}
	frames := len(raw) / 4
	out := make([]int16, frames)
	for i := range out {
		l := int(int16(uint16(raw[4*i]) | uint16(raw[4*i+1])<<8))
		r := int(int16(uint16(raw[4*i+2]) | uint16(raw[4*i+3])<<8))
		out[i] = int16((l + r) / 2)
	}
	return &PCM{
		Rate:     d.SampleRate(),
		Channels: 2,
		Width:    2,
		Samples:  out,
	}, nil
}

func Ogg(data []byte) (*PCM, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "read ogg")
	}
	n := format.Channels
	if n < 1 {
		return nil, errors.Wrapf(ErrUnsupported, "%d channels", n)
	}
	out := make([]int16, len(samples)/n)
	for i := range out {
		var sum float32
		for c := 0; c < n; c++ {
			sum += samples[i*n+c]
		}
		out[i] = clamp16(int(sum / float32(n) * 32767))
	}
	return &PCM{
		Rate:     format.SampleRate,
		Channels: n,
		Width:    2,
		Samples:  out,
	}, nil
}

// Resample converts samples from inRate to outRate picking the nearest
// earlier source sample.
func Resample(samples []int16, inRate, outRate int) []int16 {
	if inRate == outRate || inRate <= 0 || outRate <= 0 {
		return samples
	}
	outCount := int(int64(len(samples)) * int64(outRate) / int64(inRate))
	out := make([]int16, outCount)
	// 8 bit fraction
	fracStep := int64(inRate) * 256 / int64(outRate)
	var frac int64
	for i := range out {
		src := int(frac >> 8)
		if src >= len(samples) {
			src = len(samples) - 1
		}
		out[i] = samples[src]
		frac += fracStep
	}
	return out
}
