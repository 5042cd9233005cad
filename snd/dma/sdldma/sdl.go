// SPDX-License-Identifier: GPL-2.0-or-later

// Package sdldma plays the DMA ring through an SDL2 queued audio device.
package sdldma

import (
	"log"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"gosnd/snd/dma"
)

type Device struct {
	Speed    int
	BufferMs int

	dev    sdl.AudioDeviceID
	dma    *dma.DMA
	buf    []byte
	queued int64
	// failed submissions, only the first is logged
	queueErrors int
	queue       func(sdl.AudioDeviceID, []byte) error
}

func New(speed int) *Device {
	return &Device{Speed: speed, BufferMs: 250, queue: sdl.QueueAudio}
}

func (d *Device) Init() (*dma.DMA, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, errors.Wrap(err, "sdl audio")
	}
	b, err := dma.New(d.Speed, 2, 16, d.BufferMs)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, err
	}
	spec := sdl.AudioSpec{
		Freq:     int32(d.Speed),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  uint16(b.SubmissionChunk),
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, errors.Wrap(err, "open sdl audio device")
	}
	d.dev = dev
	d.dma = b
	d.buf = make([]byte, 0, len(b.Buffer))
	sdl.ClearQueuedAudio(d.dev)
	sdl.PauseAudioDevice(d.dev, false)
	return b, nil
}

// Pos derives the play cursor from the bytes SDL already took out of its
// queue.
func (d *Device) Pos() int {
	played := d.queued - int64(sdl.GetQueuedAudioSize(d.dev))
	frames := played / int64(d.dma.BytesPerFrame())
	return int(frames*int64(d.dma.Channels)) & (d.dma.Samples - 1)
}

func (d *Device) BeginPainting() {}

func (d *Device) Submit(from, to int64) {
	if to <= from {
		return
	}
	d.buf = d.dma.AppendFrames(d.buf[:0], from, to)
	queue := d.queue
	if queue == nil {
		queue = sdl.QueueAudio
	}
	if err := queue(d.dev, d.buf); err != nil {
		if d.queueErrors == 0 {
			log.Printf("sdl queue audio: %v", err)
		}
		d.queueErrors++
		return
	}
	d.queued += int64(len(d.buf))
}

func (d *Device) Shutdown() {
	if d.dev != 0 {
		sdl.CloseAudioDevice(d.dev)
		d.dev = 0
	}
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
}

func (d *Device) Block() {
	sdl.PauseAudioDevice(d.dev, true)
}

func (d *Device) Unblock() {
	sdl.PauseAudioDevice(d.dev, false)
}
