// SPDX-License-Identifier: GPL-2.0-or-later

// Package otodma plays the DMA ring through oto.
package otodma

import (
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"

	"gosnd/snd/dma"
)

// oto contexts can only be created once per process
var (
	ctxOnce sync.Once
	ctx     *oto.Context
	ctxErr  error
	ctxRate int
)

type Device struct {
	Speed    int
	BufferMs int

	dma    *dma.DMA
	stream *dma.Stream
	player *oto.Player
}

func New(speed int) *Device {
	return &Device{Speed: speed, BufferMs: 250}
}

func (d *Device) Init() (*dma.DMA, error) {
	ctxOnce.Do(func() {
		var ready chan struct{}
		ctx, ready, ctxErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   d.Speed,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if ctxErr == nil {
			<-ready
			ctxRate = d.Speed
		}
	})
	if ctxErr != nil {
		return nil, errors.Wrap(ctxErr, "oto context")
	}
	if ctxRate != d.Speed {
		return nil, errors.Errorf("oto already running at %d Hz", ctxRate)
	}
	b, err := dma.New(d.Speed, 2, 16, d.BufferMs)
	if err != nil {
		return nil, err
	}
	d.dma = b
	d.stream = dma.NewStream(b)
	d.player = ctx.NewPlayer(d.stream)
	// the player pulls in small steps, latency is the mixer's business
	d.player.SetBufferSize(b.SubmissionChunk * b.BytesPerFrame())
	d.player.Play()
	return b, nil
}

func (d *Device) Pos() int {
	return d.stream.Pos()
}

func (d *Device) BeginPainting() {}

func (d *Device) Submit(from, to int64) {
	d.stream.Submit(from, to)
}

func (d *Device) Shutdown() {
	if d.player != nil {
		d.player.Close()
		d.player = nil
	}
	d.stream.Reset()
}

func (d *Device) Block() {
	d.stream.Block()
	if err := ctx.Suspend(); err != nil {
		log.Printf("oto suspend: %v", err)
	}
}

func (d *Device) Unblock() {
	d.stream.Unblock()
	if err := ctx.Resume(); err != nil {
		log.Printf("oto resume: %v", err)
	}
}
