// SPDX-License-Identifier: GPL-2.0-or-later

// Package chunk implements the fixed arena of sample chunks that backs all
// loaded sound data.
package chunk

import (
	"log"
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// Size is the number of 16 bit samples in a chunk.
	Size = 1024
	// SizeBytes is the byte capacity of a chunk used by packed codecs.
	SizeBytes = Size * 2
	// UnitChunks is the number of chunks per com_soundmegs unit.
	UnitChunks = 1536
)

var ErrOutOfMemory = errors.New("sound chunk arena exhausted")

// ID indexes a chunk in its allocator.
type ID int32

const Nil ID = -1

// ADPCMState is the IMA ADPCM predictor at the start of a chunk.
type ADPCMState struct {
	Sample int16
	Index  int8
}

type Chunk struct {
	Data [Size]int16
	// Samples is the number of decoded samples this chunk represents.
	Samples int
	// Packed is the number of used bytes for byte oriented codecs.
	Packed int
	ADPCM  ADPCMState
	used   bool
}

// Raw returns the chunk storage viewed as bytes.
func (c *Chunk) Raw() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&c.Data[0])), SizeBytes)
}

func (c *Chunk) reset() {
	c.Samples = 0
	c.Packed = 0
	c.ADPCM = ADPCMState{}
}

// Evictor frees the chunks of one resident sound. It reports false if
// nothing could be evicted.
type Evictor interface {
	EvictOldest() bool
}

type Stats struct {
	Total     int
	Free      int
	InUse     int
	HighWater int
}

type Allocator struct {
	arena     []Chunk
	free      []ID
	highWater int
	evictor   Evictor
}

func New(chunks int) *Allocator {
	if chunks < 1 {
		chunks = 1
	}
	a := &Allocator{
		arena: make([]Chunk, chunks),
		free:  make([]ID, 0, chunks),
	}
	// lowest ids are handed out first
	for i := chunks - 1; i >= 0; i-- {
		a.free = append(a.free, ID(i))
	}
	return a
}

// NewMegs sizes the arena in com_soundmegs units.
func NewMegs(megs int) *Allocator {
	if megs < 1 {
		megs = 1
	}
	return New(megs * UnitChunks)
}

func (a *Allocator) SetEvictor(e Evictor) {
	a.evictor = e
}

// Alloc hands out a cleared chunk. When the free list is empty the evictor
// is asked to drop sounds until a chunk is available.
func (a *Allocator) Alloc() (ID, error) {
	for len(a.free) == 0 {
		if a.evictor == nil || !a.evictor.EvictOldest() {
			return Nil, ErrOutOfMemory
		}
	}
	id := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	c := &a.arena[id]
	c.reset()
	c.used = true
	if u := len(a.arena) - len(a.free); u > a.highWater {
		a.highWater = u
	}
	return id, nil
}

func (a *Allocator) Release(id ID) {
	if id < 0 || int(id) >= len(a.arena) {
		return
	}
	c := &a.arena[id]
	if !c.used {
		log.Printf("chunk %d released twice", id)
		return
	}
	c.used = false
	a.free = append(a.free, id)
}

func (a *Allocator) ReleaseAll(ids []ID) {
	for _, id := range ids {
		a.Release(id)
	}
}

// Get returns the chunk for id. The pointer stays valid for the lifetime of
// the allocator.
func (a *Allocator) Get(id ID) *Chunk {
	return &a.arena[id]
}

func (a *Allocator) Free() int {
	return len(a.free)
}

func (a *Allocator) Stats() Stats {
	return Stats{
		Total:     len(a.arena),
		Free:      len(a.free),
		InUse:     len(a.arena) - len(a.free),
		HighWater: a.highWater,
	}
}
