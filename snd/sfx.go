// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"gosnd/conlog"
	"gosnd/snd/chunk"
	"gosnd/snd/codec"
	"gosnd/snd/decode"
)

// Handle identifies a registered sound. Handle 0 is the default buzz.
type Handle int

const (
	DefaultHandle Handle = 0
	maxQPath             = 64
	defaultName          = "***DEFAULT***"
	defaultLength        = 512
)

// Loader returns the file contents of a sound asset.
type Loader func(name string) ([]byte, error)

type sfx struct {
	name string
	// load failed, plays the default sound
	defaultSound bool
	inMemory     bool
	loading      bool
	compressed   bool
	method       codec.Method
	// samples at the device rate
	length int
	// milliseconds
	duration     int
	lastTimeUsed int64
	chunks       []chunk.ID
	// first sample of each chunk
	starts []int
	// channels and loops playing this sound
	refs int
	// bumped on every load so decoded chunks of an earlier load are not reused
	gen     int
	session uuid.UUID
}

type store struct {
	known   []*sfx
	byName  map[string]Handle
	alloc   *chunk.Allocator
	load    Loader
	speed   int
	now     func() int64
	session uuid.UUID
	// used for sounds registered as compressed
	method codec.Method
}

func newStore(a *chunk.Allocator, l Loader, speed int, now func() int64) *store {
	st := &store{
		byName: make(map[string]Handle),
		alloc:  a,
		load:   l,
		speed:  speed,
		now:    now,
		method: codec.ADPCM,
	}
	a.SetEvictor(st)
	return st
}

// beginRegistration starts a new registration session and makes sure the
// default sound exists.
func (st *store) beginRegistration() error {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	st.session = id
	if len(st.known) > 0 {
		return nil
	}
	def := &sfx{
		name:         defaultName,
		defaultSound: true,
		session:      id,
	}
	samples := make([]int16, defaultLength)
	for i := range samples {
		samples[i] = int16(i)
	}
	if err := st.encode(def, samples, codec.PCM); err != nil {
		return errors.Wrap(err, "default sound")
	}
	def.duration = defaultLength * 1000 / st.speed
	st.known = append(st.known, def)
	st.byName[strings.ToLower(defaultName)] = DefaultHandle
	return nil
}

// register returns the handle for name, creating the entry on first use.
// The sound data is loaded when it is first played.
func (st *store) register(name string, compressed bool) Handle {
	if name == "" {
		log.Printf("RegisterSound: empty name")
		return DefaultHandle
	}
	if len(name) >= maxQPath {
		log.Printf("RegisterSound: sound name too long: %s", name)
		return DefaultHandle
	}
	key := strings.ToLower(name)
	if h, ok := st.byName[key]; ok {
		st.known[h].session = st.session
		return h
	}
	h := Handle(len(st.known))
	st.known = append(st.known, &sfx{
		name:       name,
		compressed: compressed,
		session:    st.session,
	})
	st.byName[key] = h
	return h
}

func (st *store) get(h Handle) *sfx {
	if h < 0 || int(h) >= len(st.known) {
		return nil
	}
	return st.known[h]
}

// resolve loads the sound if needed and returns the sound to play, which
// is the default sound if loading failed. It returns nil if the sound can
// not be played right now.
func (st *store) resolve(h Handle) *sfx {
	sf := st.get(h)
	if sf == nil {
		log.Printf("sound handle %d out of range", h)
		return nil
	}
	if sf.defaultSound {
		return st.known[DefaultHandle]
	}
	if !sf.inMemory && !st.memoryLoad(sf) {
		if sf.defaultSound {
			return st.known[DefaultHandle]
		}
		return nil
	}
	return sf
}

func (st *store) memoryLoad(sf *sfx) bool {
	data, err := st.load(sf.name)
	if err == nil {
		var p *decode.PCM
		p, err = decode.Decode(sf.name, data)
		if err == nil {
			return st.loadPCM(sf, p)
		}
	}
	// logged once, the sound stays marked as default from now on
	conlog.Printf("WARNING: could not load %s - using default: %v\n", sf.name, err)
	sf.defaultSound = true
	return false
}

func (st *store) loadPCM(sf *sfx, p *decode.PCM) bool {
	if p.Width == 1 {
		conlog.DPrintf("WARNING: %s is a 8 bit sound file\n", sf.name)
	}
	samples := decode.Resample(p.Samples, p.Rate, st.speed)
	method := codec.PCM
	if sf.compressed {
		method = st.method
	}
	sf.loading = true
	err := st.encode(sf, samples, method)
	sf.loading = false
	if err != nil {
		log.Printf("could not load %s: %v", sf.name, err)
		return false
	}
	sf.duration = int(int64(len(p.Samples)) * 1000 / int64(p.Rate))
	sf.lastTimeUsed = st.now() + 1
	return true
}

// encode stores samples into a fresh chunk chain owned by sf.
func (st *store) encode(sf *sfx, samples []int16, m codec.Method) error {
	ids, err := codec.Encode(m, st.alloc, samples)
	if err != nil {
		return err
	}
	sf.method = m
	sf.chunks = ids
	sf.starts = make([]int, len(ids))
	pos := 0
	for i, id := range ids {
		sf.starts[i] = pos
		pos += st.alloc.Get(id).Samples
	}
	sf.length = pos
	sf.inMemory = true
	sf.gen++
	return nil
}

func (st *store) evict(sf *sfx) {
	st.alloc.ReleaseAll(sf.chunks)
	sf.chunks = nil
	sf.starts = nil
	sf.inMemory = false
}

// EvictOldest frees the least recently used resident sound that nothing
// is playing.
func (st *store) EvictOldest() bool {
	var oldest *sfx
	for i, sf := range st.known {
		if i == int(DefaultHandle) || !sf.inMemory || sf.loading || sf.refs > 0 {
			continue
		}
		if oldest == nil {
			oldest = sf
			continue
		}
		// sounds not registered again since the last BeginRegistration go first
		stale, oldestStale := sf.stale(st.session), oldest.stale(st.session)
		if stale != oldestStale {
			if stale {
				oldest = sf
			}
			continue
		}
		if sf.lastTimeUsed < oldest.lastTimeUsed {
			oldest = sf
		}
	}
	if oldest == nil {
		return false
	}
	conlog.DPrintf("evicting sound %s\n", oldest.name)
	st.evict(oldest)
	return true
}

func (sf *sfx) stale(session uuid.UUID) bool {
	return sf.session != session
}

// chunkAt returns the chunk index holding sample pos.
func (sf *sfx) chunkAt(pos int) int {
	return sort.Search(len(sf.starts), func(i int) bool {
		return sf.starts[i] > pos
	}) - 1
}

// freeAll drops all sound data but keeps the handles valid.
func (st *store) freeAll() {
	for i, sf := range st.known {
		if i == int(DefaultHandle) {
			continue
		}
		if sf.inMemory {
			st.evict(sf)
		}
		sf.refs = 0
	}
}

func (st *store) list() {
	total := 0
	for _, sf := range st.known {
		mem := "paged out"
		if sf.inMemory {
			mem = "resident "
			total += sf.length
		}
		if !sf.defaultSound && sf.stale(st.session) {
			mem += ", stale"
		}
		conlog.Printf("%6d[%s] : %s[%s]\n", sf.length, sf.method, sf.name, mem)
	}
	conlog.Printf("Total resident: %d\n", total)
	s := st.alloc.Stats()
	conlog.Printf("%d chunks used of %d, %d free, peak %d\n", s.InUse, s.Total, s.Free, s.HighWater)
}
