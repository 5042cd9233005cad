// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"log"

	"gosnd/conlog"
	"gosnd/cvars"
	"gosnd/filesystem"
	"gosnd/math/vec"
	"gosnd/qtime"
	"gosnd/snd/chunk"
	"gosnd/snd/codec"
	"gosnd/snd/dma"
	"gosnd/snd/music"
)

const (
	// music is decoded this far ahead of the play cursor
	musicAhead  = MaxRawSamples / 2
	musicFrames = 1024
)

var current *SndSys

type Options struct {
	// Loader reads sound files, filesystem.ReadFile if nil.
	Loader Loader
	// Megs sizes the chunk arena, com_soundmegs if 0.
	Megs int
	// Clock returns milliseconds, qtime.Milliseconds if nil.
	Clock func() int64
}

type SndSys struct {
	dev   dma.Device
	dma   *dma.DMA
	store *store
	load  Loader
	now   func() int64

	channels     [MaxChannels]channel
	loops        [MaxEntities]loopSound
	loopSlots    [MaxChannels]channel
	numLoopSlots int
	// advanced by ClearLoopingSounds
	frame     int
	loopFrame int

	entityOrigins [MaxEntities]vec.Vec3
	talk          [MaxClients]uint8
	listener      Listener

	paintBuf [PaintBufferSize]samplePair
	scratch  scratch
	raw      rawStream
	// s_volume scaled to 0-255 for the current paint
	sndVol int

	soundTime    int64
	paintedTime  int64
	oldSamplePos int
	buffers      int64
	lastUpdate   int64
	muted        bool

	music    *music.Track
	musicBuf []byte
}

func InitSoundSystem(dev dma.Device, o Options) *SndSys {
	if dev == nil || cvars.SoundNoSound.Bool() {
		return nil
	}
	d, err := dev.Init()
	if err != nil {
		log.Printf("Sound initialization failed: %v", err)
		return nil
	}
	if err := d.Validate(); err != nil {
		log.Printf("Sound initialization failed: %v", err)
		dev.Shutdown()
		return nil
	}
	if o.Loader == nil {
		o.Loader = filesystem.ReadFile
	}
	if o.Clock == nil {
		o.Clock = qtime.Milliseconds
	}
	if o.Megs <= 0 {
		o.Megs = cvars.SoundMegs.Int()
	}
	s := &SndSys{
		dev:      dev,
		dma:      d,
		load:     o.Loader,
		now:      o.Clock,
		musicBuf: make([]byte, musicFrames*4),
	}
	s.store = newStore(chunk.NewMegs(o.Megs), o.Loader, d.Speed, o.Clock)
	if m := codec.Method(cvars.SoundCompression.Int()); m >= codec.PCM && m <= codec.MuLaw {
		s.store.method = m
	}
	if err := s.store.beginRegistration(); err != nil {
		log.Printf("Sound initialization failed: %v", err)
		dev.Shutdown()
		return nil
	}
	s.clearSoundBuffer()
	s.lastUpdate = s.now()
	s.soundInfo()
	current = s
	return s
}

func (s *SndSys) soundInfo() {
	conlog.Printf("----- Sound Info -----\n")
	if s.muted {
		conlog.Printf("sound system is muted\n")
	}
	conlog.Printf("%5d stereo\n", s.dma.Channels-1)
	conlog.Printf("%5d samples\n", s.dma.Samples)
	conlog.Printf("%5d samplebits\n", s.dma.SampleBits)
	conlog.Printf("%5d submission_chunk\n", s.dma.SubmissionChunk)
	conlog.Printf("%5d speed\n", s.dma.Speed)
	conlog.Printf("%5d channels in use\n", s.activeChannels())
	conlog.Printf("%5d loops\n", s.activeLoops())
	if s.music != nil {
		conlog.Printf("Background file: %s\n", s.music.Name())
	} else {
		conlog.Printf("No background file.\n")
	}
	conlog.Printf("----------------------\n")
}

// getSoundTime derives the sample time the device is playing from its
// ring position.
func (s *SndSys) getSoundTime() {
	fullSamples := int64(s.dma.Samples / s.dma.Channels)
	pos := s.dev.Pos()
	if pos < s.oldSamplePos {
		s.buffers++
	}
	s.oldSamplePos = pos
	s.soundTime = s.buffers*fullSamples + int64(pos/s.dma.Channels)
	if s.paintedTime < s.soundTime {
		conlog.DPrintf("S_Update_ : overflow\n")
		s.paintedTime = s.soundTime
	}
}

func (s *SndSys) update() {
	if s.muted {
		return
	}
	if cvars.SoundShow.Int() == 2 {
		total := 0
		for i := range s.channels {
			ch := &s.channels[i]
			if ch.sfx != nil && ch.leftVol|ch.rightVol != 0 {
				total++
				conlog.Printf("%d %d %s\n", ch.leftVol, ch.rightVol, ch.sfx.name)
			}
		}
		conlog.Printf("----(%d)---- painted: %d\n", total, s.paintedTime)
	}
	s.getSoundTime()
	s.updateBackgroundTrack()
	s.mix()
}

// mix paints from the last painted sample up to the mix ahead point and
// submits it.
func (s *SndSys) mix() {
	now := s.now()
	s.addLoopSounds()
	s.scanChannelStarts()

	speed := float64(s.dma.Speed)
	sane := max(now-s.lastUpdate, 11)
	ma := int64(cvars.SoundMixAhead.Value() * float32(speed))
	op := int64(float64(cvars.SoundMixPreStep.Value()) + float64(sane)*speed*0.01)
	if op < ma {
		ma = op
	}
	endTime := s.soundTime + ma
	c := int64(s.dma.SubmissionChunk)
	endTime = (endTime + c - 1) &^ (c - 1)
	if samps := int64(s.dma.Samples >> (s.dma.Channels - 1)); endTime-s.soundTime > samps {
		endTime = s.soundTime + samps
	}

	s.dev.BeginPainting()
	from := s.paintedTime
	s.paint(endTime)
	s.dev.Submit(from, s.paintedTime)
	s.lastUpdate = now
}

func (s *SndSys) startBackgroundTrack(intro, loop string) {
	s.stopBackgroundTrack()
	if intro == "" {
		return
	}
	t, err := music.Open(music.Loader(s.load), intro, loop, s.dma.Speed)
	if err != nil {
		conlog.Printf("WARNING: couldn't open music file %s: %v\n", intro, err)
		return
	}
	s.music = t
	s.raw.streamEnd[0] = s.soundTime
}

func (s *SndSys) stopBackgroundTrack() {
	if s.music == nil {
		return
	}
	if err := s.music.Close(); err != nil {
		log.Printf("music close: %v", err)
	}
	s.music = nil
	s.raw.streamEnd[0] = 0
}

// updateBackgroundTrack keeps the music stream filled ahead of the play
// cursor.
func (s *SndSys) updateBackgroundTrack() {
	if s.music == nil {
		return
	}
	vol := cvars.MusicVolume.Value()
	if vol <= 0 {
		return
	}
	for s.music != nil && s.raw.streamEnd[0] < s.soundTime+musicAhead {
		n, err := s.music.Read(s.musicBuf)
		if err != nil || n == 0 {
			conlog.Printf("music stopped: %v\n", err)
			s.stopBackgroundTrack()
			return
		}
		s.rawSamples(0, n/4, s.dma.Speed, 2, 2, s.musicBuf[:n], vol, -1)
	}
}

func (s *SndSys) clearSoundBuffer() {
	s.clearChannels()
	for i := range s.loops {
		if s.loops[i].active {
			s.stopLoop(i)
		}
	}
	s.numLoopSlots = 0
	clear(s.talk[:])
	s.raw.clear()
	s.dma.Clear()
}

func (s *SndSys) stopAllSounds() {
	s.stopBackgroundTrack()
	s.clearSoundBuffer()
}

func (s *SndSys) soundDuration(h Handle) int {
	sf := s.store.resolve(h)
	if sf == nil {
		return 0
	}
	return sf.duration
}

func (s *SndSys) soundLength(h Handle) int {
	sf := s.store.resolve(h)
	if sf == nil {
		return 0
	}
	return int(int64(sf.length) * 1000 / int64(s.dma.Speed))
}

func (s *SndSys) shutdown() {
	s.stopAllSounds()
	s.dev.Shutdown()
	s.store.freeAll()
	if current == s {
		current = nil
	}
}

// The API

// BeginRegistration starts a new level's registration and unmutes.
func (s *SndSys) BeginRegistration() {
	if s == nil {
		return
	}
	s.muted = false
	if err := s.store.beginRegistration(); err != nil {
		log.Println(err)
	}
}

// RegisterSound returns the handle for name. Loading is deferred until the
// sound is first played. Compressed sounds use the s_compression method.
func (s *SndSys) RegisterSound(name string, compressed bool) Handle {
	if s == nil {
		return DefaultHandle
	}
	return s.store.register(name, compressed)
}

// StartSound plays h on entity. A nil origin follows the entity.
func (s *SndSys) StartSound(origin *vec.Vec3, entity, subChannel int, h Handle) {
	if s == nil || s.muted {
		return
	}
	s.startSound(origin, entity, subChannel, h, startImmediate, masterVolume)
}

// StartSoundAt schedules h to start at an absolute sample time.
func (s *SndSys) StartSoundAt(origin *vec.Vec3, entity, subChannel int, h Handle, startSample int64) {
	if s == nil || s.muted {
		return
	}
	s.startSound(origin, entity, subChannel, h, startSample, masterVolume)
}

func (s *SndSys) StartLocalSound(h Handle, subChannel int) {
	if s == nil || s.muted {
		return
	}
	s.startSound(nil, s.listener.Entity, subChannel, h, startImmediate, masterVolume)
}

func (s *SndSys) StopSound(entity, subChannel int) {
	if s == nil {
		return
	}
	s.stopSound(entity, subChannel)
}

// AddLoopingSound registers a loop for this frame. It stops unless added
// again after the next ClearLoopingSounds.
func (s *SndSys) AddLoopingSound(entity int, origin, velocity vec.Vec3, h Handle) {
	if s == nil || s.muted {
		return
	}
	s.addLoop(entity, origin, velocity, h, true)
}

// AddRealLoopingSound registers a loop that plays until StopLoopingSound.
func (s *SndSys) AddRealLoopingSound(entity int, origin, velocity vec.Vec3, h Handle) {
	if s == nil || s.muted {
		return
	}
	s.addLoop(entity, origin, velocity, h, false)
}

func (s *SndSys) StopLoopingSound(entity int) {
	if s == nil {
		return
	}
	s.stopLoop(entity)
}

func (s *SndSys) ClearLoopingSounds(killAll bool) {
	if s == nil {
		return
	}
	s.clearLoops(killAll)
}

func (s *SndSys) UpdateEntityPosition(entity int, origin vec.Vec3) {
	if s == nil {
		return
	}
	s.updateEntityPosition(entity, origin)
}

func (s *SndSys) Respatialize(l Listener) {
	if s == nil {
		return
	}
	s.respatialize(l)
}

// Update mixes ahead of the device. Call it once per frame.
func (s *SndSys) Update() {
	if s == nil {
		return
	}
	s.update()
}

// RawSamples queues PCM data on a raw stream. Stream 0 is used by the
// music. width is 1 or 2 bytes, 8 bit data is unsigned.
func (s *SndSys) RawSamples(stream, samples, rate, width, channels int, data []byte, volume float32, entity int) {
	if s == nil || s.muted {
		return
	}
	s.rawSamples(stream, samples, rate, width, channels, data, volume, entity)
}

func (s *SndSys) StartBackgroundTrack(intro, loop string) {
	if s == nil {
		return
	}
	s.startBackgroundTrack(intro, loop)
}

func (s *SndSys) StopBackgroundTrack() {
	if s == nil {
		return
	}
	s.stopBackgroundTrack()
}

func (s *SndSys) StopAllSounds() {
	if s == nil {
		return
	}
	s.stopAllSounds()
}

func (s *SndSys) ClearSoundBuffer() {
	if s == nil {
		return
	}
	s.clearSoundBuffer()
}

// DisableSounds stops everything and ignores new sounds until the next
// BeginRegistration.
func (s *SndSys) DisableSounds() {
	if s == nil {
		return
	}
	s.stopAllSounds()
	s.muted = true
}

// SoundDuration is the length of the source file in milliseconds.
func (s *SndSys) SoundDuration(h Handle) int {
	if s == nil {
		return 0
	}
	return s.soundDuration(h)
}

// SoundLength is the playing time in milliseconds at the device rate.
func (s *SndSys) SoundLength(h Handle) int {
	if s == nil {
		return 0
	}
	return s.soundLength(h)
}

// VoiceAmplitude is the 0-255 level of the last voice data of a client.
func (s *SndSys) VoiceAmplitude(entity int) int {
	if s == nil || entity < 0 || entity >= MaxClients {
		return 0
	}
	return int(s.talk[entity])
}

// CurrentSoundTime is the first sample time StartSoundAt can still place
// without cutting the start.
func (s *SndSys) CurrentSoundTime() int64 {
	if s == nil {
		return 0
	}
	return s.paintedTime
}

// Playing reports whether any channel, loop or music is active.
func (s *SndSys) Playing() bool {
	if s == nil {
		return false
	}
	return s.activeChannels() > 0 || s.activeLoops() > 0 || s.music != nil
}

// gets called when window looses focus
func (s *SndSys) Block() {
	if s == nil {
		return
	}
	s.dev.Block()
}

// gets called when window gains focus
func (s *SndSys) Unblock() {
	if s == nil {
		return
	}
	s.dev.Unblock()
}

func (s *SndSys) Shutdown() {
	if s == nil {
		return
	}
	s.shutdown()
}
