// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"strings"

	"gosnd/cmd"
	"gosnd/conlog"
	"gosnd/cvar"
	"gosnd/cvars"
	"gosnd/math"
)

func init() {
	cmd.Must(cmd.AddCommand("play", playCmd))
	cmd.Must(cmd.AddCommand("playvol", playVolCmd))
	cmd.Must(cmd.AddCommand("music", musicCmd))
	cmd.Must(cmd.AddCommand("stopmusic", stopMusicCmd))
	cmd.Must(cmd.AddCommand("stopsound", stopSoundCmd))
	cmd.Must(cmd.AddCommand("soundlist", soundListCmd))
	cmd.Must(cmd.AddCommand("soundinfo", soundInfoCmd))

	cvars.SoundVolume.SetCallback(onVolumeChange)
	cvars.MusicVolume.SetCallback(onVolumeChange)
}

func onVolumeChange(cv *cvar.Cvar) {
	v := cv.Value()
	if v > 1 {
		cv.SetByString("1")
		// recursion so exit early
		return
	}
	if v < 0 {
		cv.SetByString("0")
		// recursion so exit early
		return
	}
}

func soundName(n string) string {
	if !strings.Contains(n, ".") {
		return n + ".wav"
	}
	return n
}

func playCmd(args cmd.Arguments) error {
	s := current
	if s == nil {
		return nil
	}
	for _, a := range args.Args()[1:] {
		h := s.RegisterSound(soundName(a.String()), false)
		s.StartLocalSound(h, ChanLocalSound)
	}
	return nil
}

// playvol takes pairs of sound and volume.
func playVolCmd(args cmd.Arguments) error {
	s := current
	if s == nil || s.muted {
		return nil
	}
	a := args.Args()[1:]
	for i := 0; i+1 < len(a); i += 2 {
		h := s.RegisterSound(soundName(a[i].String()), false)
		vol := math.Clamp(0, int(a[i+1].Float32()*masterVolume), 255)
		s.startSound(nil, s.listener.Entity, ChanLocalSound, h, startImmediate, vol)
	}
	return nil
}

func musicCmd(args cmd.Arguments) error {
	switch len(args.Args()) {
	case 2:
		current.StartBackgroundTrack(args.Argv(1).String(), args.Argv(1).String())
	case 3:
		current.StartBackgroundTrack(args.Argv(1).String(), args.Argv(2).String())
	default:
		conlog.Printf("music <musicfile> [loopfile]\n")
	}
	return nil
}

func stopMusicCmd(_ cmd.Arguments) error {
	current.StopBackgroundTrack()
	return nil
}

func stopSoundCmd(_ cmd.Arguments) error {
	current.StopAllSounds()
	return nil
}

func soundListCmd(_ cmd.Arguments) error {
	if current == nil {
		return nil
	}
	current.store.list()
	return nil
}

func soundInfoCmd(_ cmd.Arguments) error {
	if current == nil {
		conlog.Printf("sound system not started\n")
		return nil
	}
	current.soundInfo()
	return nil
}
