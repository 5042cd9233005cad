// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"gosnd/cvar"
)

var (
	SoundVolume      *cvar.Cvar
	MusicVolume      *cvar.Cvar
	SoundDoppler     *cvar.Cvar
	SoundKHz         *cvar.Cvar
	SoundMixAhead    *cvar.Cvar
	SoundMixPreStep  *cvar.Cvar
	SoundShow        *cvar.Cvar
	SoundTestSound   *cvar.Cvar
	SoundSeparation  *cvar.Cvar
	SoundNoSound     *cvar.Cvar
	SoundDevice      *cvar.Cvar
	SoundMegs        *cvar.Cvar
	SoundCompression *cvar.Cvar
	HostMaxFps       *cvar.Cvar
)

func init() {
	SoundVolume = cvar.MustRegister("s_volume", "0.8", cvar.ARCHIVE)
	MusicVolume = cvar.MustRegister("s_musicvolume", "0.25", cvar.ARCHIVE)
	SoundDoppler = cvar.MustRegister("s_doppler", "1", cvar.ARCHIVE)
	SoundKHz = cvar.MustRegister("s_khz", "22", cvar.ARCHIVE|cvar.LATCH)
	SoundMixAhead = cvar.MustRegister("s_mixahead", "0.2", cvar.ARCHIVE)
	SoundMixPreStep = cvar.MustRegister("s_mixprestep", "0.05", cvar.ARCHIVE)
	SoundShow = cvar.MustRegister("s_show", "0", cvar.NONE)
	SoundTestSound = cvar.MustRegister("s_testsound", "0", cvar.NONE)
	SoundSeparation = cvar.MustRegister("s_separation", "1", cvar.ARCHIVE)
	SoundNoSound = cvar.MustRegister("s_nosound", "0", cvar.NONE)
	SoundDevice = cvar.MustRegister("s_device", "oto", cvar.ARCHIVE|cvar.LATCH)
	SoundMegs = cvar.MustRegister("com_soundmegs", "8", cvar.ARCHIVE|cvar.LATCH)
	// 0 none, 1 adpcm, 2 wavelet, 3 mulaw for sounds registered as compressed
	SoundCompression = cvar.MustRegister("s_compression", "1", cvar.ARCHIVE|cvar.LATCH)
	// sound updates per second of the player
	HostMaxFps = cvar.MustRegister("host_maxfps", "60", cvar.ARCHIVE)
}
