// SPDX-License-Identifier: GPL-2.0-or-later

package host

import (
	"log"
	"strings"

	"gosnd/snd/dma"
	"gosnd/snd/dma/otodma"
	"gosnd/snd/dma/sdldma"
)

// khzToSpeed maps s_khz to an output rate.
func khzToSpeed(khz int) int {
	switch khz {
	case 11:
		return 11025
	case 44:
		return 44100
	case 48:
		return 48000
	}
	return 22050
}

// newDevice returns the playback backend called name. The memory device is
// returned separately as well so the host can drive its play cursor.
func newDevice(name string, speed int) (dma.Device, *dma.Memory) {
	switch strings.ToLower(name) {
	case "none":
		return nil, nil
	case "memory":
		m := &dma.Memory{Speed: speed}
		return m, m
	case "sdl":
		return sdldma.New(speed), nil
	case "oto", "":
	default:
		log.Printf("unknown sound device %q, using oto", name)
	}
	return otodma.New(speed), nil
}
