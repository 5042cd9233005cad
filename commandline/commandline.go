// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	noSound   bool
	conDebug  bool
	testSound bool

	exit = boolInt{false, 0}

	sndSpeed int
	sndMegs  int

	basedir    string
	game       string
	configFile string
	device     string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	flag.BoolVar(&conDebug, "condebug", false, "print developer messages")
	flag.BoolVar(&noSound, "nosound", false, "Disable sound output")
	flag.BoolVar(&testSound, "testsound", false, "play a sine wave instead of the mix")

	flag.Var(&exit, "exit", "exit once nothing is playing, or after the given number of frames")

	flag.IntVar(&sndSpeed, "sndspeed", 0, "output rate in Hz, 0 uses s_khz")
	flag.IntVar(&sndMegs, "sndmegs", 0, "sound memory units, 0 uses com_soundmegs")

	flag.StringVar(&basedir, "basedir", "", "directory containing the game directories")
	flag.StringVar(&game, "game", "", "game directory searched before baseq3")
	flag.StringVar(&configFile, "config", "", "yaml configuration file")
	flag.StringVar(&device, "device", "", "playback backend: oto, sdl, memory or none")
}

func BaseDirectory() string {
	return basedir
}

func Game() string {
	return game
}

func ConfigFile() string {
	return configFile
}

func Device() string {
	return device
}

func SoundSpeed() int {
	return sndSpeed
}

func SoundMegs() int {
	return sndMegs
}

func ConsoleDebug() bool {
	return conDebug
}

func TestSound() bool {
	return testSound
}

func Sound() bool {
	return !noSound
}

// Exit reports whether the player should quit on its own and after how many
// frames. A frame count of 0 means quit once everything stopped playing.
func Exit() (bool, int) {
	return exit.set, exit.num
}
