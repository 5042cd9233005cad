// SPDX-License-Identifier: GPL-2.0-or-later

// Package host runs the sound player: it reads the configuration, starts
// the sound system and feeds it console commands once per frame.
package host

import (
	"io"
	"log"
	"time"

	"github.com/gopxl/mainthread/v2"

	"gosnd/alias"
	"gosnd/cbuf"
	"gosnd/cmd"
	cmdl "gosnd/commandline"
	"gosnd/config"
	"gosnd/conlog"
	"gosnd/cvar"
	"gosnd/cvars"
	"gosnd/filesystem"
	"gosnd/gametime"
	"gosnd/math/vec"
	"gosnd/snd"
	"gosnd/snd/dma"
)

const version = "0.3.0"

type Host struct {
	snd      *snd.SndSys
	memory   *dma.Memory
	cb       cbuf.CommandBuffer
	cmds     *cmd.Commands
	aliases  *alias.Aliases
	console  *consoleReader
	time     gametime.GameTime
	listener snd.Listener
	speed    int
	frames   int
	quit     bool
	// runs f on the main thread
	call func(f func())
}

// New creates a host without sound. Start attaches the sound system.
func New() *Host {
	h := &Host{
		cmds:    cmd.New(),
		aliases: alias.New(),
		call:    func(f func()) { f() },
	}
	cmd.Must(h.aliases.Register(h.cmds))
	h.addCommands()
	h.cb.SetCommandExecutors([]cbuf.Efunc{
		cbuf.Wrap(h.cmds.Execute),
		cbuf.Wrap(cmd.Execute),
		h.aliases.Execute(),
		cbuf.Wrap(cvar.Execute),
	})
	return h
}

// SetListener places the listener at origin looking along angles
// (pitch, yaw, roll in degrees).
func (h *Host) SetListener(entity int, origin, angles vec.Vec3) {
	f, r, u := vec.AngleVectors(angles)
	h.listener = snd.Listener{
		Entity:  entity,
		Origin:  origin,
		Forward: f,
		Right:   r,
		Up:      u,
	}
}

// Start opens the sound device selected by s_device.
func (h *Host) Start(o snd.Options) {
	h.speed = khzToSpeed(cvars.SoundKHz.Int())
	if s := cmdl.SoundSpeed(); s > 0 {
		h.speed = s
	}
	if m := cmdl.SoundMegs(); m > 0 && o.Megs == 0 {
		o.Megs = m
	}
	dev, mem := newDevice(cvars.SoundDevice.String(), h.speed)
	h.memory = mem
	h.call(func() {
		h.snd = snd.InitSoundSystem(dev, o)
	})
	h.snd.BeginRegistration()
}

// Frame runs one player frame. It returns false once the player quits.
func (h *Host) Frame() bool {
	h.getConsoleCommands()
	h.cb.Execute()
	h.call(func() {
		h.snd.Respatialize(h.listener)
		h.snd.Update()
	})
	if h.memory != nil {
		h.memory.Advance(int(h.time.FrameTime() * float64(h.speed)))
	}
	h.frames++
	h.time.FrameIncrease()
	if exit, n := cmdl.Exit(); exit {
		if n > 0 && h.frames >= n {
			h.quit = true
		}
		if n == 0 && h.cb.Empty() && !h.snd.Playing() {
			h.quit = true
		}
	}
	return !h.quit
}

func (h *Host) Shutdown() {
	h.call(func() {
		h.snd.Shutdown()
	})
}

func setupFilesystem(cfg *config.Config) {
	base := cmdl.BaseDirectory()
	if base == "" {
		base = "."
	}
	filesystem.UseBaseDir(base)
	if g := cmdl.Game(); g != "" {
		filesystem.UseGameDir(g)
	}
	for _, p := range cfg.Paths {
		filesystem.AddPath(p)
	}
}

func loadConfig() (*config.Config, error) {
	path := cmdl.ConfigFile()
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyCommandLine() {
	if d := cmdl.Device(); d != "" {
		cvar.Set("s_device", d)
	}
	if !cmdl.Sound() {
		cvar.Set("s_nosound", "1")
	}
	if cmdl.TestSound() {
		cvar.Set("s_testsound", "1")
	}
}

// Run is the player main loop. It must be called from mainthread.Run.
func Run(stdin io.Reader) error {
	if cmdl.ConsoleDebug() {
		conlog.SetDPrintf(log.Printf)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Apply()
	applyCommandLine()
	setupFilesystem(cfg)

	h := New()
	h.call = mainthread.Call
	if stdin != nil {
		h.console = newConsoleReader(stdin)
	}
	l := cfg.Listen
	h.SetListener(l.Entity, vec.Vec3{X: l.Origin[0], Y: l.Origin[1], Z: l.Origin[2]},
		vec.Vec3{X: l.Angles[0], Y: l.Angles[1], Z: l.Angles[2]})

	conlog.Printf("gosnd %s\n", version)
	h.Start(snd.Options{})
	defer h.Shutdown()

	for _, e := range cfg.Exec {
		h.cb.AddText(e + "\n")
	}
	h.stuffCmds()

	for {
		if !h.time.UpdateTime() {
			time.Sleep(h.time.Wait())
			continue
		}
		if !h.Frame() {
			return nil
		}
	}
}
