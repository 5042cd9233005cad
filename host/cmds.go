// SPDX-License-Identifier: GPL-2.0-or-later

package host

import (
	"flag"
	"strings"

	"gosnd/cmd"
	"gosnd/conlog"
	"gosnd/filesystem"
	"gosnd/math/vec"
)

func (h *Host) addCommands() {
	cmd.Must(h.cmds.Add("echo", echo))
	cmd.Must(h.cmds.Add("cmdlist", h.printCmdList))
	cmd.Must(h.cmds.Add("stuffcmds", h.stuffCmdsCmd))
	cmd.Must(h.cmds.Add("exec", h.execFile))
	cmd.Must(h.cmds.Add("quit", h.quitCmd))
	cmd.Must(h.cmds.Add("listener", h.listenerCmd))
}

func echo(a cmd.Arguments) error {
	for _, arg := range a.Args()[1:] {
		conlog.Printf("%s ", arg)
	}
	conlog.Printf("\n")
	return nil
}

func (h *Host) allCommands() []string {
	return append(h.cmds.List(), cmd.List()...)
}

func (h *Host) printCmdList(a cmd.Arguments) error {
	part := ""
	if args := a.Args(); len(args) > 1 {
		part = args[1].String()
	}
	count := 0
	for _, c := range h.allCommands() {
		if strings.HasPrefix(c, part) {
			conlog.Printf("  %s\n", c)
			count++
		}
	}
	if part != "" {
		conlog.Printf("%v commands beginning with \"%v\"\n", count, part)
	} else {
		conlog.Printf("%v commands\n", count)
	}
	return nil
}

// Adds command line parameters as script statements
// Commands lead with a +, and continue until a - or another +
// gosnd +play hit +music intro.ogg loop.ogg
func stuffText(args []string) string {
	plus := false
	text := ""
	for _, a := range args {
		if a == "" {
			continue
		}
		switch a[0] {
		case '+':
			// we only care about what follows after the '+'
			if len(text) == 0 {
				text = a[1:]
			} else {
				text += "; " + a[1:]
			}
			plus = true
		case '-':
			plus = false
		default:
			if plus {
				text += " " + a
			}
		}
	}
	return text
}

func (h *Host) stuffCmds() {
	if t := stuffText(flag.Args()); t != "" {
		h.cb.InsertText(t)
	}
}

func (h *Host) stuffCmdsCmd(_ cmd.Arguments) error {
	h.stuffCmds()
	return nil
}

func (h *Host) execFile(a cmd.Arguments) error {
	args := a.Args()
	if len(args) != 2 {
		conlog.Printf("exec <filename> : execute a script file\n")
		return nil
	}
	b, err := filesystem.ReadFile(args[1].String())
	if err != nil {
		conlog.Printf("couldn't exec %v\n", args[1])
		return nil
	}
	conlog.Printf("execing %v\n", args[1])
	h.cb.InsertText(string(b))
	return nil
}

func (h *Host) quitCmd(_ cmd.Arguments) error {
	h.quit = true
	return nil
}

// listener x y z [pitch yaw roll]
func (h *Host) listenerCmd(a cmd.Arguments) error {
	args := a.Args()
	if len(args) != 4 && len(args) != 7 {
		o := h.listener.Origin
		conlog.Printf("listener %d at %v %v %v\n", h.listener.Entity, o.X, o.Y, o.Z)
		conlog.Printf("listener <x> <y> <z> [pitch yaw roll]\n")
		return nil
	}
	origin := vec.Vec3{X: args[1].Float32(), Y: args[2].Float32(), Z: args[3].Float32()}
	var angles vec.Vec3
	if len(args) == 7 {
		angles = vec.Vec3{X: args[4].Float32(), Y: args[5].Float32(), Z: args[6].Float32()}
	}
	h.SetListener(h.listener.Entity, origin, angles)
	return nil
}
