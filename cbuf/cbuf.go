// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"strings"

	"gosnd/cmd"
)

// CommandBuffer holds console text until it gets executed. Lines are split
// at newlines and at ';' outside of quotes.
type CommandBuffer struct {
	buf string
	// toogle to add a wait to Execute,
	// causing the following commands to be executed one frame later
	wait      bool
	executors executors
}

func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = e
}

// Execute runs buffered lines until the buffer is empty or a wait command
// is found.
func (c *CommandBuffer) Execute() {
	for len(c.buf) != 0 {
		i := 0
		quote := false
	LineLoop:
		for i = 0; i < len(c.buf); i++ {
			switch c.buf[i] {
			case '"':
				quote = !quote
				continue LineLoop
			case ';':
				if quote {
					continue LineLoop
				}
				break LineLoop
			case '\n':
				break LineLoop
			}
		}
		// do not put ';' or '\n' in line
		line := c.buf[:i]
		// but remove this char as well
		if i < len(c.buf) {
			i++
		}
		c.buf = c.buf[i:]
		if strings.EqualFold(strings.TrimSpace(line), "wait") {
			c.wait = true
		} else if err := c.executors.execute(c, line); err != nil {
			cmdError(line, err)
		}
		if c.wait {
			// wait for the next frame to continue executing
			c.wait = false
			return
		}
	}
}

func (c *CommandBuffer) Empty() bool {
	return len(c.buf) == 0
}

// AddText appends text at the end of the buffer.
func (c *CommandBuffer) AddText(text string) {
	c.buf = c.buf + text
}

// InsertText puts text in front of everything already buffered.
func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}

// Wrap turns a registry Execute function into an executor.
func Wrap(f func(cmd.Arguments) (bool, error)) Efunc {
	return func(_ *CommandBuffer, a cmd.Arguments) (bool, error) {
		return f(a)
	}
}
