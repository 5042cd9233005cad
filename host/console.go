// SPDX-License-Identifier: GPL-2.0-or-later

package host

import (
	"bufio"
	"io"
)

type consoleReader struct {
	textChan chan string
}

func newConsoleReader(r io.Reader) *consoleReader {
	cr := &consoleReader{
		textChan: make(chan string, 1),
	}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			cr.textChan <- scanner.Text()
		}
		close(cr.textChan)
	}()
	return cr
}

// Add them exactly as if they had been typed at the console
func (h *Host) getConsoleCommands() {
	if h.console == nil {
		return
	}
	for {
		select {
		case s, ok := <-h.console.textChan:
			if !ok {
				h.console = nil
				return
			}
			h.cb.AddText(s + "\n")
		default:
			return
		}
	}
}
