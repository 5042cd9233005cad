// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"log"
)

var (
	p  = log.Printf
	dp func(string, ...interface{})
)

// SetPrintf replaces the console printer. Passing nil restores log.Printf.
func SetPrintf(f func(string, ...interface{})) {
	if f == nil {
		f = log.Printf
	}
	p = f
}

// SetDPrintf installs the developer printer. Developer output is dropped
// while no printer is set.
func SetDPrintf(f func(string, ...interface{})) {
	dp = f
}

func Printf(format string, v ...interface{}) {
	p(format, v...)
}

// DPrintf prints developer only messages.
func DPrintf(format string, v ...interface{}) {
	if dp != nil {
		dp(format, v...)
	}
}
