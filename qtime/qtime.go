// SPDX-License-Identifier: GPL-2.0-or-later

package qtime

import (
	"time"
)

var (
	startTime = time.Now()
)

func QTime() time.Duration {
	return time.Since(startTime)
}

// Milliseconds since the engine started.
func Milliseconds() int64 {
	return QTime().Milliseconds()
}
