// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"fmt"
	"testing"
)

func TestPrintf(t *testing.T) {
	var got string
	SetPrintf(func(f string, v ...interface{}) {
		got = fmt.Sprintf(f, v...)
	})
	defer SetPrintf(nil)
	Printf("freeing sound %s", "a.wav")
	if got != "freeing sound a.wav" {
		t.Errorf("Printf wrote %q", got)
	}
}

func TestDPrintfWithoutPrinter(t *testing.T) {
	SetDPrintf(nil)
	// must not panic
	DPrintf("dropped %d", 1)
	var n int
	SetDPrintf(func(string, ...interface{}) { n++ })
	defer SetDPrintf(nil)
	DPrintf("kept")
	if n != 1 {
		t.Errorf("DPrintf calls = %d want 1", n)
	}
}
