// SPDX-License-Identifier: GPL-2.0-or-later

package qtime

import "testing"

func TestMonotonic(t *testing.T) {
	a := QTime()
	b := QTime()
	if b < a {
		t.Errorf("QTime went backwards: %v < %v", b, a)
	}
	if Milliseconds() < 0 {
		t.Errorf("Milliseconds() < 0")
	}
}
