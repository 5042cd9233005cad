// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"testing"

	"gosnd/cmd"
)

func TestRegister(t *testing.T) {
	cv := MustRegister("test_register", "0.5", ARCHIVE)
	if cv.Value() != 0.5 {
		t.Errorf("Value() = %v want 0.5", cv.Value())
	}
	if cv.Modified() {
		t.Errorf("new cvar is modified")
	}
	if _, err := Register("TEST_register", "1", NONE); err == nil {
		t.Errorf("Register accepted a duplicate")
	}
	cv.SetValue(2)
	if cv.String() != "2" || !cv.Modified() {
		t.Errorf("SetValue(2) = %q, modified %v", cv.String(), cv.Modified())
	}
	cv.Reset()
	if cv.String() != "0.5" {
		t.Errorf("Reset() = %q want 0.5", cv.String())
	}
}

func TestRom(t *testing.T) {
	cv := MustRegister("test_rom", "1", ROM)
	cv.SetByString("5")
	if cv.Int() != 1 {
		t.Errorf("rom cvar changed to %v", cv.Int())
	}
}

func TestCallback(t *testing.T) {
	cv := MustRegister("test_callback", "1", NONE)
	cv.SetCallback(func(c *Cvar) {
		if c.Value() > 1 {
			c.SetValue(1)
		}
	})
	cv.SetByString("3")
	if cv.Value() != 1 {
		t.Errorf("callback clamp = %v want 1", cv.Value())
	}
}

func TestExecute(t *testing.T) {
	cv := MustRegister("test_execute", "0", NONE)
	ok, err := Execute(cmd.Parse("test_execute 7"))
	if !ok || err != nil {
		t.Fatalf("Execute = %v, %v", ok, err)
	}
	if cv.Int() != 7 {
		t.Errorf("Int() = %v want 7", cv.Int())
	}
	if ok, _ := Execute(cmd.Parse("no_such_cvar 1")); ok {
		t.Errorf("Execute found unknown cvar")
	}
	if _, err := cmd.Execute(cmd.Parse("toggle test_execute")); err != nil {
		t.Fatal(err)
	}
	if cv.String() != "1" {
		t.Errorf("toggle = %q want 1", cv.String())
	}
	if _, err := cmd.Execute(cmd.Parse("cycle test_execute 1 2 3")); err != nil {
		t.Fatal(err)
	}
	if cv.String() != "2" {
		t.Errorf("cycle = %q want 2", cv.String())
	}
}

func TestSetCreates(t *testing.T) {
	Set("test_user", "abc")
	cv, ok := Get("test_user")
	if !ok || !cv.UserDefined() || cv.String() != "abc" {
		t.Errorf("Set created %v, %v", cv, ok)
	}
}
