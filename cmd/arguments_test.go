// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import "testing"

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in     string
		wantF  string
		wantAS string
		wantA  []QArg
	}{
		{
			in:     `play sound/world/buzz.wav`,
			wantF:  `play sound/world/buzz.wav`,
			wantAS: `sound/world/buzz.wav`,
			wantA:  []QArg{{"play"}, {"sound/world/buzz.wav"}},
		},
		{
			in:     `music "music/intro one.ogg"`,
			wantF:  `music "music/intro one.ogg"`,
			wantAS: `music/intro one.ogg`,
			wantA:  []QArg{{"music"}, {"music/intro one.ogg"}},
		},
		{
			in:     ` playvol  a.wav 0.5 // comment`,
			wantF:  `playvol  a.wav 0.5 // comment`,
			wantAS: `a.wav 0.5 // comment`,
			wantA:  []QArg{{"playvol"}, {"a.wav"}, {"0.5"}},
		},
		{
			in:    `s_volume`,
			wantF: `s_volume`,
			wantA: []QArg{{"s_volume"}},
		},
	} {
		arg := Parse(tc.in)
		if tc.wantF != arg.Full() {
			t.Errorf("Parse(%q).Full()=%q, want %q", tc.in, arg.Full(), tc.wantF)
		}
		if tc.wantAS != arg.ArgumentString() {
			t.Errorf("Parse(%q).ArgumentString()=%q, want %q", tc.in, arg.ArgumentString(), tc.wantAS)
		}
		as := arg.Args()
		if len(tc.wantA) != len(as) {
			t.Fatalf("Parse(%q).Args() has len(%d), want %d", tc.in, len(as), len(tc.wantA))
		}
		for i := range tc.wantA {
			if tc.wantA[i] != as[i] {
				t.Errorf("Arg[%d]=%q, want %q", i, as[i], tc.wantA[i])
			}
		}
	}
}

func TestQArg(t *testing.T) {
	if got := (QArg{"12"}).Int(); got != 12 {
		t.Errorf("Int() = %v want 12", got)
	}
	if got := (QArg{"0.25"}).Float32(); got != 0.25 {
		t.Errorf("Float32() = %v want 0.25", got)
	}
	if !(QArg{"on"}).Bool() || (QArg{"0"}).Bool() {
		t.Errorf("Bool() is wrong")
	}
}

func TestCommands(t *testing.T) {
	c := New()
	called := 0
	if err := c.Add("Play", func(a Arguments) error {
		called++
		return nil
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Add("play", nil); err == nil {
		t.Errorf("Add accepted a duplicate")
	}
	ok, err := c.Execute(Parse("PLAY foo"))
	if !ok || err != nil || called != 1 {
		t.Errorf("Execute = %v, %v, called %d", ok, err, called)
	}
	if ok, _ := c.Execute(Parse("unknown")); ok {
		t.Errorf("Execute found an unknown command")
	}
}
