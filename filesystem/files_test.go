// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFilesystemOrder(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "baseq3", "sound", "a.wav"), "base a")
	writeFile(t, filepath.Join(base, "baseq3", "sound", "b.wav"), "base b")
	writeFile(t, filepath.Join(base, "mod", "sound", "a.wav"), "mod a")

	UseBaseDir(base)
	UseGameDir("mod")

	for _, tc := range []struct {
		name string
		want string
	}{
		{"sound/a.wav", "mod a"},
		{"/sound/b.wav", "base b"},
	} {
		b, err := ReadFile(tc.name)
		if err != nil {
			t.Fatalf("ReadFile(%v): %v", tc.name, err)
		}
		if string(b) != tc.want {
			t.Errorf("ReadFile(%v) = %q want %q", tc.name, b, tc.want)
		}
	}
	if got := GameDir(); got != filepath.Join(base, "mod") {
		t.Errorf("GameDir() = %v", got)
	}
}

func TestFilesystemMissing(t *testing.T) {
	UseBaseDir(t.TempDir())
	_, err := ReadFile("sound/none.wav")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile missing = %v want ErrNotExist", err)
	}
	if _, err := Open("../escape.wav"); err == nil {
		t.Errorf("Open accepted a path outside the search path")
	}
}

func TestExt(t *testing.T) {
	for _, tc := range []struct {
		in, ext, strip string
	}{
		{"sound/a.wav", ".wav", "sound/a"},
		{"music/x.y/track", "", "music/x.y/track"},
		{"a.b.ogg", ".ogg", "a.b"},
	} {
		if got := Ext(tc.in); got != tc.ext {
			t.Errorf("Ext(%v) = %v want %v", tc.in, got, tc.ext)
		}
		if got := StripExt(tc.in); got != tc.strip {
			t.Errorf("StripExt(%v) = %v want %v", tc.in, got, tc.strip)
		}
	}
}
