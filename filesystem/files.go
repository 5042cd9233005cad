// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const defaultGame = "baseq3"

var (
	baseDir string
	gameDir string
	// searched first to last
	searchPath []string
	mutex      sync.RWMutex
)

type File interface {
	io.ReadSeekCloser
	io.ReaderAt
}

func GameDir() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return gameDir
}

func BaseDir() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return baseDir
}

// UseBaseDir resets the search path to the default game below dir.
func UseBaseDir(dir string) {
	mutex.Lock()
	defer mutex.Unlock()
	baseDir = dir
	gameDir = filepath.Join(baseDir, defaultGame)
	searchPath = []string{gameDir}
}

// UseGameDir puts a mod directory in front of the default game.
func UseGameDir(dir string) {
	mutex.Lock()
	defer mutex.Unlock()
	root := filepath.Join(baseDir, defaultGame)
	gameDir = filepath.Join(baseDir, dir)
	searchPath = []string{gameDir, root}
}

// AddPath appends an extra directory with the lowest priority.
func AddPath(dir string) {
	mutex.Lock()
	defer mutex.Unlock()
	searchPath = append(searchPath, dir)
}

func SearchPath() []string {
	mutex.RLock()
	defer mutex.RUnlock()
	return append([]string(nil), searchPath...)
}

func clean(name string) (string, error) {
	name = filepath.ToSlash(name)
	name = strings.TrimPrefix(name, "/")
	c := filepath.Clean(filepath.FromSlash(name))
	if c == "." || strings.HasPrefix(c, "..") || filepath.IsAbs(c) {
		return "", errors.Errorf("invalid path %q", name)
	}
	return c, nil
}

func Stat(name string) (os.FileInfo, error) {
	rel, err := clean(name)
	if err != nil {
		return nil, err
	}
	mutex.RLock()
	defer mutex.RUnlock()
	for _, dir := range searchPath {
		if fi, err := os.Stat(filepath.Join(dir, rel)); err == nil {
			return fi, nil
		}
	}
	return nil, errors.Wrap(os.ErrNotExist, name)
}

func Open(name string) (File, error) {
	rel, err := clean(name)
	if err != nil {
		return nil, err
	}
	mutex.RLock()
	defer mutex.RUnlock()
	for _, dir := range searchPath {
		f, err := os.Open(filepath.Join(dir, rel))
		if err == nil {
			return f, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "open %s", name)
		}
	}
	return nil, errors.Wrap(os.ErrNotExist, name)
}

func ReadFile(name string) ([]byte, error) {
	file, err := Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	b, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return b, nil
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
