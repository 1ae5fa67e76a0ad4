// Package source locates import files in the configured drop directories.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSourceFile is returned when a drop directory holds no matching file.
var ErrNoSourceFile = errors.New("source: no matching file in directory")

// Newest returns the path of the most recently modified regular file in
// dir whose extension (case-insensitive) is one of exts. Exports land in
// the drop directory with generated names, so modification time is the
// only reliable "latest" signal.
func Newest(dir string, exts ...string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("source: read %s: %w", dir, err)
	}

	var newest string
	var newestAt time.Time
	for _, e := range entries {
		if e.IsDir() || !matchesExt(e.Name(), exts) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestAt) {
			newest = filepath.Join(dir, e.Name())
			newestAt = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: %s (%s)", ErrNoSourceFile, dir, strings.Join(exts, ", "))
	}
	return newest, nil
}

func matchesExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range exts {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
