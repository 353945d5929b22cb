// Package artifact stores captured schedule pages, one HTML file per group.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the extension of every artifact file.
const Ext = ".html"

// ErrEmpty is returned when an artifact is missing or zero bytes after a write.
var ErrEmpty = errors.New("artifact is empty after write")

var hostile = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "",
	"/", "", `\`, "", "|", "", "?", "", "*", "",
)

// Sanitize strips characters that are unsafe in file names.
func Sanitize(name string) string {
	name = strings.TrimSpace(hostile.Replace(name))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

// Path returns where the artifact of group lives under dir.
func Path(dir, group string) string {
	return filepath.Join(dir, Sanitize(group)+Ext)
}

// Write stores markup for group under dir and confirms the file landed by
// re-reading its size. It returns the artifact path and the size written.
func Write(dir, group, markup string) (string, int64, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := Path(dir, group)
	if err := os.WriteFile(path, []byte(markup), 0644); err != nil {
		return path, 0, fmt.Errorf("failed to write artifact: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return path, 0, fmt.Errorf("%w: %v", ErrEmpty, err)
	}
	if info.Size() == 0 {
		return path, 0, ErrEmpty
	}
	return path, info.Size(), nil
}

// List returns every artifact under dir in lexical order.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// GroupKey derives the group name from an artifact path.
func GroupKey(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
