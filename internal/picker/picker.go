// Package picker lists candidate files for the scan card and resolves paths
// dropped onto the terminal.
package picker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxDepth bounds how far below the root Discover descends.
	DefaultMaxDepth = 3
	// DefaultLimit bounds how many files Discover returns.
	DefaultLimit = 200
)

// skipDirs are directories never worth offering.
//
//nolint:gochecknoglobals // immutable lookup table used across the package.
var skipDirs = []string{
	"node_modules",
	"dist",
	"build",
	"target",
	"__pycache__",
	"vendor",
}

var errLimitReached = errors.New("file limit reached")

// Entry is a discovered file.
type Entry struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Options bounds a discovery walk. Zero values select the defaults.
type Options struct {
	MaxDepth int
	Limit    int
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Discover walks root and returns regular, non-hidden files sorted by path.
func Discover(ctx context.Context, root string, opts Options) ([]Entry, error) {
	opts = opts.withDefaults()
	root, err := ExpandPath(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		entries []Entry
	)
	conf := fastwalk.DefaultConfig
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries.
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if isHidden(name) || isSkippedDir(name) || depth(root, path) >= opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if isHidden(name) || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		if len(entries) >= opts.Limit {
			return errLimitReached
		}
		entries = append(entries, Entry{
			Path:    path,
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	logrus.Debugf("Discovered %d files under %s", len(entries), root)
	return entries, nil
}

// Resolve interprets text pasted or dropped onto the terminal as a file path.
// It returns the cleaned path when it names an existing regular file.
func Resolve(text string) (string, bool) {
	p := strings.TrimSpace(text)
	p = strings.Trim(p, `"'`)
	p = strings.TrimPrefix(p, "file://")
	if p == "" || strings.ContainsAny(p, "\n\r") {
		return "", false
	}
	// Terminals escape spaces in dropped paths.
	p = strings.ReplaceAll(p, `\ `, " ")

	expanded, err := ExpandPath(p)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(expanded)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return expanded, true
}

// ExpandPath expands a leading tilde and environment variables.
func ExpandPath(path string) (string, error) {
	var err error
	if runtime.GOOS != "windows" {
		path, err = expandTilde(path)
		if err != nil {
			return "", err
		}
	}
	path = os.ExpandEnv(path)
	return filepath.Clean(path), nil
}

func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isSkippedDir(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
