// Package cache manages the shell build cache: one directory per build
// configuration holding build outputs, plus the ".busted" failure markers
// that downstream packaging branches on.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// markerSuffix marks a cache entry whose build exhausted all attempts.
const markerSuffix = ".busted"

// Cache is a build cache rooted at BaseDir. Each entry is a directory named
// after the shell variant it holds. A pipeline run owns its entry
// exclusively for the duration of the run.
type Cache struct {
	BaseDir string
}

// DefaultBaseDir returns the conventional cache location, "shell-cache"
// under the user home directory.
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shell-cache"
	}
	return filepath.Join(home, "shell-cache")
}

// New creates the cache base directory if needed and returns a handle.
func New(baseDir string) (*Cache, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir()
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", baseDir, err)
	}
	return &Cache{BaseDir: baseDir}, nil
}

// EntryDir returns the directory path for a named entry.
func (c *Cache) EntryDir(name string) string {
	return filepath.Join(c.BaseDir, name)
}

// Ensure creates the entry directory and returns its path.
func (c *Cache) Ensure(name string) (string, error) {
	dir := c.EntryDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache entry %s: %w", name, err)
	}
	return dir, nil
}

// Clear removes the named entry entirely, including read-only files left
// behind by interrupted builds. Stale partial outputs are assumed to cause
// deterministic re-failure, so nothing is preserved.
func (c *Cache) Clear(name string) error {
	dir := c.EntryDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := makeWritable(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing cache entry %s: %w", name, err)
	}
	return nil
}

// Entries lists entry names in the cache, sorted. Failure markers and other
// hidden files are not entries.
func (c *Cache) Entries() ([]string, error) {
	dirents, err := os.ReadDir(c.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("reading cache dir: %w", err)
	}
	var names []string
	for _, de := range dirents {
		name := de.Name()
		if strings.HasSuffix(name, markerSuffix) || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// makeWritable chmods everything under root so RemoveAll cannot fail on
// read-only permissions.
func makeWritable(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return os.Chmod(path, info.Mode().Perm()|0o200)
	})
}
