// Package artifact turns successful build cache entries into distributable
// archives: one zstd-compressed tarball plus a SHA-256 checksum sidecar per
// selected entry.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/perigean/shellwright/src/cache"
)

// Artifact is one packaged cache entry.
type Artifact struct {
	Name         string // cache entry name
	ArchivePath  string // <out>/<name>.tar.zst
	ChecksumPath string // <out>/<name>.tar.zst.sha256
	Digest       string // hex SHA-256 of the archive bytes
	Size         int64  // archive size in bytes
}

// Packager packages selected cache entries. It reads the cache but never
// mutates it. Entries whose build recorded a failure marker are skipped,
// and if the guard marker for the whole run is present no work happens.
type Packager struct {
	Cache       *cache.Cache
	OutDir      string
	Predicate   *Predicate
	Level       int // zstd level, 1..22
	Concurrency int // parallel entries; 0 means serial
	Log         *slog.Logger
}

// DefaultLevel is a high-ratio zstd level suited to large binaries where
// compression happens once and downloads happen often.
const DefaultLevel = 17

// Package enumerates the cache, filters entries through the predicate, and
// produces an archive/checksum pair per entry in OutDir.
//
// guardName names the pipeline run whose failure marker gates all
// packaging; pass "" to skip the run-level guard. A present guard marker is
// not an error: the packager performs zero writes and returns nil.
func (p *Packager) Package(ctx context.Context, guardName string) ([]Artifact, error) {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}

	if guardName != "" && p.Cache.MarkerPresent(guardName) {
		log.Info("failure marker present, skipping packaging", "name", guardName)
		return nil, nil
	}

	entries, err := p.Cache.Entries()
	if err != nil {
		return nil, err
	}

	var selected []string
	for _, name := range entries {
		if !p.Predicate.Matches(name) {
			continue
		}
		if p.Cache.MarkerPresent(name) {
			log.Info("entry has failure marker, not packaging", "name", name)
			continue
		}
		selected = append(selected, name)
	}
	if len(selected) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(p.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", p.OutDir, err)
	}

	workers := int64(p.Concurrency)
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(workers)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		artifacts = make([]Artifact, len(selected))
		firstErr  error
	)

	for i, name := range selected {
		if err := sem.Acquire(ctx, 1); err != nil {
			// In-flight workers must finish before we return, or they
			// would keep writing into artifacts behind our back.
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer sem.Release(1)

			a, perr := p.packageOne(name)
			mu.Lock()
			defer mu.Unlock()
			if perr != nil {
				if firstErr == nil {
					firstErr = perr
				}
				return
			}
			artifacts[i] = *a
		}(i, name)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	log.Info("packaging complete", "artifacts", len(artifacts), "out_dir", p.OutDir)
	return artifacts, nil
}

// packageOne archives a single entry and writes its checksum sidecar.
func (p *Packager) packageOne(name string) (*Artifact, error) {
	src := p.Cache.EntryDir(name)
	archivePath := filepath.Join(p.OutDir, name+".tar.zst")

	level := p.Level
	if level <= 0 {
		level = DefaultLevel
	}
	if err := writeTarZst(src, archivePath, level, 0); err != nil {
		return nil, err
	}

	digest, size, err := hashFile(archivePath)
	if err != nil {
		return nil, err
	}

	checksumPath := archivePath + ".sha256"
	// sha256sum-compatible sidecar: "<hex>  <filename>"
	line := fmt.Sprintf("%s  %s\n", digest, filepath.Base(archivePath))
	if err := os.WriteFile(checksumPath, []byte(line), 0o644); err != nil {
		return nil, fmt.Errorf("writing checksum for %s: %w", name, err)
	}

	return &Artifact{
		Name:         name,
		ArchivePath:  archivePath,
		ChecksumPath: checksumPath,
		Digest:       digest,
		Size:         size,
	}, nil
}

// hashFile returns the hex SHA-256 digest and size of a file.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
