package artifact

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Archives must be byte-identical across runs over an unchanged cache, so
// every header field that would vary (times, ownership) is pinned and the
// walk order is the sorted order filepath.Walk already guarantees.
var archiveEpoch = time.Unix(0, 0)

// writeTarZst archives src (a file or directory) into a zstd-compressed
// tarball at dest. Entry names inside the archive are relative to the
// parent of src, so extracting reproduces the cache entry layout.
func writeTarZst(src, dest string, level, concurrency int) (err error) {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", dest, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	opts := []zstd.EOption{
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		// Large binaries benefit from a long-range window.
		zstd.WithWindowSize(1 << 27),
	}
	if concurrency > 0 {
		opts = append(opts, zstd.WithEncoderConcurrency(concurrency))
	}
	zw, err := zstd.NewWriter(out, opts...)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	tw := tar.NewWriter(zw)
	base := filepath.Dir(src)

	walkErr := filepath.Walk(src, func(path string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		rel, rerr := filepath.Rel(base, path)
		if rerr != nil {
			return rerr
		}

		hdr, herr := tar.FileInfoHeader(info, "")
		if herr != nil {
			return herr
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		hdr.ModTime = archiveEpoch
		hdr.AccessTime = time.Time{}
		hdr.ChangeTime = time.Time{}
		hdr.Uid = 0
		hdr.Gid = 0
		hdr.Uname = ""
		hdr.Gname = ""

		if werr := tw.WriteHeader(hdr); werr != nil {
			return werr
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		f, oerr := os.Open(path)
		if oerr != nil {
			return oerr
		}
		defer f.Close()
		_, cerr := io.Copy(tw, f)
		return cerr
	})
	if walkErr != nil {
		tw.Close()
		zw.Close()
		return fmt.Errorf("archiving %s: %w", src, walkErr)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing tar: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing zstd stream: %w", err)
	}
	return nil
}
