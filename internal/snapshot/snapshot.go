// Package snapshot persists the merged games and player records between
// runs as a single JSON document.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/academystats/internal/model"
)

// File is a snapshot stored at a fixed path. Paths ending in ".zst" are
// zstd-compressed.
type File struct {
	path string
}

// NewFile returns a File for path. Nothing is read or created.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the snapshot location.
func (f *File) Path() string {
	return f.path
}

func (f *File) compressed() bool {
	return strings.HasSuffix(f.path, ".zst")
}

// Load reads the stored snapshot. It returns (nil, nil) when no snapshot
// has been written yet.
func (f *File) Load() (*model.Snapshot, error) {
	fh, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer fh.Close()

	var src io.Reader = fh
	if f.compressed() {
		dec, err := zstd.NewReader(fh)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	var snap model.Snapshot
	if err := json.NewDecoder(src).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", f.path, err)
	}
	snap.Normalize()
	return &snap, nil
}

// Save replaces the stored snapshot. The document is written to a
// temporary file in the same directory and renamed over the old one.
func (f *File) Save(snap *model.Snapshot) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+"-*")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := f.encode(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (f *File) encode(w io.Writer, snap *model.Snapshot) error {
	if !f.compressed() {
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		return nil
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		enc.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	return nil
}

// Remove deletes the stored snapshot. A missing file is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
