package dictionary

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

// cacheVersion changes whenever the entry layout does.
const cacheVersion = 1

// ErrCacheAbsent is returned by LoadCache when no cache has been built.
var ErrCacheAbsent = errors.New("Dictionaries have not been built yet. Run again with `-r`.")

// CacheError reports a cache file that exists but cannot be decoded.
type CacheError struct {
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("dictionary cache %s is corrupt: %v", e.Path, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

type cacheFile struct {
	Version int
	Entries []Entry
}

// SaveCache writes entries to path as gzip-compressed gob. The file is
// written next to path and renamed into place.
func SaveCache(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dictionary-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if err := gob.NewEncoder(zw).Encode(cacheFile{Version: cacheVersion, Entries: entries}); err != nil {
		tmp.Close()
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("compress cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("install cache: %w", err)
	}
	return nil
}

// LoadCache maps the cache file read-only and decodes every entry.
func LoadCache(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCacheAbsent
	}
	if err != nil {
		return nil, &CacheError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &CacheError{Path: path, Err: err}
	}
	if info.Size() == 0 {
		return nil, &CacheError{Path: path, Err: errors.New("empty file")}
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, &CacheError{Path: path, Err: err}
	}
	defer m.Unmap()

	zr, err := gzip.NewReader(bytes.NewReader(m))
	if err != nil {
		return nil, &CacheError{Path: path, Err: err}
	}
	defer zr.Close()

	var cf cacheFile
	if err := gob.NewDecoder(zr).Decode(&cf); err != nil {
		return nil, &CacheError{Path: path, Err: err}
	}
	if cf.Version != cacheVersion {
		return nil, &CacheError{Path: path, Err: fmt.Errorf("version %d, want %d", cf.Version, cacheVersion)}
	}
	return cf.Entries, nil
}

// Load reads the cache at path and indexes it.
func Load(path string) (*Dictionary, error) {
	entries, err := LoadCache(path)
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}
