package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"ktfront/internal/cst"
	"ktfront/internal/diag"
	"ktfront/internal/ir"
	"ktfront/internal/project"
)

// cacheSchemaVersion changes whenever Payload or the IR encoding changes.
const cacheSchemaVersion uint16 = 1

// Cache stores encoded lowering results on disk keyed by a digest of the
// input bytes and the options that shape the output. Safe for concurrent
// use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is one cached result.
type Payload struct {
	Schema      uint16            `msgpack:"schema"`
	Path        string            `msgpack:"path"`
	Source      string            `msgpack:"source,omitempty"`
	Output      []byte            `msgpack:"output"`
	Diagnostics []diag.Diagnostic `msgpack:"diagnostics,omitempty"`
}

// OpenCache opens the cache at dir, or at $XDG_CACHE_HOME/ktfront
// (~/.cache/ktfront) when dir is empty.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "ktfront")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Key derives the cache key of the input read from path and decoded as
// format. The path is part of the key because a document without its own
// path: is named after the file it was read from.
func Key(input []byte, path string, format cst.Format, opts Options) project.Digest {
	flags := fmt.Sprintf("schema=%d;ir=%d;path=%q;input=%s;stub=%t;validate=%t;max=%d;format=%s",
		cacheSchemaVersion, ir.EncodingVersion, path, format, opts.Stub, opts.Validate, opts.MaxDiagnostics, opts.Output)
	return project.Combine(project.HashBytes(input), []byte(flags))
}

func (c *Cache) pathFor(key project.Digest) string {
	s := key.String()
	return filepath.Join(c.dir, "lower", s[:2], s+".mp")
}

// Put writes payload atomically.
func (c *Cache) Put(key project.Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck // gone after a successful rename

	payload.Schema = cacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads the payload for key. A missing entry or one written by another
// schema is a miss, not an error.
func (c *Cache) Get(key project.Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out Payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// Clear drops every cached entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "lower"))
}
