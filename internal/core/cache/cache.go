// Package cache implements the persistent map from Uri to CacheValue:
// a concurrent in-memory store with CSV load/persist and age-based
// eviction at load time
package cache

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"ricochet/internal/core/status"
	perr "ricochet/internal/platform/errors"
)

// Cache is the concurrent Uri -> CacheValue map shared across all
// workers. The runner is its sole owner; file:// URIs are never stored
// in it (the caller is responsible for not calling Store on them).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]status.CacheValue
}

// New returns an empty Cache
func New() *Cache {
	return &Cache{entries: make(map[string]status.CacheValue)}
}

// Get returns the cached value for a canonical URI string, if present
func (c *Cache) Get(key string) (status.CacheValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Store records a completed check's cacheable outcome under its
// canonical URI string. Write-wins: a later Store for the same key
// replaces the prior entry unconditionally.
func (c *Cache) Store(key string, v status.CacheValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Len reports the number of entries currently held
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Load reads a cache file written by Persist, discarding any row whose
// timestamp is at least maxAge old relative to now. A missing file is
// not an error: a fresh run simply starts with an empty cache.
func Load(path string, maxAge time.Duration, now time.Time) (*Cache, error) {
	c := New()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open cache file %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.ReuseRecord = true

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeIO, "read cache file %q", path)
		}
		key, label, tsField := rec[0], rec[1], rec[2]
		ts, err := strconv.ParseInt(tsField, 10, 64)
		if err != nil {
			continue // corrupt row, skip rather than fail the whole load
		}
		if maxAge > 0 && now.Sub(time.Unix(ts, 0).UTC()) >= maxAge {
			continue
		}
		v, err := status.Unmarshal(label, ts)
		if err != nil {
			continue
		}
		c.entries[key] = v
	}
	return c, nil
}

// Persist writes every entry as one CSV row (key, status label, unix
// timestamp), using a temp-file-then-rename so a crash mid-write never
// leaves a truncated cache file behind.
func (c *Cache) Persist(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "create cache dir %q", dir)
		}
	}

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create cache temp file %q", tmp)
	}

	w := csv.NewWriter(f)
	writeErr := func() error {
		for key, v := range c.entries {
			rec := []string{key, v.Marshal(), strconv.FormatInt(v.Timestamp.Unix(), 10)}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}()

	if writeErr != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return perr.Wrapf(writeErr, perr.ErrorCodeIO, "write cache file %q", tmp)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeIO, "close cache temp file %q", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "rename cache temp file to %q", path)
	}
	return nil
}
