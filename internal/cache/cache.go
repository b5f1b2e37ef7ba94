// Package cache keeps short-lived JSON copies of API lists on disk, such as
// the project list used to resolve project names.
//
// Entries are scoped by resource key, server URL and profile. The default
// TTL is 5 minutes. Set REMSFAL_NO_CACHE to disable caching.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Value    json.RawMessage `json:"value"`
}

// Store reads and writes a single cache file.
type Store[T any] struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewStore creates a Store with DefaultTTL. dir is typically DefaultDir().
func NewStore[T any](dir, key, baseURL, scope string) *Store[T] {
	return NewStoreWithTTL[T](dir, key, baseURL, scope, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL[T any](dir, key, baseURL, scope string, ttl time.Duration) *Store[T] {
	hash := sha1.Sum([]byte(baseURL + "\x00" + scope))
	filename := fmt.Sprintf("%s_%s.json", sanitizeKey(key), hex.EncodeToString(hash[:6]))
	return &Store[T]{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Path returns the cache file location.
func (s *Store[T]) Path() string {
	return s.path
}

// Get returns the cached value. It reports false on a miss: no file, an
// expired or unreadable entry, or caching disabled.
func (s *Store[T]) Get() (T, bool) {
	var zero T
	if disabled() {
		return zero, false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return zero, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return zero, false
	}
	if s.now().Sub(e.CachedAt) > s.ttl {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(e.Value, &v); err != nil {
		return zero, false
	}
	return v, true
}

// Put writes v to the cache. Errors are ignored; a failed write is a miss
// next time.
func (s *Store[T]) Put(v T) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{CachedAt: s.now(), Value: raw})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// GetOrFetch returns the cached value or calls fetch and caches its result.
func (s *Store[T]) GetOrFetch(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := s.Get(); ok {
		return v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	s.Put(v)
	return v, nil
}

// Clear removes this cache file.
func (s *Store[T]) Clear() {
	_ = os.Remove(s.path)
}

// ClearAll removes every cache file in dir. Files not named like cache
// entries are left alone.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, e.Name()))
	}
}

// DefaultDir returns "$XDG_CACHE_HOME/remsfal" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "remsfal"), nil
}

func disabled() bool {
	return os.Getenv("REMSFAL_NO_CACHE") != ""
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	return strings.NewReplacer("/", "-", "\\", "-", "_", "-").Replace(key)
}

// isCacheFilename matches "<key>_<12 hex digits>.json".
func isCacheFilename(name string) bool {
	base, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return false
	}
	key, hash, ok := strings.Cut(base, "_")
	if !ok || key == "" || len(hash) != 12 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
