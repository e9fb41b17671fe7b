package cache

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Entry is a cached value with the instant it was computed.
type Entry[V any] struct {
	Key      string    `json:"key"`
	StoredAt time.Time `json:"stored_at"`
	Value    V         `json:"value"`
}

// Cache memoizes pure computations by content key. Concurrent misses for the
// same key share one computation.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	group   singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache. A ttl of zero keeps entries until they are cleared.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]Entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for expiry.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.now = now
	return c
}

// Key derives a cache key from the given parts.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for key, computing and storing it on a miss.
// The boolean reports whether the value came from the cache.
func (c *Cache[V]) Get(key string, compute func() (V, error)) (V, bool, error) {
	if v, ok := c.lookup(key); ok {
		return v, true, nil
	}

	res, err, shared := c.group.Do(key, func() (any, error) {
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entries[key] = Entry[V]{Key: key, StoredAt: c.now(), Value: v}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	if shared {
		log.Debug().Str("key", short(key)).Msg("Cache computation shared")
	}
	return res.(V), false, nil
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		var zero V
		return zero, false
	}
	return e.Value, true
}

func (c *Cache[V]) expired(e Entry[V]) bool {
	return c.ttl > 0 && c.now().Sub(e.StoredAt) > c.ttl
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.entries {
		if !c.expired(e) {
			n++
		}
	}
	return n
}

// Prune removes expired entries and returns how many were dropped.
func (c *Cache[V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// Load merges entries persisted as JSON lines. A missing file is not an error.
func (c *Cache[V]) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer file.Close()

	loaded := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	c.mu.Lock()
	for scanner.Scan() {
		var e Entry[V]
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping invalid JSON line in cache")
			continue
		}
		if c.expired(e) {
			continue
		}
		c.entries[e.Key] = e
		loaded++
	}
	c.mu.Unlock()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading cache: %w", err)
	}

	log.Info().Str("path", path).Int("count", loaded).Msg("Loaded entries from cache")
	return nil
}

// Save persists live entries as JSON lines, replacing the file atomically.
func (c *Cache[V]) Save(path string) error {
	c.mu.RLock()
	entries := make([]Entry[V], 0, len(c.entries))
	for _, e := range c.entries {
		if !c.expired(e) {
			entries = append(entries, e)
		}
	}
	c.mu.RUnlock()

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, e := range entries {
		if err := encoder.Encode(e); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode cache entry: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	log.Info().Str("path", path).Int("count", len(entries)).Msg("Cache saved")
	return nil
}

func short(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
