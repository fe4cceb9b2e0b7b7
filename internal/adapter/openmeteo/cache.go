package openmeteo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/sandgroper/shorecast/internal/domain"
)

// FileCache stores JSON payloads on disk with a freshness bound, so a run
// that loses the upstream API can still score from the last good snapshot
// instead of dropping the location.
type FileCache struct {
	dir string
	ttl time.Duration
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

type cacheEnvelope struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

func (c *FileCache) pathFor(key string) string {
	return filepath.Join(c.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

// Put stores a payload under key with the current timestamp.
func (c *FileCache) Put(key string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	envelope, err := json.Marshal(cacheEnvelope{Timestamp: domain.Now(), Data: raw})
	if err != nil {
		return fmt.Errorf("marshal cache envelope: %w", err)
	}
	if err := os.WriteFile(c.pathFor(key), envelope, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Get loads the payload under key into out. Returns false, nil when the
// entry is absent, unreadable, or older than the TTL. A corrupt cache entry
// is treated as a miss, not an error.
func (c *FileCache) Get(key string, out any) (bool, error) {
	raw, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read cache entry: %w", err)
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return false, nil
	}
	if envelope.Timestamp.IsZero() || domain.Now().Sub(envelope.Timestamp) > c.ttl {
		return false, nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return false, nil
	}
	return true, nil
}
