package marketdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// FileCache persists raw chain payloads keyed by (provider, underlying,
// date). Historical data is immutable, so entries for past dates never
// expire and a hit is byte-for-byte equivalent to the original fetch.
type FileCache struct {
	dir string
}

func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("NewFileCache: failed to create cache dir %s: %w", dir, err)
	}

	return &FileCache{dir: dir}, nil
}

func (c *FileCache) path(provider, underlying string, date time.Time) string {
	return filepath.Join(c.dir, provider, underlying, fmt.Sprintf("%s.json", date.Format("2006-01-02")))
}

func (c *FileCache) Get(provider, underlying string, date time.Time) (*RawChain, bool, error) {
	payload, err := os.ReadFile(c.path(provider, underlying, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("FileCache.Get: failed to read cache entry: %w", err)
	}

	var chain RawChain
	if err := json.Unmarshal(payload, &chain); err != nil {
		return nil, false, fmt.Errorf("FileCache.Get: failed to unmarshal cache entry: %w", err)
	}

	return &chain, true, nil
}

func (c *FileCache) Put(chain *RawChain) error {
	path := c.path(chain.Provider, chain.Underlying, chain.Date)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("FileCache.Put: failed to create cache dir: %w", err)
	}

	payload, err := json.Marshal(chain)
	if err != nil {
		return fmt.Errorf("FileCache.Put: failed to marshal chain: %w", err)
	}

	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("FileCache.Put: failed to write cache entry: %w", err)
	}

	log.Debugf("FileCache: cached %s/%s/%s", chain.Provider, chain.Underlying, chain.Date.Format("2006-01-02"))

	return nil
}

func (c *FileCache) Has(provider, underlying string, date time.Time) bool {
	_, err := os.Stat(c.path(provider, underlying, date))
	return err == nil
}
