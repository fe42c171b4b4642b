// Package cache persists small amounts of local state between rl runs:
// recently seen resource listings (so the browser can paint instantly
// before the first fetch lands) and the self-update check stamp.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketListings = "listings" // key: resource kind -> cachedListing JSON
	bucketMeta     = "meta"     // key: "update_check" -> UpdateCheck JSON
)

// For mocking in tests
var osUserCacheDir = os.UserCacheDir

// Cache is a bbolt-backed local store. Safe for use from one process at
// a time; bbolt's file lock rejects concurrent opens.
type Cache struct {
	db *bbolt.DB
}

// DefaultPath returns the on-disk database location, normally
// ~/.cache/rl/cache.db.
func DefaultPath() (string, error) {
	dir, err := osUserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rl", "cache.db"), nil
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketListings)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketMeta)); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

// OpenDefault opens the cache at its default location.
func OpenDefault() (*Cache, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

type cachedListing struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

// PutListing stores the most recent page of a resource kind.
func (c *Cache) PutListing(kind string, items any) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	data, err := json.Marshal(cachedListing{FetchedAt: time.Now(), Payload: payload})
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketListings)).Put([]byte(kind), data)
	})
}

// GetListing loads the cached page for a resource kind into out. Returns
// the fetch time, or ok=false when nothing is cached.
func (c *Cache) GetListing(kind string, out any) (fetchedAt time.Time, ok bool, err error) {
	var entry cachedListing
	err = c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(bucketListings)).Get([]byte(kind))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &entry); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	if err := json.Unmarshal(entry.Payload, out); err != nil {
		return time.Time{}, false, err
	}
	return entry.FetchedAt, true, nil
}

// UpdateCheck records when the last release check ran and what it found.
type UpdateCheck struct {
	CheckedAt     time.Time `json:"checked_at"`
	LatestVersion string    `json:"latest_version"`
}

// GetUpdateCheck returns the last recorded release check, if any.
func (c *Cache) GetUpdateCheck() (*UpdateCheck, error) {
	var check *UpdateCheck
	err := c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(bucketMeta)).Get([]byte("update_check"))
		if v == nil {
			return nil
		}
		var u UpdateCheck
		if err := json.Unmarshal(v, &u); err != nil {
			return err
		}
		check = &u
		return nil
	})
	return check, err
}

// SaveUpdateCheck persists the result of a release check.
func (c *Cache) SaveUpdateCheck(check *UpdateCheck) error {
	if check == nil {
		return errors.New("update check is required")
	}
	data, err := json.Marshal(check)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketMeta)).Put([]byte("update_check"), data)
	})
}

// ShouldCheckForUpdate reports whether the last check is older than the
// interval (or there has never been one).
func (c *Cache) ShouldCheckForUpdate(interval time.Duration) (bool, error) {
	check, err := c.GetUpdateCheck()
	if err != nil {
		return false, err
	}
	if check == nil {
		return true, nil
	}
	return time.Since(check.CheckedAt) >= interval, nil
}
