// Package network fetches JSON resources over HTTP with a file-backed
// fallback, so commands keep working on the last known data when the remote
// side is down.
package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrNotCached indicates the remote fetch failed and no cached copy exists.
var ErrNotCached = errors.New("resource is not cached")

// Cache fetches a JSON resource from URL and keeps a decoded-verified copy
// at Path. With AlwaysFetch the remote is tried first and the file only
// serves as a fallback; otherwise an existing file short-circuits the fetch.
type Cache[T any] struct {
	Path        string
	URL         string
	AlwaysFetch bool
}

// Get fills v from the freshest available source.
func (c Cache[T]) Get(v *T) error {
	if !c.AlwaysFetch {
		if err := c.readCached(v); err == nil {
			return nil
		}
	}

	data, err := c.fetch()
	if err != nil {
		if cacheErr := c.readCached(v); cacheErr == nil {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrNotCached, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse resource %s: %w", c.URL, err)
	}

	c.store(data)
	return nil
}

func (c Cache[T]) fetch() ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(c.URL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func (c Cache[T]) readCached(v *T) error {
	if c.Path == "" {
		return os.ErrNotExist
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// store writes the raw response next to future runs. Failures are ignored;
// the cache is an optimization, not a requirement.
func (c Cache[T]) store(data []byte) {
	if c.Path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return
	}
	os.WriteFile(c.Path, data, 0644)
}
