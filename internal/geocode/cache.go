// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// coordPrecision is the precision used to quantize coordinates (0.0001 degrees ≈ 11 m)
const coordPrecision = 1e-4

type cacheKey struct {
	Provider string
	LatQ     int64
	LonQ     int64
}

type cacheEntry struct {
	Address Address
	Expiry  time.Time
}

// persistedEntry is the on-disk form of a cache entry
type persistedEntry struct {
	Provider string    `json:"provider"`
	LatQ     int64     `json:"lat_q"`
	LonQ     int64     `json:"lon_q"`
	Address  Address   `json:"address"`
	Expiry   time.Time `json:"expiry"`
}

// CachedGeocoder keeps the results of another Geocoder in memory. Found addresses are kept
// for ttlHit, coordinates without an address for ttlMiss. Failed lookups are not cached.
// The entries can be carried over to the next run with SaveFile and LoadFile.
type CachedGeocoder struct {
	coder   Geocoder
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu       sync.RWMutex
	cache    map[cacheKey]cacheEntry
	modified bool
}

func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	key := newKey(c.coder.Name(), lat, lon)

	c.mu.RLock()
	entry, ok := c.cache[key]
	if ok && time.Now().Before(entry.Expiry) {
		addr := entry.Address
		c.mu.RUnlock()
		addr.CacheHit = true
		if !addr.AddressFound {
			return addr, ErrNoAddress
		}
		return addr, nil
	}
	c.mu.RUnlock()

	addr, err := c.coder.Reverse(ctx, lat, lon)
	if err != nil && !errors.Is(err, ErrNoAddress) {
		return addr, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.ttlHit
	if err != nil || !addr.AddressFound {
		addr.AddressFound = false
		ttl = c.ttlMiss
	}
	c.cache[key] = cacheEntry{
		Address: addr,
		Expiry:  time.Now().Add(ttl),
	}
	c.modified = true

	return addr, err
}

// LoadFile adds the unexpired entries stored in path to the cache. Entries already present
// in memory are kept.
func (c *CachedGeocoder) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read geocoder cache file: %w", err)
	}
	var entries []persistedEntry
	if err = json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode geocoder cache file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, entry := range entries {
		if !now.Before(entry.Expiry) {
			continue
		}
		key := cacheKey{Provider: entry.Provider, LatQ: entry.LatQ, LonQ: entry.LonQ}
		if _, ok := c.cache[key]; ok {
			continue
		}
		entry.Address.CacheHit = false
		c.cache[key] = cacheEntry{Address: entry.Address, Expiry: entry.Expiry}
	}
	return nil
}

// SaveFile writes the unexpired entries to path if the cache was modified since it was
// created or last saved. Missing parent directories are created.
func (c *CachedGeocoder) SaveFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.modified {
		return nil
	}

	now := time.Now()
	entries := make([]persistedEntry, 0, len(c.cache))
	for key, entry := range c.cache {
		if !now.Before(entry.Expiry) {
			continue
		}
		entries = append(entries, persistedEntry{
			Provider: key.Provider,
			LatQ:     key.LatQ,
			LonQ:     key.LonQ,
			Address:  entry.Address,
			Expiry:   entry.Expiry,
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode geocoder cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create geocoder cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".geocode-cache-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary geocoder cache file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write geocoder cache file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close geocoder cache file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace geocoder cache file: %w", err)
	}

	c.modified = false
	return nil
}

func quantizeCoord(val float64) int64 {
	return int64(math.Round(val / coordPrecision))
}

func newKey(provider string, lat, lon float64) cacheKey {
	return cacheKey{
		Provider: provider,
		LatQ:     quantizeCoord(lat),
		LonQ:     quantizeCoord(lon),
	}
}
