// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"
)

const (
	testHitTTL  = 200 * time.Millisecond
	testMissTTL = 100 * time.Millisecond
)

var (
	testLat, testLon = 48.858844, 2.294351
	oceanLat         = 0.0
	failLat          = 1.0
)

var testAddress = Address{
	DisplayName: "Tour Eiffel, 5, Avenue Anatole France, Gros-Caillou, Paris, 75007, France",
	Country:     "France",
	State:       "Île-de-France",
	Postcode:    "75007",
	City:        "Paris",
	Street:      "Avenue Anatole France",
	HouseNumber: "5",
}

type mockCoder struct {
	calls atomic.Int32
}

func (c *mockCoder) Name() string { return "mock" }

func (c *mockCoder) Reverse(_ context.Context, lat, lon float64) (Address, error) {
	c.calls.Add(1)
	switch lat {
	case failLat:
		return Address{}, errors.New("lookup intentionally failed")
	case oceanLat:
		return Address{}, ErrNoAddress
	}
	addr := testAddress
	addr.AddressFound = true
	addr.Latitude = lat
	addr.Longitude = lon
	return addr, nil
}

func TestNewCachedGeocoder(t *testing.T) {
	t.Run("a new geocoder should be returned", func(t *testing.T) {
		coder := NewCachedGeocoder(&mockCoder{}, testHitTTL, testMissTTL)
		if coder == nil {
			t.Fatal("expected a non-nil geocoder")
		}
		if coder.Name() != "geocoder cache using mock" {
			t.Errorf("expected geocoder name to be 'geocoder cache using mock', got %q", coder.Name())
		}
	})
}

func TestCachedGeocoder_Reverse(t *testing.T) {
	t.Run("fetching results twice should hit the cache", func(t *testing.T) {
		mock := &mockCoder{}
		coder := NewCachedGeocoder(mock, testHitTTL, testMissTTL)
		addr, err := coder.Reverse(t.Context(), testLat, testLon)
		if err != nil {
			t.Fatal(err)
		}
		if addr.CacheHit {
			t.Fatal("expected cache miss")
		}
		if !strings.EqualFold(addr.DisplayName, testAddress.DisplayName) {
			t.Errorf("expected address to be %q, got %q", testAddress.DisplayName, addr.DisplayName)
		}
		addr, err = coder.Reverse(t.Context(), testLat, testLon)
		if err != nil {
			t.Fatal(err)
		}
		if !addr.CacheHit {
			t.Error("expected cached result")
		}
		if mock.calls.Load() != 1 {
			t.Errorf("expected geocoder to be called once, got %d", mock.calls.Load())
		}
	})
	t.Run("a very close position should hit the cache", func(t *testing.T) {
		coder := NewCachedGeocoder(&mockCoder{}, testHitTTL, testMissTTL)
		if _, err := coder.Reverse(t.Context(), testLat, testLon); err != nil {
			t.Fatal(err)
		}
		addr, err := coder.Reverse(t.Context(), testLat-0.00003, testLon+0.00003)
		if err != nil {
			t.Fatal(err)
		}
		if !addr.CacheHit {
			t.Error("expected cached result")
		}
	})
	t.Run("a distant position should not hit the cache", func(t *testing.T) {
		coder := NewCachedGeocoder(&mockCoder{}, testHitTTL, testMissTTL)
		if _, err := coder.Reverse(t.Context(), testLat, testLon); err != nil {
			t.Fatal(err)
		}
		addr, err := coder.Reverse(t.Context(), testLat+0.01, testLon)
		if err != nil {
			t.Fatal(err)
		}
		if addr.CacheHit {
			t.Error("expected cache miss")
		}
	})
	t.Run("failed lookups are not cached", func(t *testing.T) {
		mock := &mockCoder{}
		coder := NewCachedGeocoder(mock, testHitTTL, testMissTTL)
		for range 2 {
			if _, err := coder.Reverse(t.Context(), failLat, testLon); err == nil {
				t.Fatal("expected lookup to fail")
			}
		}
		if mock.calls.Load() != 2 {
			t.Errorf("expected geocoder to be called twice, got %d", mock.calls.Load())
		}
	})
	t.Run("positions without address are cached as misses", func(t *testing.T) {
		mock := &mockCoder{}
		coder := NewCachedGeocoder(mock, testHitTTL, testMissTTL)
		_, err := coder.Reverse(t.Context(), oceanLat, testLon)
		if !errors.Is(err, ErrNoAddress) {
			t.Fatalf("expected error to be %s, got %s", ErrNoAddress, err)
		}
		addr, err := coder.Reverse(t.Context(), oceanLat, testLon)
		if !errors.Is(err, ErrNoAddress) {
			t.Fatalf("expected error to be %s, got %s", ErrNoAddress, err)
		}
		if !addr.CacheHit {
			t.Error("expected cached miss")
		}
		if mock.calls.Load() != 1 {
			t.Errorf("expected geocoder to be called once, got %d", mock.calls.Load())
		}
	})
	t.Run("cache entries expire", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			mock := &mockCoder{}
			coder := NewCachedGeocoder(mock, testHitTTL, testMissTTL)
			if _, err := coder.Reverse(t.Context(), testLat, testLon); err != nil {
				t.Fatal(err)
			}
			time.Sleep(testHitTTL + time.Millisecond)
			addr, err := coder.Reverse(t.Context(), testLat, testLon)
			if err != nil {
				t.Fatal(err)
			}
			if addr.CacheHit {
				t.Error("expected expired cache entry to be refreshed")
			}
			if mock.calls.Load() != 2 {
				t.Errorf("expected geocoder to be called twice, got %d", mock.calls.Load())
			}
		})
	})
}

func TestCachedGeocoder_SaveFile(t *testing.T) {
	t.Run("saved entries are served by the next cache", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exifscope", "geocode-cache.json")
		first := NewCachedGeocoder(&mockCoder{}, time.Hour, time.Hour)
		if _, err := first.Reverse(t.Context(), testLat, testLon); err != nil {
			t.Fatal(err)
		}
		if err := first.SaveFile(path); err != nil {
			t.Fatalf("failed to save cache: %s", err)
		}

		mock := &mockCoder{}
		second := NewCachedGeocoder(mock, time.Hour, time.Hour)
		if err := second.LoadFile(path); err != nil {
			t.Fatalf("failed to load cache: %s", err)
		}
		addr, err := second.Reverse(t.Context(), testLat, testLon)
		if err != nil {
			t.Fatal(err)
		}
		if !addr.CacheHit {
			t.Error("expected cached result")
		}
		if addr.DisplayName != testAddress.DisplayName {
			t.Errorf("expected address to be %q, got %q", testAddress.DisplayName, addr.DisplayName)
		}
		if mock.calls.Load() != 0 {
			t.Errorf("expected geocoder not to be called, got %d calls", mock.calls.Load())
		}
	})
	t.Run("misses are saved as misses", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geocode-cache.json")
		first := NewCachedGeocoder(&mockCoder{}, time.Hour, time.Hour)
		if _, err := first.Reverse(t.Context(), oceanLat, testLon); !errors.Is(err, ErrNoAddress) {
			t.Fatalf("expected error to be %s, got %s", ErrNoAddress, err)
		}
		if err := first.SaveFile(path); err != nil {
			t.Fatalf("failed to save cache: %s", err)
		}

		second := NewCachedGeocoder(&mockCoder{}, time.Hour, time.Hour)
		if err := second.LoadFile(path); err != nil {
			t.Fatalf("failed to load cache: %s", err)
		}
		addr, err := second.Reverse(t.Context(), oceanLat, testLon)
		if !errors.Is(err, ErrNoAddress) {
			t.Fatalf("expected error to be %s, got %s", ErrNoAddress, err)
		}
		if !addr.CacheHit {
			t.Error("expected cached miss")
		}
	})
	t.Run("an unmodified cache is not written", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geocode-cache.json")
		coder := NewCachedGeocoder(&mockCoder{}, time.Hour, time.Hour)
		if err := coder.SaveFile(path); err != nil {
			t.Fatalf("failed to save cache: %s", err)
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected no cache file, got %v", err)
		}
	})
	t.Run("expired entries are not loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geocode-cache.json")
		synctest.Test(t, func(t *testing.T) {
			first := NewCachedGeocoder(&mockCoder{}, testHitTTL, testMissTTL)
			if _, err := first.Reverse(t.Context(), testLat, testLon); err != nil {
				t.Fatal(err)
			}
			if err := first.SaveFile(path); err != nil {
				t.Fatalf("failed to save cache: %s", err)
			}
			time.Sleep(testHitTTL + time.Millisecond)

			mock := &mockCoder{}
			second := NewCachedGeocoder(mock, testHitTTL, testMissTTL)
			if err := second.LoadFile(path); err != nil {
				t.Fatalf("failed to load cache: %s", err)
			}
			if _, err := second.Reverse(t.Context(), testLat, testLon); err != nil {
				t.Fatal(err)
			}
			if mock.calls.Load() != 1 {
				t.Errorf("expected expired entry to be looked up again, got %d calls", mock.calls.Load())
			}
		})
	})
}

func TestCachedGeocoder_LoadFile(t *testing.T) {
	t.Run("loading a missing file fails", func(t *testing.T) {
		coder := NewCachedGeocoder(&mockCoder{}, testHitTTL, testMissTTL)
		err := coder.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected error to be %s, got %v", os.ErrNotExist, err)
		}
	})
	t.Run("loading a corrupt file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geocode-cache.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatalf("failed to write test file: %s", err)
		}
		coder := NewCachedGeocoder(&mockCoder{}, testHitTTL, testMissTTL)
		if err := coder.LoadFile(path); err == nil {
			t.Error("expected loading to fail")
		}
	})
	t.Run("entries of another provider are not used", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geocode-cache.json")
		first := NewCachedGeocoder(&mockCoder{}, time.Hour, time.Hour)
		if _, err := first.Reverse(t.Context(), testLat, testLon); err != nil {
			t.Fatal(err)
		}
		if err := first.SaveFile(path); err != nil {
			t.Fatalf("failed to save cache: %s", err)
		}

		other := &namedCoder{mockCoder: &mockCoder{}, name: "other"}
		second := NewCachedGeocoder(other, time.Hour, time.Hour)
		if err := second.LoadFile(path); err != nil {
			t.Fatalf("failed to load cache: %s", err)
		}
		if _, err := second.Reverse(t.Context(), testLat, testLon); err != nil {
			t.Fatal(err)
		}
		if other.calls.Load() != 1 {
			t.Errorf("expected the other provider to be asked, got %d calls", other.calls.Load())
		}
	})
}

type namedCoder struct {
	*mockCoder
	name string
}

func (c *namedCoder) Name() string { return c.name }
