// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "EXIFSCOPE"

	ProviderNominatim = "nominatim"
	ProviderOpenCage  = "opencage"

	minProgressWidth = 5
	maxProgressWidth = 200
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"8"`

	// Zero values are replaced by the defaults, use Disable to turn the animation off.
	Animation struct {
		CharDelay  time.Duration `fig:"char_delay" default:"25ms"`
		FieldPause time.Duration `fig:"field_pause" default:"150ms"`
		StepPause  time.Duration `fig:"step_pause" default:"500ms"`
		Disable    bool          `fig:"disable"`
	} `fig:"animation"`

	Geocoder struct {
		// Allowed values: nominatim, opencage
		Provider     string        `fig:"provider" default:"nominatim"`
		Disable      bool          `fig:"disable"`
		Endpoint     string        `fig:"endpoint"`
		APIKey       string        `fig:"apikey"`
		Timeout      time.Duration `fig:"timeout" default:"10s"`
		RateLimit    time.Duration `fig:"rate_limit" default:"1s"`
		CacheHitTTL  time.Duration `fig:"cache_hit_ttl" default:"1h"`
		CacheMissTTL time.Duration `fig:"cache_miss_ttl" default:"10m"`
		// Defaults to exifscope/geocode-cache.json in the user cache directory
		CacheFile     string `fig:"cache_file"`
		CacheInMemory bool   `fig:"cache_in_memory"`
	} `fig:"geocoder"`

	Templates struct {
		// Renders the report instead of the animated output when set
		Report string `fig:"report"`
	} `fig:"templates"`

	Display struct {
		// Allowed values: 5 to 200
		ProgressWidth int `fig:"progress_width" default:"30"`
	} `fig:"display"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	durations := map[string]time.Duration{
		"animation.char_delay":    c.Animation.CharDelay,
		"animation.field_pause":   c.Animation.FieldPause,
		"animation.step_pause":    c.Animation.StepPause,
		"geocoder.timeout":        c.Geocoder.Timeout,
		"geocoder.rate_limit":     c.Geocoder.RateLimit,
		"geocoder.cache_hit_ttl":  c.Geocoder.CacheHitTTL,
		"geocoder.cache_miss_ttl": c.Geocoder.CacheMissTTL,
	}
	for key, value := range durations {
		if value < 0 {
			return fmt.Errorf("invalid %s: %s must not be negative", key, value)
		}
	}

	c.Geocoder.Provider = strings.ToLower(c.Geocoder.Provider)
	switch c.Geocoder.Provider {
	case ProviderNominatim:
	case ProviderOpenCage:
		if c.Geocoder.APIKey == "" && !c.Geocoder.Disable {
			return fmt.Errorf("geocoder provider %s requires an API key", c.Geocoder.Provider)
		}
	default:
		return fmt.Errorf("invalid geocoder provider: %s", c.Geocoder.Provider)
	}

	if c.Display.ProgressWidth < minProgressWidth || c.Display.ProgressWidth > maxProgressWidth {
		return fmt.Errorf("invalid progress width: %d", c.Display.ProgressWidth)
	}

	return nil
}

// GeocodeCacheFile returns the path the geocoder cache is kept in between runs. An empty
// path means the cache is kept in memory only.
func (c *Config) GeocodeCacheFile() (string, error) {
	if c.Geocoder.CacheInMemory {
		return "", nil
	}
	if c.Geocoder.CacheFile != "" {
		return c.Geocoder.CacheFile, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user cache directory: %w", err)
	}
	return filepath.Join(dir, "exifscope", "geocode-cache.json"), nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
