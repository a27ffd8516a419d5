// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/wneessen/exifscope/internal/config"
	"github.com/wneessen/exifscope/internal/geocode"
	"github.com/wneessen/exifscope/internal/geocode/provider/opencage"
	nominatim "github.com/wneessen/exifscope/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/exifscope/internal/http"
	"github.com/wneessen/exifscope/internal/logger"
)

// selectGeocodeProvider returns the configured geocoder wrapped in a cache, or nil if
// reverse geocoding is disabled.
func selectGeocodeProvider(conf *config.Config, log *logger.Logger, lang language.Tag) (geocode.Geocoder, error) {
	if conf.Geocoder.Disable {
		log.Debug("reverse geocoding is disabled by configuration")
		return nil, nil
	}

	var geocoder geocode.Geocoder
	switch strings.ToLower(conf.Geocoder.Provider) {
	case config.ProviderNominatim:
		geocoder = nominatim.New(http.New(log), lang, conf.Geocoder.Endpoint, conf.Geocoder.Timeout,
			conf.Geocoder.RateLimit)
	case config.ProviderOpenCage:
		if conf.Geocoder.APIKey == "" {
			return nil, fmt.Errorf("opencage geocoder requires an API key")
		}
		geocoder = opencage.New(http.New(log), lang, conf.Geocoder.APIKey, conf.Geocoder.Endpoint,
			conf.Geocoder.Timeout)
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", conf.Geocoder.Provider)
	}

	log.Debug("reverse geocoder selected", slog.String("provider", geocoder.Name()),
		slog.String("language", lang.String()))
	return geocode.NewCachedGeocoder(geocoder, conf.Geocoder.CacheHitTTL, conf.Geocoder.CacheMissTTL), nil
}
