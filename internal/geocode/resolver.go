// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"log/slog"

	"github.com/wneessen/exifscope/internal/logger"
)

// UnknownLocation is the place name returned if the coordinates could not be resolved
const UnknownLocation = "Unknown location"

// Resolver turns coordinates into a place name. It never fails: every error of the underlying
// Geocoder is logged and replaced with UnknownLocation.
type Resolver struct {
	coder  Geocoder
	logger *logger.Logger
}

// NewResolver returns a Resolver for the given Geocoder. A nil Geocoder disables lookups.
func NewResolver(coder Geocoder, log *logger.Logger) *Resolver {
	return &Resolver{coder: coder, logger: log}
}

// PlaceName performs a single reverse lookup for the coordinates and returns the display
// name of the address.
func (r *Resolver) PlaceName(ctx context.Context, lat, lon float64) string {
	if r.coder == nil {
		r.logger.Debug("reverse geocoding is disabled")
		return UnknownLocation
	}

	addr, err := r.coder.Reverse(ctx, lat, lon)
	if err != nil {
		r.logger.Warn("failed to reverse geocode coordinates", logger.Err(err),
			slog.String("geocoder", r.coder.Name()), slog.Float64("lat", lat), slog.Float64("lon", lon))
		return UnknownLocation
	}
	if addr.DisplayName == "" {
		r.logger.Warn("geocoder returned an empty place name", slog.String("geocoder", r.coder.Name()),
			slog.Float64("lat", lat), slog.Float64("lon", lon))
		return UnknownLocation
	}

	r.logger.Debug("coordinates successfully resolved", slog.String("location", addr.DisplayName),
		slog.Bool("cache_hit", addr.CacheHit))
	return addr.DisplayName
}
