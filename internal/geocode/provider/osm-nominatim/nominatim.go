// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/wneessen/exifscope/internal/geocode"
	"github.com/wneessen/exifscope/internal/http"
	"github.com/wneessen/exifscope/internal/logger"
)

const (
	APIReverseEndpoint = "https://nominatim.openstreetmap.org/reverse"
	APITimeout         = time.Second * 10
	name               = "osm-nominatim"
)

// Nominatim resolves coordinates using the OpenStreetMap Nominatim API. Requests are
// throttled to honor the usage policy of the public instance.
type Nominatim struct {
	endpoint string
	http     *http.Client
	lang     language.Tag
	limiter  *rate.Limiter
	logger   *logger.Logger
	timeout  time.Duration
}

type ReverseResult struct {
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	Error       string  `json:"error"`
}

type Address struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

// New returns a Nominatim geocoder. An empty endpoint selects the public instance, a timeout
// of zero selects APITimeout and an interval of zero disables the request throttling.
func New(client *http.Client, lang language.Tag, endpoint string, timeout, interval time.Duration) *Nominatim {
	if endpoint == "" {
		endpoint = APIReverseEndpoint
	}
	if timeout <= 0 {
		timeout = APITimeout
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Nominatim{
		endpoint: endpoint,
		http:     client,
		lang:     lang,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   client.Logger(),
		timeout:  timeout,
	}
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (geocode.Address, error) {
	var result ReverseResult
	var err error

	if err = n.limiter.Wait(ctx); err != nil {
		return geocode.Address{}, fmt.Errorf("failed to wait for Nominatim rate limit: %w", err)
	}

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("accept-language", n.lang.String())

	if _, err = n.http.GetWithTimeout(ctx, n.endpoint, &result, query, nil, n.timeout); err != nil {
		return geocode.Address{}, fmt.Errorf("failed to fetch reverse address details from Nominatim API: %w", err)
	}
	if result.Error != "" {
		return geocode.Address{}, fmt.Errorf("%w: %s", geocode.ErrNoAddress, result.Error)
	}
	if result.DisplayName == "" {
		return geocode.Address{}, fmt.Errorf("%w: empty display name in Nominatim API response", geocode.ErrNoAddress)
	}

	// Fill the geocode.Address struct
	address := geocode.Address{
		AddressFound: true,
		DisplayName:  result.DisplayName,
		Country:      result.Address.Country,
		State:        result.Address.State,
		Postcode:     result.Address.Postcode,
		City:         result.Address.City,
		Street:       result.Address.Road,
		HouseNumber:  result.Address.HouseNumber,
	}
	if result.Address.City == "" && result.Address.Town != "" {
		address.City = result.Address.Town
	}
	if result.Address.City == "" && result.Address.Town == "" && result.Address.Village != "" {
		address.City = result.Address.Village
	}
	// Coordinates of the matched object are optional
	if address.Latitude, address.Longitude, err = parseLatLon(result.APILat, result.APILon); err != nil {
		n.logger.Debug("ignoring unparsable coordinates in Nominatim API response", logger.Err(err),
			slog.String("lat", result.APILat), slog.String("lon", result.APILon))
	}

	return address, nil
}

// parseLatLon parses both coordinates of an API response. On failure both are zero.
func parseLatLon(lat, lon string) (float64, float64, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse latitude: %w", err)
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse longitude: %w", err)
	}
	return latitude, longitude, nil
}
