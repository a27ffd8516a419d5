// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"

	"github.com/wneessen/exifscope/internal/vartype"
)

// Reading represents the GPS position embedded in a file. The altitude is optional.
type Reading struct {
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Altitude  vartype.VarFloat64 `json:"altitude"`
}

// NewReading returns a Reading without altitude information.
func NewReading(lat, lon float64) Reading {
	return Reading{Latitude: lat, Longitude: lon}
}

// Valid checks if the reading is valid according to the EPSG logic
func (r Reading) Valid() bool {
	return r.Latitude >= -90 && r.Latitude <= 90 && r.Longitude >= -180 && r.Longitude <= 180
}

// String returns the formatted latitude and longitude of the reading.
func (r Reading) String() string {
	return FormatLatLon(vartype.NewVariable(r.Latitude), vartype.NewVariable(r.Longitude))
}

// FormatLatLon renders both values with six decimal digits separated by a comma. If either
// of them is not set, vartype.NotAvailable is returned.
func FormatLatLon(lat, lon vartype.VarFloat64) string {
	if !lat.IsSet() || !lon.IsSet() {
		return vartype.NotAvailable
	}
	return fmt.Sprintf("%.6f, %.6f", lat.Value(), lon.Value())
}
