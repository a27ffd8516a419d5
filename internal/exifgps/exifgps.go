// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package exifgps reads the GPS position and the tags from the EXIF data embedded in an
// image.
package exifgps

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/wneessen/exifscope/internal/geo"
)

// ErrNoGPS is returned if the EXIF data does not contain a usable latitude and longitude.
var ErrNoGPS = errors.New("no GPS position found in EXIF data")

// Tag is a single EXIF field with its formatted value.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// String returns the tag as displayed line, including the trailing newline.
func (t Tag) String() string {
	return t.Name + ": " + t.Value + "\n"
}

// Decoder extracts GPS readings and EXIF tags using the goexif decoder.
type Decoder struct{}

func New() *Decoder {
	return &Decoder{}
}

// Decode parses the EXIF data of r and returns the GPS position. The altitude is only set
// if the image carries it.
func (d *Decoder) Decode(r io.Reader) (geo.Reading, error) {
	data, err := decode(r)
	if err != nil {
		return geo.Reading{}, err
	}

	lat, lon, err := data.LatLong()
	if err != nil {
		return geo.Reading{}, errors.Join(ErrNoGPS, err)
	}
	reading := geo.NewReading(lat, lon)
	if !reading.Valid() {
		return geo.Reading{}, fmt.Errorf("%w: coordinates out of range: %s", ErrNoGPS, reading)
	}

	if alt, ok := altitude(data); ok {
		reading.Altitude.Set(alt)
	}
	return reading, nil
}

func altitude(data *exif.Exif) (float64, bool) {
	tag, err := data.Get(exif.GPSAltitude)
	if err != nil {
		return 0, false
	}
	rat, err := tag.Rat(0)
	if err != nil {
		return 0, false
	}
	alt, _ := rat.Float64()

	// A reference of 1 means below sea level
	if ref, err := data.Get(exif.GPSAltitudeRef); err == nil {
		if val, err := ref.Int(0); err == nil && val == 1 {
			alt = -alt
		}
	}
	return alt, true
}

// Tags parses the EXIF data of r and returns all fields sorted by name.
func (d *Decoder) Tags(r io.Reader) ([]Tag, error) {
	data, err := decode(r)
	if err != nil {
		return nil, err
	}

	walker := &tagWalker{}
	if err = data.Walk(walker); err != nil {
		return nil, fmt.Errorf("failed to walk EXIF fields: %w", err)
	}
	slices.SortFunc(walker.tags, func(a, b Tag) int { return cmp.Compare(a.Name, b.Name) })
	return walker.tags, nil
}

type tagWalker struct {
	tags []Tag
}

func (w *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	value := tag.String()
	if tag.Format() == tiff.StringVal || tag.Format() == tiff.UndefVal {
		value = strings.Trim(value, `"`)
	}
	w.tags = append(w.tags, Tag{Name: string(name), Value: value})
	return nil
}

// decode tolerates non-critical errors as long as some EXIF data could be read.
func decode(r io.Reader) (*exif.Exif, error) {
	data, err := exif.Decode(r)
	if err != nil && (data == nil || exif.IsCriticalError(err)) {
		return nil, fmt.Errorf("failed to decode EXIF data: %w", err)
	}
	return data, nil
}
