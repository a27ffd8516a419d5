// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package extractor reads the attributes and GPS position of a file and reveals them
// field by field on a display.
package extractor

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/vorlif/humanize"
	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/exifscope/internal/exifgps"
	"github.com/wneessen/exifscope/internal/fileinfo"
	"github.com/wneessen/exifscope/internal/geo"
	"github.com/wneessen/exifscope/internal/geocode"
	"github.com/wneessen/exifscope/internal/i18n"
	"github.com/wneessen/exifscope/internal/logger"
	"github.com/wneessen/exifscope/internal/reveal"
	"github.com/wneessen/exifscope/internal/vartype"
)

// DefaultFieldPause is the pause after each revealed field.
const DefaultFieldPause = time.Millisecond * 150

const (
	labelFileName     localize.MsgID = "File Name"
	labelSize         localize.MsgID = "Size"
	labelType         localize.MsgID = "Type"
	labelLastModified localize.MsgID = "Last Modified"
	labelGPS          localize.MsgID = "GPS Coordinates"
	labelLocation     localize.MsgID = "Location"

	valueNotAvailable localize.MsgID = vartype.NotAvailable
	valueNotFound     localize.MsgID = "Not found"
	valueFetching     localize.MsgID = "Fetching..."
	valueUnknown      localize.MsgID = geocode.UnknownLocation
	valueSize         localize.MsgID = "%d bytes"
)

// Display is the output surface the extractor writes to.
type Display interface {
	reveal.Appender
	Clear()
	SetProgress(percent int)
	Hold()
	Render(content string)
}

// ExifDecoder reads the GPS position and the EXIF tags from image data.
type ExifDecoder interface {
	Decode(r io.Reader) (geo.Reading, error)
	Tags(r io.Reader) ([]exifgps.Tag, error)
}

// PlaceResolver turns coordinates into a place name. It never fails.
type PlaceResolver interface {
	PlaceName(ctx context.Context, lat, lon float64) string
}

type Extractor struct {
	decoder    ExifDecoder
	resolver   PlaceResolver
	effect     *reveal.Effect
	fieldPause time.Duration
	localizer  *spreak.Localizer
	humanizer  *humanize.Humanizer
	logger     *logger.Logger
}

func New(decoder ExifDecoder, resolver PlaceResolver, effect *reveal.Effect, fieldPause time.Duration,
	t *spreak.Localizer, log *logger.Logger,
) *Extractor {
	return &Extractor{
		decoder:    decoder,
		resolver:   resolver,
		effect:     effect,
		fieldPause: fieldPause,
		localizer:  t,
		humanizer:  i18n.NewHumanizer(t.Language()),
		logger:     log,
	}
}

// Extract clears the display, reveals the attributes of the file one field after another
// and finally resolves the GPS position to a place name. The only error returned is the
// error of a cancelled context, together with the partial report.
func (e *Extractor) Extract(ctx context.Context, runID string, file *fileinfo.File, d Display) (*Report, error) {
	d.Clear()

	report := &Report{RunID: runID, File: file}
	if reading, ok := e.readGPS(file); ok {
		report.GPS = &reading
	}
	report.Tags = e.readTags(file)
	report.Fields = e.fields(file, report.GPS)

	total := len(report.Fields)
	for i, field := range report.Fields {
		if field.Key == FieldLocation {
			d.Hold()
		}
		if err := e.effect.Reveal(ctx, field.String(), d); err != nil {
			return report, err
		}
		d.SetProgress(Progress(i+1, total))
		if err := reveal.Pause(ctx, e.fieldPause); err != nil {
			return report, err
		}
	}

	if report.GPS == nil {
		return report, nil
	}

	name := e.resolver.PlaceName(ctx, report.GPS.Latitude, report.GPS.Longitude)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	if name == geocode.UnknownLocation {
		name = e.localizer.Get(valueUnknown)
	}
	report.SetLocation(name)
	d.Render(report.String())

	return report, nil
}

func (e *Extractor) fields(file *fileinfo.File, reading *geo.Reading) []Field {
	contentType := file.ContentType
	if contentType == "" {
		contentType = e.localizer.Get(valueNotAvailable)
	}
	gps := e.localizer.Get(valueNotFound)
	if reading != nil {
		gps = reading.String()
	}

	fields := []Field{
		{Key: FieldFileName, Label: e.localizer.Get(labelFileName), Value: file.Name},
		{Key: FieldSize, Label: e.localizer.Get(labelSize), Value: e.localizer.Getf(valueSize, file.Size)},
		{Key: FieldType, Label: e.localizer.Get(labelType), Value: contentType},
		{
			Key: FieldLastModified, Label: e.localizer.Get(labelLastModified),
			Value: e.humanizer.FormatTime(file.LastModified, humanize.DateTimeFormat),
		},
		{Key: FieldGPS, Label: e.localizer.Get(labelGPS), Value: gps},
	}
	if reading != nil {
		fields = append(fields, Field{
			Key: FieldLocation, Label: e.localizer.Get(labelLocation),
			Value: e.localizer.Get(valueFetching),
		})
	}
	return fields
}

// readGPS decodes the GPS position of image files. Failures are treated as absent data.
func (e *Extractor) readGPS(file *fileinfo.File) (geo.Reading, bool) {
	if !file.IsImage() {
		return geo.Reading{}, false
	}

	handle, err := file.Open()
	if err != nil {
		e.logger.Debug("failed to open file for GPS decoding", logger.Err(err), slog.String("file", file.Path))
		return geo.Reading{}, false
	}
	defer func() { _ = handle.Close() }()

	reading, err := e.decoder.Decode(handle)
	if err != nil {
		e.logger.Debug("no GPS data available", logger.Err(err), slog.String("file", file.Path))
		return geo.Reading{}, false
	}
	e.logger.Debug("GPS position decoded", slog.Float64("lat", reading.Latitude),
		slog.Float64("lon", reading.Longitude), slog.String("altitude", reading.Altitude.String()))
	return reading, true
}

// readTags lists the EXIF tags of image files. Failures result in an empty list.
func (e *Extractor) readTags(file *fileinfo.File) []exifgps.Tag {
	if !file.IsImage() {
		return nil
	}

	handle, err := file.Open()
	if err != nil {
		e.logger.Debug("failed to open file for EXIF tag listing", logger.Err(err), slog.String("file", file.Path))
		return nil
	}
	defer func() { _ = handle.Close() }()

	tags, err := e.decoder.Tags(handle)
	if err != nil {
		e.logger.Debug("no EXIF tags available", logger.Err(err), slog.String("file", file.Path))
		return nil
	}
	return tags
}

// Progress returns the rounded percentage of done out of total steps.
func Progress(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(100*done) / float64(total)))
}
