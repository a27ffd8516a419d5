// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package exifgps

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/wneessen/exifscope/internal/testhelper"
)

func TestDecoder_Decode(t *testing.T) {
	t.Run("decoding GPS data from an image succeeds", func(t *testing.T) {
		data := testhelper.GPSTIFF(48.858844, 2.294351, 35.5)
		reading, err := New().Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("failed to decode GPS data: %s", err)
		}
		if reading.String() != "48.858844, 2.294351" {
			t.Errorf("expected coordinates to be %q, got %q", "48.858844, 2.294351", reading.String())
		}
		if !reading.Altitude.IsSet() {
			t.Fatal("expected altitude to be set")
		}
		if math.Abs(reading.Altitude.Value()-35.5) > 0.001 {
			t.Errorf("expected altitude to be 35.5, got %f", reading.Altitude.Value())
		}
	})
	t.Run("southern and western hemispheres are negative", func(t *testing.T) {
		data := testhelper.GPSTIFF(-33.856784, -70.650002, -12)
		reading, err := New().Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("failed to decode GPS data: %s", err)
		}
		if reading.String() != "-33.856784, -70.650002" {
			t.Errorf("expected coordinates to be %q, got %q", "-33.856784, -70.650002", reading.String())
		}
		if math.Abs(reading.Altitude.Value()+12) > 0.001 {
			t.Errorf("expected altitude to be -12, got %f", reading.Altitude.Value())
		}
	})
	t.Run("decoding non-EXIF data fails", func(t *testing.T) {
		_, err := New().Decode(strings.NewReader("this is not an image"))
		if err == nil {
			t.Fatal("expected decoding to fail")
		}
	})
	t.Run("decoding a PNG image fails", func(t *testing.T) {
		_, err := New().Decode(bytes.NewReader(testPNG))
		if err == nil {
			t.Fatal("expected decoding to fail")
		}
	})
	t.Run("decoding an empty reader fails", func(t *testing.T) {
		_, err := New().Decode(bytes.NewReader(nil))
		if err == nil {
			t.Fatal("expected decoding to fail")
		}
	})
	t.Run("EXIF data without GPS position returns ErrNoGPS", func(t *testing.T) {
		_, err := New().Decode(bytes.NewReader(tiffWithoutGPS()))
		if err == nil {
			t.Fatal("expected decoding to fail")
		}
		if !errors.Is(err, ErrNoGPS) {
			t.Errorf("expected error to be %s, got %s", ErrNoGPS, err)
		}
	})
}

func TestDecoder_Tags(t *testing.T) {
	t.Run("all GPS fields are listed in order", func(t *testing.T) {
		tags, err := New().Tags(bytes.NewReader(testhelper.GPSTIFF(48.858844, 2.294351, 35.5)))
		if err != nil {
			t.Fatalf("failed to list EXIF tags: %s", err)
		}
		values := make(map[string]string)
		for i, tag := range tags {
			if i > 0 && tags[i-1].Name > tag.Name {
				t.Errorf("expected tags to be sorted, %q is listed before %q", tags[i-1].Name, tag.Name)
			}
			values[tag.Name] = tag.Value
		}
		for _, name := range []string{"GPSLatitude", "GPSLatitudeRef", "GPSLongitude", "GPSLongitudeRef",
			"GPSAltitude", "GPSAltitudeRef"} {
			if _, ok := values[name]; !ok {
				t.Errorf("expected tag %q to be listed, got %+v", name, tags)
			}
		}
		if values["GPSLatitudeRef"] != "N" {
			t.Errorf("expected latitude reference to be %q, got %q", "N", values["GPSLatitudeRef"])
		}
		if values["GPSLongitudeRef"] != "E" {
			t.Errorf("expected longitude reference to be %q, got %q", "E", values["GPSLongitudeRef"])
		}
		if values["GPSAltitude"] != `"3550/100"` {
			t.Errorf("expected altitude to be %q, got %q", `"3550/100"`, values["GPSAltitude"])
		}
		if !strings.HasPrefix(values["GPSLatitude"], `["48/1",`) {
			t.Errorf("unexpected latitude value: %q", values["GPSLatitude"])
		}
	})
	t.Run("a tag is displayed as line", func(t *testing.T) {
		tag := Tag{Name: "GPSLatitudeRef", Value: "N"}
		if tag.String() != "GPSLatitudeRef: N\n" {
			t.Errorf("unexpected tag line: %q", tag.String())
		}
	})
	t.Run("listing tags of non-EXIF data fails", func(t *testing.T) {
		if _, err := New().Tags(strings.NewReader("this is not an image")); err == nil {
			t.Fatal("expected listing tags to fail")
		}
	})
	t.Run("EXIF data without fields returns an empty list", func(t *testing.T) {
		tags, err := New().Tags(bytes.NewReader(tiffWithoutGPS()))
		if err != nil {
			t.Fatalf("failed to list EXIF tags: %s", err)
		}
		if len(tags) != 0 {
			t.Errorf("expected no tags, got %+v", tags)
		}
	})
}

// testPNG is the signature and header chunk of a 1x1 PNG image
var testPNG = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00,
	0x1f, 0x15, 0xc4, 0x89,
}

// tiffWithoutGPS returns a TIFF header with an empty IFD0
func tiffWithoutGPS() []byte {
	return []byte{'I', 'I', 42, 0, 8, 0, 0, 0, 0, 0, 0, 0, 0, 0}
}
