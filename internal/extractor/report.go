// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package extractor

import (
	"strings"

	"github.com/wneessen/exifscope/internal/exifgps"
	"github.com/wneessen/exifscope/internal/fileinfo"
	"github.com/wneessen/exifscope/internal/geo"
)

// FieldKey identifies a field of the report independent of its localized label.
type FieldKey string

const (
	FieldFileName     FieldKey = "file_name"
	FieldSize         FieldKey = "size"
	FieldType         FieldKey = "type"
	FieldLastModified FieldKey = "last_modified"
	FieldGPS          FieldKey = "gps_coordinates"
	FieldLocation     FieldKey = "location"
)

// Field is a single labeled line of the report.
type Field struct {
	Key   FieldKey `json:"key"`
	Label string   `json:"label"`
	Value string   `json:"value"`
}

// String returns the field as displayed line, including the trailing newline.
func (f Field) String() string {
	return f.Label + ": " + f.Value + "\n"
}

// Report is the structured result of an extraction run.
type Report struct {
	RunID    string         `json:"run_id"`
	File     *fileinfo.File `json:"file"`
	GPS      *geo.Reading   `json:"gps,omitempty"`
	Location string         `json:"location,omitempty"`
	Fields   []Field        `json:"fields"`
	Tags     []exifgps.Tag  `json:"tags,omitempty"`
}

// String renders all fields in order.
func (r *Report) String() string {
	var b strings.Builder
	for _, field := range r.Fields {
		b.WriteString(field.String())
	}
	return b.String()
}

// TagList renders all EXIF tags in order.
func (r *Report) TagList() string {
	var b strings.Builder
	for _, tag := range r.Tags {
		b.WriteString(tag.String())
	}
	return b.String()
}

// Field returns the field with the given key.
func (r *Report) Field(key FieldKey) (Field, bool) {
	for _, field := range r.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// SetLocation stores the place name in the location slot. Reports without a location
// field are left untouched.
func (r *Report) SetLocation(name string) bool {
	for i := range r.Fields {
		if r.Fields[i].Key == FieldLocation {
			r.Fields[i].Value = name
			r.Location = name
			return true
		}
	}
	return false
}
