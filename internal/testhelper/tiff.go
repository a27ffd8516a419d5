// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package testhelper

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	tiffTypeByte     = 1
	tiffTypeASCII    = 2
	tiffTypeLong     = 4
	tiffTypeRational = 5

	gpsIFDOffset  = 26
	gpsEntries    = 6
	gpsDataOffset = gpsIFDOffset + 2 + gpsEntries*12 + 4
)

type rational struct {
	num, den uint32
}

// GPSTIFF returns a minimal little-endian TIFF file that only carries a GPS IFD with the
// given position. Negative latitudes and longitudes are encoded with the S and W references.
func GPSTIFF(lat, lon, alt float64) []byte {
	buf := bytes.NewBuffer(nil)
	write := func(v any) { _ = binary.Write(buf, binary.LittleEndian, v) }
	entry := func(tag, typ uint16, count, value uint32) {
		write(tag)
		write(typ)
		write(count)
		write(value)
	}

	latRef, lonRef, altRef := uint32('N'), uint32('E'), uint32(0)
	if lat < 0 {
		latRef, lat = uint32('S'), -lat
	}
	if lon < 0 {
		lonRef, lon = uint32('W'), -lon
	}
	if alt < 0 {
		altRef, alt = 1, -alt
	}

	// Header and IFD0 with the GPS IFD pointer
	buf.WriteString("II")
	write(uint16(42))
	write(uint32(8))
	write(uint16(1))
	entry(0x8825, tiffTypeLong, 1, gpsIFDOffset)
	write(uint32(0))

	// GPS IFD
	write(uint16(gpsEntries))
	entry(0x0001, tiffTypeASCII, 2, latRef)
	entry(0x0002, tiffTypeRational, 3, gpsDataOffset)
	entry(0x0003, tiffTypeASCII, 2, lonRef)
	entry(0x0004, tiffTypeRational, 3, gpsDataOffset+24)
	entry(0x0005, tiffTypeByte, 1, altRef)
	entry(0x0006, tiffTypeRational, 1, gpsDataOffset+48)
	write(uint32(0))

	// Values that do not fit into the entries
	for _, r := range degreesToRationals(lat) {
		write(r.num)
		write(r.den)
	}
	for _, r := range degreesToRationals(lon) {
		write(r.num)
		write(r.den)
	}
	write(uint32(math.Round(alt * 100)))
	write(uint32(100))

	return buf.Bytes()
}

func degreesToRationals(val float64) [3]rational {
	deg := math.Floor(val)
	minutes := math.Floor((val - deg) * 60)
	seconds := (val - deg - minutes/60) * 3600
	return [3]rational{
		{uint32(deg), 1},
		{uint32(minutes), 1},
		{uint32(math.Round(seconds * 10000)), 10000},
	}
}
