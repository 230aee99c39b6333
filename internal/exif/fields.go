// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exif

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/fetchsub/internal/errors"
)

// DateFormat is the EXIF date-time layout.
const DateFormat = "2006:01:02 15:04:05"

const (
	outputPrefix   = "spoofed_"
	defaultOutName = "image.jpg"
)

// Fields are the user-editable parts of an EXIF block. Nil or empty fields
// are left untouched by Apply.
type Fields struct {
	DateTaken *time.Time `json:"date_taken,omitempty" yaml:"date_taken,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Make      string     `json:"make,omitempty" yaml:"make,omitempty"`
	Model     string     `json:"model,omitempty" yaml:"model,omitempty"`
}

// Validate checks coordinate ranges and that both coordinates are given
// together.
func (f Fields) Validate() error {
	if (f.Latitude == nil) != (f.Longitude == nil) {
		return errors.Wrap(errors.ErrInvalidConfig, "latitude and longitude must be given together")
	}
	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		return errors.Wrapf(errors.ErrInvalidConfig, "latitude %g out of range [-90, 90]", *f.Latitude)
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		return errors.Wrapf(errors.ErrInvalidConfig, "longitude %g out of range [-180, 180]", *f.Longitude)
	}
	return nil
}

// IsZero reports whether f requests no change.
func (f Fields) IsZero() bool {
	return f.DateTaken == nil && f.Latitude == nil && f.Longitude == nil && f.Make == "" && f.Model == ""
}

// Read extracts the editable fields from d. DateTimeOriginal is preferred
// over the IFD0 DateTime.
func Read(d *Data) Fields {
	var f Fields

	for _, v := range []struct {
		ifd IFD
		tag Tag
	}{{d.Exif, TagDateTimeOriginal}, {d.IFD0, TagDateTime}} {
		val, ok := v.ifd[v.tag]
		if !ok {
			continue
		}
		if t, err := time.Parse(DateFormat, strings.TrimSpace(val.Text())); err == nil {
			f.DateTaken = &t
			break
		}
	}

	lat, okLat := d.GPS[TagGPSLatitude]
	lon, okLon := d.GPS[TagGPSLongitude]
	if okLat && okLon {
		la := FromRational(lat.Rats())
		lo := FromRational(lon.Rats())
		if strings.EqualFold(d.GPS[TagGPSLatitudeRef].Text(), "S") {
			la = -la
		}
		if strings.EqualFold(d.GPS[TagGPSLongitudeRef].Text(), "W") {
			lo = -lo
		}
		f.Latitude, f.Longitude = &la, &lo
	}

	f.Make = strings.TrimSpace(d.IFD0[TagMake].Text())
	f.Model = strings.TrimSpace(d.IFD0[TagModel].Text())
	return f
}

// Apply writes f into d.
func Apply(d *Data, f Fields) {
	if d.IFD0 == nil {
		d.IFD0 = IFD{}
	}
	if d.Exif == nil {
		d.Exif = IFD{}
	}
	if d.GPS == nil {
		d.GPS = IFD{}
	}

	if f.DateTaken != nil {
		stamp := ASCII(f.DateTaken.Format(DateFormat))
		d.IFD0[TagDateTime] = stamp
		d.Exif[TagDateTimeOriginal] = stamp
		d.Exif[TagDateTimeDigitized] = stamp
	}

	if f.Latitude != nil && f.Longitude != nil {
		lat, lon := *f.Latitude, *f.Longitude
		latDMS, lonDMS := ToRational(lat), ToRational(lon)
		d.GPS[TagGPSLatitudeRef] = ASCII(hemisphere(lat, "N", "S"))
		d.GPS[TagGPSLatitude] = Rationals(latDMS[:]...)
		d.GPS[TagGPSLongitudeRef] = ASCII(hemisphere(lon, "E", "W"))
		d.GPS[TagGPSLongitude] = Rationals(lonDMS[:]...)
	}

	if m := toASCII(f.Make); m != "" {
		d.IFD0[TagMake] = ASCII(m)
	}
	if m := toASCII(f.Model); m != "" {
		d.IFD0[TagModel] = ASCII(m)
	}
}

func hemisphere(v float64, pos, neg string) string {
	if v < 0 {
		return neg
	}
	return pos
}

// Orientation returns the IFD0 orientation (1..8), or 1 when absent or
// invalid.
func Orientation(d *Data) int {
	if d == nil {
		return 1
	}
	ints := d.IFD0[TagOrientation].Ints()
	if len(ints) == 0 || ints[0] < 1 || ints[0] > 8 {
		return 1
	}
	return int(ints[0])
}

// Edit applies f to the EXIF of a JPEG file and returns the new file. EXIF
// that cannot be parsed is replaced by an empty block.
func Edit(jpeg []byte, f Fields) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if _, err := Segments(jpeg); err != nil {
		return nil, err
	}

	d, err := Load(jpeg)
	if err != nil {
		log.Warn().Err(err).Msg("existing EXIF unreadable, starting from empty metadata")
		d = New()
	}
	Apply(d, f)

	tiff, err := d.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding exif: %w", err)
	}
	seg, err := Segment(tiff)
	if err != nil {
		return nil, err
	}
	return Insert(jpeg, seg)
}

// EmptySegment returns an APP1 segment holding an EXIF block with no fields.
func EmptySegment() []byte {
	return OrientationSegment(1)
}

// OrientationSegment returns an APP1 segment whose EXIF block carries only
// orientation o. Values outside 2..8 yield an empty block.
func OrientationSegment(o int) []byte {
	d := New()
	if o >= 2 && o <= 8 {
		d.IFD0[TagOrientation] = Short(uint16(o))
	}
	tiff, _ := d.Encode()
	seg, _ := Segment(tiff)
	return seg
}

// OutputName maps photo.jpg to spoofed_photo.jpg.
func OutputName(name string) string {
	base := filepath.Base(name)
	if name == "" || base == "." || base == "/" {
		base = defaultOutName
	}
	return outputPrefix + base
}
