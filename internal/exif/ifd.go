// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// Rational is an unsigned TIFF fraction.
type Rational struct {
	Num, Den uint32
}

// Float returns r as a float64; a zero denominator yields 0.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Value is one field value. Raw holds Count elements of Type, always in
// big-endian order regardless of the byte order of the file it came from.
type Value struct {
	Type  Type
	Count uint32
	Raw   []byte
}

// ASCII returns a NUL-terminated ASCII value.
func ASCII(s string) Value {
	raw := append([]byte(s), 0)
	return Value{Type: TypeASCII, Count: uint32(len(raw)), Raw: raw}
}

// Short returns a SHORT value.
func Short(vs ...uint16) Value {
	raw := make([]byte, 2*len(vs))
	for i, v := range vs {
		binary.BigEndian.PutUint16(raw[2*i:], v)
	}
	return Value{Type: TypeShort, Count: uint32(len(vs)), Raw: raw}
}

// Long returns a LONG value.
func Long(vs ...uint32) Value {
	raw := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.BigEndian.PutUint32(raw[4*i:], v)
	}
	return Value{Type: TypeLong, Count: uint32(len(vs)), Raw: raw}
}

// Rationals returns a RATIONAL value.
func Rationals(rs ...Rational) Value {
	raw := make([]byte, 8*len(rs))
	for i, r := range rs {
		binary.BigEndian.PutUint32(raw[8*i:], r.Num)
		binary.BigEndian.PutUint32(raw[8*i+4:], r.Den)
	}
	return Value{Type: TypeRational, Count: uint32(len(rs)), Raw: raw}
}

// Bytes returns a BYTE or UNDEFINED value.
func Bytes(t Type, b []byte) Value {
	return Value{Type: t, Count: uint32(len(b)), Raw: bytes.Clone(b)}
}

// Text returns an ASCII value with trailing and embedded NULs removed.
func (v Value) Text() string {
	return strings.ReplaceAll(string(v.Raw), "\x00", "")
}

// Ints returns BYTE, SHORT and LONG elements as uint32s; other types yield
// nil.
func (v Value) Ints() []uint32 {
	var out []uint32
	switch v.Type {
	case TypeByte, TypeUndefined:
		for _, b := range v.Raw {
			out = append(out, uint32(b))
		}
	case TypeShort:
		for i := 0; i+2 <= len(v.Raw); i += 2 {
			out = append(out, uint32(binary.BigEndian.Uint16(v.Raw[i:])))
		}
	case TypeLong:
		for i := 0; i+4 <= len(v.Raw); i += 4 {
			out = append(out, binary.BigEndian.Uint32(v.Raw[i:]))
		}
	}
	return out
}

// Rats returns RATIONAL elements; other types yield nil.
func (v Value) Rats() []Rational {
	if v.Type != TypeRational {
		return nil
	}
	var out []Rational
	for i := 0; i+8 <= len(v.Raw); i += 8 {
		out = append(out, Rational{
			Num: binary.BigEndian.Uint32(v.Raw[i:]),
			Den: binary.BigEndian.Uint32(v.Raw[i+4:]),
		})
	}
	return out
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Type {
	case TypeASCII:
		return v.Text()
	case TypeByte, TypeShort, TypeLong:
		ints := v.Ints()
		if len(ints) > 16 {
			return fmt.Sprintf("[%d values]", len(ints))
		}
		parts := make([]string, len(ints))
		for i, n := range ints {
			parts[i] = fmt.Sprint(n)
		}
		return strings.Join(parts, " ")
	case TypeRational:
		rs := v.Rats()
		parts := make([]string, len(rs))
		for i, r := range rs {
			parts[i] = fmt.Sprintf("%d/%d", r.Num, r.Den)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("[%d bytes]", len(v.Raw))
	}
}

// IFD is one image file directory.
type IFD map[Tag]Value

// Tags returns the tags of d in ascending order.
func (d IFD) Tags() []Tag {
	tags := make([]Tag, 0, len(d))
	for t := range d {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Data is a complete EXIF block.
type Data struct {
	IFD0    IFD
	Exif    IFD
	GPS     IFD
	Interop IFD
	IFD1    IFD
	// Thumbnail is the JPEG thumbnail referenced from IFD1, if any.
	Thumbnail []byte
}

// New returns an empty EXIF block.
func New() *Data {
	return &Data{
		IFD0:    IFD{},
		Exif:    IFD{},
		GPS:     IFD{},
		Interop: IFD{},
		IFD1:    IFD{},
	}
}

// Empty reports whether d carries no fields and no thumbnail.
func (d *Data) Empty() bool {
	return len(d.IFD0) == 0 && len(d.Exif) == 0 && len(d.GPS) == 0 &&
		len(d.Interop) == 0 && len(d.IFD1) == 0 && len(d.Thumbnail) == 0
}

// Dir returns the IFD of the given kind.
func (d *Data) Dir(kind IFDKind) IFD {
	switch kind {
	case KindIFD0:
		return d.IFD0
	case KindExif:
		return d.Exif
	case KindGPS:
		return d.GPS
	case KindInterop:
		return d.Interop
	case KindIFD1:
		return d.IFD1
	default:
		return nil
	}
}
