// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exif

import "fmt"

// Tag identifies a field within an IFD.
type Tag uint16

// Type is a TIFF field type.
type Type uint16

const (
	TypeByte      Type = 1
	TypeASCII     Type = 2
	TypeShort     Type = 3
	TypeLong      Type = 4
	TypeRational  Type = 5
	TypeSByte     Type = 6
	TypeUndefined Type = 7
	TypeSShort    Type = 8
	TypeSLong     Type = 9
	TypeSRational Type = 10
	TypeFloat     Type = 11
	TypeDouble    Type = 12
)

// Size is the number of bytes one element of t occupies, or 0 for unknown
// types.
func (t Type) Size() int {
	switch t {
	case TypeByte, TypeASCII, TypeSByte, TypeUndefined:
		return 1
	case TypeShort, TypeSShort:
		return 2
	case TypeLong, TypeSLong, TypeFloat:
		return 4
	case TypeRational, TypeSRational, TypeDouble:
		return 8
	default:
		return 0
	}
}

// unit is the width of the integers that make up one element; it drives
// byte-order conversion.
func (t Type) unit() int {
	switch t {
	case TypeRational, TypeSRational:
		return 4
	default:
		return t.Size()
	}
}

// IFD0 (image) tags.
const (
	TagMake                        Tag = 0x010F
	TagModel                       Tag = 0x0110
	TagOrientation                 Tag = 0x0112
	TagXResolution                 Tag = 0x011A
	TagYResolution                 Tag = 0x011B
	TagResolutionUnit              Tag = 0x0128
	TagSoftware                    Tag = 0x0131
	TagDateTime                    Tag = 0x0132
	TagArtist                      Tag = 0x013B
	TagJPEGInterchangeFormat       Tag = 0x0201
	TagJPEGInterchangeFormatLength Tag = 0x0202
	TagCopyright                   Tag = 0x8298
	TagExifIFDPointer              Tag = 0x8769
	TagGPSIFDPointer               Tag = 0x8825
)

// Exif sub-IFD tags.
const (
	TagExposureTime       Tag = 0x829A
	TagFNumber            Tag = 0x829D
	TagISOSpeed           Tag = 0x8827
	TagExifVersion        Tag = 0x9000
	TagDateTimeOriginal   Tag = 0x9003
	TagDateTimeDigitized  Tag = 0x9004
	TagFocalLength        Tag = 0x920A
	TagMakerNote          Tag = 0x927C
	TagUserComment        Tag = 0x9286
	TagInteropIFDPointer  Tag = 0xA005
	TagLensMake           Tag = 0xA433
	TagLensModel          Tag = 0xA434
	TagImageUniqueID      Tag = 0xA420
	TagBodySerialNumber   Tag = 0xA431
	TagCameraOwnerName    Tag = 0xA430
	TagPixelXDimension    Tag = 0xA002
	TagPixelYDimension    Tag = 0xA003
	TagOffsetTimeOriginal Tag = 0x9011
)

// GPS sub-IFD tags.
const (
	TagGPSVersionID    Tag = 0x0000
	TagGPSLatitudeRef  Tag = 0x0001
	TagGPSLatitude     Tag = 0x0002
	TagGPSLongitudeRef Tag = 0x0003
	TagGPSLongitude    Tag = 0x0004
	TagGPSAltitudeRef  Tag = 0x0005
	TagGPSAltitude     Tag = 0x0006
	TagGPSTimeStamp    Tag = 0x0007
	TagGPSDateStamp    Tag = 0x001D
)

// IFDKind names the directories of an EXIF block.
type IFDKind int

const (
	KindIFD0 IFDKind = iota
	KindExif
	KindGPS
	KindInterop
	KindIFD1
)

func (k IFDKind) String() string {
	switch k {
	case KindIFD0:
		return "0th"
	case KindExif:
		return "Exif"
	case KindGPS:
		return "GPS"
	case KindInterop:
		return "Interop"
	case KindIFD1:
		return "1st"
	default:
		return fmt.Sprintf("IFD(%d)", int(k))
	}
}

var imageNames = map[Tag]string{
	TagMake:                        "Make",
	TagModel:                       "Model",
	TagOrientation:                 "Orientation",
	TagXResolution:                 "XResolution",
	TagYResolution:                 "YResolution",
	TagResolutionUnit:              "ResolutionUnit",
	TagSoftware:                    "Software",
	TagDateTime:                    "DateTime",
	TagArtist:                      "Artist",
	TagJPEGInterchangeFormat:       "JPEGInterchangeFormat",
	TagJPEGInterchangeFormatLength: "JPEGInterchangeFormatLength",
	TagCopyright:                   "Copyright",
}

var exifNames = map[Tag]string{
	TagExposureTime:       "ExposureTime",
	TagFNumber:            "FNumber",
	TagISOSpeed:           "ISOSpeedRatings",
	TagExifVersion:        "ExifVersion",
	TagDateTimeOriginal:   "DateTimeOriginal",
	TagDateTimeDigitized:  "DateTimeDigitized",
	TagFocalLength:        "FocalLength",
	TagMakerNote:          "MakerNote",
	TagUserComment:        "UserComment",
	TagLensMake:           "LensMake",
	TagLensModel:          "LensModel",
	TagImageUniqueID:      "ImageUniqueID",
	TagBodySerialNumber:   "BodySerialNumber",
	TagCameraOwnerName:    "CameraOwnerName",
	TagPixelXDimension:    "PixelXDimension",
	TagPixelYDimension:    "PixelYDimension",
	TagOffsetTimeOriginal: "OffsetTimeOriginal",
}

var gpsNames = map[Tag]string{
	TagGPSVersionID:    "GPSVersionID",
	TagGPSLatitudeRef:  "GPSLatitudeRef",
	TagGPSLatitude:     "GPSLatitude",
	TagGPSLongitudeRef: "GPSLongitudeRef",
	TagGPSLongitude:    "GPSLongitude",
	TagGPSAltitudeRef:  "GPSAltitudeRef",
	TagGPSAltitude:     "GPSAltitude",
	TagGPSTimeStamp:    "GPSTimeStamp",
	TagGPSDateStamp:    "GPSDateStamp",
}

// TagName returns a readable name for tag in an IFD of the given kind, or
// its hex number when unknown.
func TagName(kind IFDKind, tag Tag) string {
	var names map[Tag]string
	switch kind {
	case KindIFD0, KindIFD1:
		names = imageNames
	case KindExif:
		names = exifNames
	case KindGPS:
		names = gpsNames
	}
	if n, ok := names[tag]; ok {
		return n
	}
	return fmt.Sprintf("0x%04X", uint16(tag))
}
