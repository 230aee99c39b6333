// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exif

import (
	"bytes"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"

	"github.com/pdiddy/fetchsub/internal/errors"
)

const (
	markerSOI   = jpegstructure.MARKER_SOI
	markerAPP0  = jpegstructure.MARKER_APP0
	markerAPP1  = jpegstructure.MARKER_APP1
	markerAPP2  = jpegstructure.MARKER_APP2
	markerAPP11 = 0xEB
	markerAPP13 = jpegstructure.MARKER_APP13
	markerCOM   = 0xFE
)

var (
	xmpHeader    = []byte("http://ns.adobe.com/xap/1.0/\x00")
	xmpExtHeader = []byte("http://ns.adobe.com/xmp/extension/")
	iccHeader    = []byte("ICC_PROFILE\x00")
)

// Segments splits a JPEG file into marker segments. The SOI marker is the
// first segment; entropy-coded scan data is a segment with MarkerId 0.
// Anything after EOI is dropped.
func Segments(jpeg []byte) ([]*jpegstructure.Segment, error) {
	sl, err := parse(jpeg)
	if err != nil {
		return nil, err
	}
	return sl.Segments(), nil
}

func parse(jpeg []byte) (*jpegstructure.SegmentList, error) {
	if len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != markerSOI {
		return nil, errors.Wrap(errors.ErrMalformedInput, "jpeg: missing SOI marker")
	}
	mc, err := jpegstructure.NewJpegMediaParser().ParseBytes(jpeg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedInput, "jpeg: %v", err)
	}
	sl, ok := mc.(*jpegstructure.SegmentList)
	if !ok || len(sl.Segments()) == 0 {
		return nil, errors.Wrap(errors.ErrMalformedInput, "jpeg: no segments")
	}
	return sl, nil
}

func join(segs []*jpegstructure.Segment) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpegstructure.NewSegmentList(segs).Write(&buf); err != nil {
		return nil, errors.Wrap(err, "jpeg: writing segments")
	}
	return buf.Bytes(), nil
}

// Load returns the EXIF block of a JPEG file. A file without EXIF yields an
// empty Data.
func Load(jpeg []byte) (*Data, error) {
	sl, err := parse(jpeg)
	if err != nil {
		return nil, err
	}
	for _, s := range sl.Segments() {
		if s.IsExif() {
			return Parse(s.Data[len(exifHeader):])
		}
	}
	return New(), nil
}

// Insert puts the APP1 segment seg into jpeg. The first existing EXIF
// segment is replaced and any further ones are dropped. Without one, seg
// goes after SOI and any leading APP0 (JFIF) segments, which readers expect
// first.
func Insert(jpeg, seg []byte) ([]byte, error) {
	if len(seg) < 4 || seg[0] != 0xFF || seg[1] != markerAPP1 {
		return nil, errors.Wrap(errors.ErrMalformedInput, "jpeg: not an APP1 segment")
	}
	sl, err := parse(jpeg)
	if err != nil {
		return nil, err
	}
	repl := &jpegstructure.Segment{MarkerId: markerAPP1, Data: seg[4:]}

	segs := sl.Segments()
	out := make([]*jpegstructure.Segment, 0, len(segs)+1)
	replaced := false
	for _, s := range segs {
		if !s.IsExif() {
			out = append(out, s)
			continue
		}
		if !replaced {
			out = append(out, repl)
			replaced = true
		}
	}
	if !replaced {
		at := 1
		for at < len(out) && out[at].MarkerId == markerAPP0 {
			at++
		}
		out = append(out[:at], append([]*jpegstructure.Segment{repl}, out[at:]...)...)
	}
	return join(out)
}

// StripMetadata drops EXIF, XMP, non-ICC APP2, APP11 (JUMBF/C2PA), APP13
// (IPTC/Photoshop) and comment segments. It returns the number removed.
func StripMetadata(jpeg []byte) ([]byte, int, error) {
	sl, err := parse(jpeg)
	if err != nil {
		return nil, 0, err
	}
	var kept []*jpegstructure.Segment
	removed := 0
	for _, s := range sl.Segments() {
		if isMetadata(s) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	out, err := join(kept)
	if err != nil {
		return nil, 0, err
	}
	return out, removed, nil
}

func isMetadata(s *jpegstructure.Segment) bool {
	switch s.MarkerId {
	case markerAPP1:
		return s.IsExif() || bytes.HasPrefix(s.Data, xmpHeader) || bytes.HasPrefix(s.Data, xmpExtHeader)
	case markerAPP2:
		return !bytes.HasPrefix(s.Data, iccHeader)
	case markerAPP11, markerAPP13, markerCOM:
		return true
	default:
		return false
	}
}
