// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exif

import (
	"encoding/binary"
	"sort"

	goexif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"

	"github.com/pdiddy/fetchsub/internal/errors"
)

// exifHeader prefixes the TIFF block inside an APP1 segment.
var exifHeader = []byte("Exif\x00\x00")

// maxSegmentPayload is the largest payload a JPEG marker segment can carry.
const maxSegmentPayload = 0xFFFF - 2

// Encode serialises d as a big-endian TIFF block. Sub-IFD pointers are
// written only for non-empty sub-IFDs; IFD1 is linked from IFD0 when it has
// fields or a thumbnail. An empty Data encodes to a header and an empty
// IFD0.
func (d *Data) Encode() ([]byte, error) {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, errors.Wrap(err, "exif: ifd mapping")
	}
	b := builder{im: im, ti: goexif.NewTagIndex()}

	interop, err := b.dir(exifcommon.IfdExifIopStandardIfdIdentity, d.Interop)
	if err != nil {
		return nil, err
	}
	sub, err := b.dir(exifcommon.IfdExifStandardIfdIdentity, d.Exif, interop)
	if err != nil {
		return nil, err
	}
	gps, err := b.dir(exifcommon.IfdGpsInfoStandardIfdIdentity, d.GPS)
	if err != nil {
		return nil, err
	}

	root := b.new(exifcommon.IfdStandardIfdIdentity)
	if err := b.fill(root, d.IFD0, sub, gps); err != nil {
		return nil, err
	}

	if len(d.IFD1) > 0 || len(d.Thumbnail) > 0 {
		ifd1 := b.new(exifcommon.Ifd1StandardIfdIdentity)
		if err := b.fill(ifd1, d.IFD1); err != nil {
			return nil, err
		}
		if len(d.Thumbnail) > 0 {
			if err := ifd1.SetThumbnail(d.Thumbnail); err != nil {
				return nil, errors.Wrap(err, "exif: thumbnail")
			}
		}
		if err := root.SetNextIb(ifd1); err != nil {
			return nil, errors.Wrap(err, "exif: linking IFD1")
		}
	}

	tiff, err := goexif.NewIfdByteEncoder().EncodeToExif(root)
	if err != nil {
		return nil, errors.Wrap(err, "exif: encoding")
	}
	return tiff, nil
}

// Segment wraps a TIFF block in a complete APP1 marker segment.
func Segment(tiff []byte) ([]byte, error) {
	payload := len(exifHeader) + len(tiff)
	if payload > maxSegmentPayload {
		return nil, errors.Wrapf(errors.ErrMalformedInput, "exif: block of %d bytes does not fit in one segment", payload)
	}
	seg := make([]byte, 0, 4+payload)
	seg = append(seg, 0xFF, markerAPP1)
	seg = binary.BigEndian.AppendUint16(seg, uint16(payload+2))
	seg = append(seg, exifHeader...)
	seg = append(seg, tiff...)
	return seg, nil
}

type builder struct {
	im *exifcommon.IfdMapping
	ti *goexif.TagIndex
}

func (b builder) new(ii *exifcommon.IfdIdentity) *goexif.IfdBuilder {
	return goexif.NewIfdBuilder(b.im, b.ti, ii, binary.BigEndian)
}

// dir builds a sub-IFD, or returns nil when it would be empty.
func (b builder) dir(ii *exifcommon.IfdIdentity, ifd IFD, children ...*goexif.IfdBuilder) (*goexif.IfdBuilder, error) {
	empty := len(ifd) == 0
	for _, c := range children {
		if c != nil {
			empty = false
		}
	}
	if empty {
		return nil, nil
	}
	ib := b.new(ii)
	if err := b.fill(ib, ifd, children...); err != nil {
		return nil, err
	}
	return ib, nil
}

// fill adds the value tags of ifd and the non-nil child directories to ib in
// ascending tag order. Pointer and thumbnail-location tags in ifd are
// ignored; the encoder writes its own.
func (b builder) fill(ib *goexif.IfdBuilder, ifd IFD, children ...*goexif.IfdBuilder) error {
	byTag := map[Tag]*goexif.IfdBuilder{}
	for _, c := range children {
		if c != nil {
			byTag[Tag(c.IfdIdentity().TagId())] = c
		}
	}

	var tags []Tag
	for _, t := range ifd.Tags() {
		switch t {
		case TagExifIFDPointer, TagGPSIFDPointer, TagInteropIFDPointer,
			TagJPEGInterchangeFormat, TagJPEGInterchangeFormatLength:
			continue
		}
		if !exifcommon.TagTypePrimitive(ifd[t].Type).IsValid() {
			continue
		}
		tags = append(tags, t)
	}
	for t := range byTag {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	path := ib.IfdIdentity().UnindexedString()
	for _, t := range tags {
		if c, ok := byTag[t]; ok {
			if err := ib.AddChildIb(c); err != nil {
				return errors.Wrapf(err, "exif: adding %s", c.IfdIdentity().UnindexedString())
			}
			continue
		}
		v := ifd[t]
		bt := goexif.NewBuilderTag(path, uint16(t), exifcommon.TagTypePrimitive(v.Type),
			goexif.NewIfdBuilderTagValueFromBytes(v.Raw), binary.BigEndian)
		if err := ib.Add(bt); err != nil {
			return errors.Wrapf(err, "exif: tag 0x%04X in %s", uint16(t), path)
		}
	}
	return nil
}
