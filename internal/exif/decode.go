// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exif

import (
	"bytes"
	"encoding/binary"

	goexif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/fetchsub/internal/errors"
)

// Parse decodes a TIFF-structured EXIF block (the APP1 payload after the
// "Exif\0\0" identifier). Pointer and thumbnail-location tags are consumed
// and do not appear in the returned IFDs; Encode regenerates them. Tags the
// decoder does not know, or whose values it cannot read, are dropped.
func Parse(tiff []byte) (*Data, error) {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, errors.Wrap(err, "exif: ifd mapping")
	}
	_, index, err := goexif.Collect(im, goexif.NewTagIndex(), tiff)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedInput, "exif: %v", err)
	}

	root := index.RootIfd
	d := New()
	d.IFD0 = entries(root)

	if sub, err := root.ChildWithIfdPath(exifcommon.IfdExifStandardIfdIdentity); err == nil {
		d.Exif = entries(sub)
		if iop, err := sub.ChildWithIfdPath(exifcommon.IfdExifIopStandardIfdIdentity); err == nil {
			d.Interop = entries(iop)
		}
	}
	if gps, err := root.ChildWithIfdPath(exifcommon.IfdGpsInfoStandardIfdIdentity); err == nil {
		d.GPS = entries(gps)
	}

	if next := root.NextIfd(); next != nil {
		d.IFD1 = entries(next)
		if thumb, err := next.Thumbnail(); err == nil {
			d.Thumbnail = bytes.Clone(thumb)
		}
	}
	return d, nil
}

// entries converts the value tags of one directory.
func entries(ifd *goexif.Ifd) IFD {
	out := IFD{}
	for _, ite := range ifd.Entries() {
		if ite.ChildIfdPath() != "" || ite.IsThumbnailOffset() || ite.IsThumbnailSize() {
			continue
		}
		typ := Type(ite.TagType())
		if typ.Size() == 0 {
			continue
		}
		raw, err := ite.GetRawBytes()
		if err != nil {
			log.Debug().Err(err).Str("ifd", ite.IfdPath()).
				Msgf("exif: dropping unreadable tag 0x%04X", ite.TagId())
			continue
		}
		out[Tag(ite.TagId())] = Value{
			Type:  typ,
			Count: uint32(len(raw) / typ.Size()),
			Raw:   canonical(ifd.ByteOrder(), typ, raw),
		}
	}
	return out
}

// canonical copies raw into big-endian order.
func canonical(order binary.ByteOrder, typ Type, raw []byte) []byte {
	out := bytes.Clone(raw)
	unit := typ.unit()
	if order == binary.BigEndian || unit <= 1 {
		return out
	}
	for i := 0; i+unit <= len(out); i += unit {
		for a, b := i, i+unit-1; a < b; a, b = a+1, b-1 {
			out[a], out[b] = out[b], out[a]
		}
	}
	return out
}
