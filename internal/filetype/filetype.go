// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filetype sniffs input bytes and rejects files a tool cannot handle.
// Detection looks at content, never at file extensions.
package filetype

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/fetchsub/internal/errors"
)

const (
	PDF  = "application/pdf"
	JPEG = "image/jpeg"
)

// Detect returns the MIME type of data without parameters, e.g. "image/png".
func Detect(data []byte) string {
	m := mimetype.Detect(data)
	mime, _, _ := strings.Cut(m.String(), ";")
	return mime
}

// decodable lists the raster formats the image tools can decode. Other
// image/* types (SVG, HEIC, AVIF, PSD, ICO) are rejected up front.
var decodable = []string{
	JPEG,
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

// IsImage reports whether data is a raster image in a decodable format.
func IsImage(data []byte) bool {
	m := mimetype.Detect(data)
	for _, mime := range decodable {
		if m.Is(mime) {
			return true
		}
	}
	return false
}

// IsVideo reports whether data is a video container.
func IsVideo(data []byte) bool {
	return strings.HasPrefix(Detect(data), "video/")
}

func reject(want string, data []byte) error {
	return errors.Reject(errors.ErrWrongFileType,
		fmt.Sprintf("please provide a valid %s file (got %s)", want, Detect(data)))
}

// RequirePDF rejects anything that is not a PDF.
func RequirePDF(data []byte) error {
	if !mimetype.Detect(data).Is(PDF) {
		return reject("PDF", data)
	}
	return nil
}

// RequireJPEG rejects anything that is not a JPEG image.
func RequireJPEG(data []byte) error {
	if !mimetype.Detect(data).Is(JPEG) {
		return errors.Reject(errors.ErrWrongFileType,
			fmt.Sprintf("only JPEG/JPG images are supported (got %s)", Detect(data)))
	}
	return nil
}

// RequireImage rejects anything that is not an image.
func RequireImage(data []byte) error {
	if !IsImage(data) {
		return reject("image", data)
	}
	return nil
}

// RequireVideoOrImage rejects anything that is neither a video nor an image.
func RequireVideoOrImage(data []byte) error {
	if !IsVideo(data) && !IsImage(data) {
		return reject("video or image", data)
	}
	return nil
}
