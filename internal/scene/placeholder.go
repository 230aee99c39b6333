// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scene

import "bytes"

// placeholderPNG is a complete 1x1 fully transparent RGBA PNG (67 bytes).
var placeholderPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	// IHDR: 1x1, 8-bit RGBA
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
	// IDAT
	0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41, 0x54,
	0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00, 0x05, 0x00, 0x01,
	0x0D, 0x0A, 0x2D, 0xB4,
	// IEND
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44,
	0xAE, 0x42, 0x60, 0x82,
}

// Placeholder returns a copy of the image written over watermarks.
func Placeholder() []byte {
	return bytes.Clone(placeholderPNG)
}
