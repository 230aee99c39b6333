// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scene removes the logo flag and watermark texture from exported
// 3D scene files.
//
// The container format is undocumented. Clean works by byte-pattern
// substitution: it never parses the file and makes no attempt to validate
// it, so it assumes the marker strings occur only where they name the
// watermark objects.
package scene

import (
	"bytes"
	"strings"
)

const (
	// msgpackTrue and msgpackFalse are the one-byte msgpack booleans.
	msgpackTrue  = 0xC3
	msgpackFalse = 0xC2

	sceneExt       = ".splinecode"
	defaultOutName = "scene-clean" + sceneExt
)

var (
	pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	// pngTail is the IEND chunk type plus its fixed CRC.
	pngTail = []byte{'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}
)

// Options configures the byte patterns Clean looks for.
type Options struct {
	// FlagMarker precedes the boolean logo flag.
	FlagMarker string
	// FlagWindow is the number of bytes after FlagMarker that are inspected.
	FlagWindow int
	// WatermarkMarker precedes the embedded watermark image.
	WatermarkMarker string
	// SignatureWindow bounds how far after WatermarkMarker the PNG may start.
	SignatureWindow int
}

// DefaultOptions returns the patterns observed in exported scenes.
func DefaultOptions() Options {
	return Options{
		FlagMarker:      "logo",
		FlagWindow:      10,
		WatermarkMarker: "SplineWatermark",
		SignatureWindow: 500,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FlagMarker == "" {
		o.FlagMarker = d.FlagMarker
	}
	if o.FlagWindow <= 0 {
		o.FlagWindow = d.FlagWindow
	}
	if o.WatermarkMarker == "" {
		o.WatermarkMarker = d.WatermarkMarker
	}
	if o.SignatureWindow <= 0 {
		o.SignatureWindow = d.SignatureWindow
	}
	return o
}

// Report counts what Clean changed.
type Report struct {
	// FlagsFlipped is the number of true bytes turned into false.
	FlagsFlipped int
	// ImagesReplaced is the number of watermark images overwritten.
	ImagesReplaced int
	// ImagesSkipped counts watermark images too small to hold the
	// placeholder.
	ImagesSkipped int
}

// Changed reports whether any byte was modified.
func (r Report) Changed() bool {
	return r.FlagsFlipped > 0 || r.ImagesReplaced > 0
}

// Changes returns the report as named counters.
func (r Report) Changes() map[string]int {
	return map[string]int{
		"flags_flipped":   r.FlagsFlipped,
		"images_replaced": r.ImagesReplaced,
		"images_skipped":  r.ImagesSkipped,
	}
}

// Clean returns a copy of data with the logo flag disabled and every
// watermark image replaced by a transparent 1x1 PNG. The output always has
// the same length as data, and data itself is not modified.
//
// Running Clean on its own output returns identical bytes and a report
// whose Changed method is false. ImagesSkipped is not a change: a watermark
// too small to overwrite is still there and is reported on every run.
func Clean(data []byte, opts Options) ([]byte, Report) {
	opts = opts.withDefaults()
	out := bytes.Clone(data)
	if out == nil {
		out = []byte{}
	}

	var rep Report
	rep.FlagsFlipped = flipFlags(out, []byte(opts.FlagMarker), opts.FlagWindow)
	rep.ImagesReplaced, rep.ImagesSkipped = replaceImages(out, []byte(opts.WatermarkMarker), opts.SignatureWindow)
	return out, rep
}

// flipFlags rewrites msgpack true to false in the window following every
// occurrence of marker.
func flipFlags(buf, marker []byte, window int) int {
	flipped := 0
	for _, at := range indexAll(buf, marker) {
		start := at + len(marker)
		end := min(start+window, len(buf))
		for k := start; k < end; k++ {
			if buf[k] == msgpackTrue {
				buf[k] = msgpackFalse
				flipped++
			}
		}
	}
	return flipped
}

// replaceImages overwrites the PNG that follows each occurrence of marker.
func replaceImages(buf, marker []byte, window int) (replaced, skipped int) {
	for _, at := range indexAll(buf, marker) {
		// The signature must start within window bytes of the marker.
		searchEnd := min(at+window+len(pngSignature)-1, len(buf))
		rel := bytes.Index(buf[at:searchEnd], pngSignature)
		if rel < 0 {
			continue
		}
		start := at + rel

		tail := bytes.Index(buf[start:], pngTail)
		if tail < 0 {
			continue
		}
		end := start + tail + len(pngTail)
		span := buf[start:end]

		switch {
		case isPlaceholder(span):
		case len(span) < len(placeholderPNG):
			skipped++
		default:
			n := copy(span, placeholderPNG)
			clear(span[n:])
			replaced++
		}
	}
	return replaced, skipped
}

// isPlaceholder reports whether span already holds the placeholder image
// followed only by zero bytes.
func isPlaceholder(span []byte) bool {
	if !bytes.HasPrefix(span, placeholderPNG) {
		return false
	}
	for _, b := range span[len(placeholderPNG):] {
		if b != 0 {
			return false
		}
	}
	return true
}

// indexAll returns the offsets of every (possibly overlapping) occurrence
// of sep in buf.
func indexAll(buf, sep []byte) []int {
	if len(sep) == 0 {
		return nil
	}
	var res []int
	for off := 0; off <= len(buf)-len(sep); {
		i := bytes.Index(buf[off:], sep)
		if i < 0 {
			break
		}
		res = append(res, off+i)
		off += i + 1
	}
	return res
}

// OutputName derives the cleaned file name from the input name.
func OutputName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "/" || name == "." {
		return defaultOutName
	}
	if strings.HasSuffix(name, sceneExt) {
		return strings.TrimSuffix(name, sceneExt) + "-clean" + sceneExt
	}
	return name + "-clean" + sceneExt
}
