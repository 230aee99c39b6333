// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrub removes provenance metadata from images and, optionally,
// perturbs pixel values so the output no longer matches the generator's
// bytes.
package scrub

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdiddy/fetchsub/internal/errors"
	"github.com/pdiddy/fetchsub/internal/exif"
	"github.com/pdiddy/fetchsub/internal/filetype"
	"github.com/pdiddy/fetchsub/pkg/types"
)

const (
	// DefaultQuality is the JPEG quality used when re-encoding.
	DefaultQuality = 95

	outputPrefix = "clean_"
	defaultBase  = "image"
)

// Options configures Scrub.
type Options struct {
	Intensity types.ScrubIntensity
	// Quality is the JPEG encoder quality, 1..100.
	Quality int
	// Lossless strips metadata segments from JPEG input without decoding.
	Lossless bool
	// Seed fixes the noise generator; 0 picks a random seed.
	Seed uint64
}

// DefaultOptions returns a light scrub at quality 95.
func DefaultOptions() Options {
	return Options{Intensity: types.ScrubLight, Quality: DefaultQuality}
}

// Report describes what Scrub did.
type Report struct {
	Width, Height   int
	PixelsPerturbed int
	SegmentsRemoved int
	Reencoded       bool
}

// Changes returns the report as counters for batch reporting.
func (r Report) Changes() map[string]int {
	reencoded := 0
	if r.Reencoded {
		reencoded = 1
	}
	return map[string]int{
		"pixels_perturbed": r.PixelsPerturbed,
		"segments_removed": r.SegmentsRemoved,
		"reencoded":        reencoded,
	}
}

// Scrub returns a JPEG copy of the image in data that carries an empty EXIF
// block and no other metadata.
func Scrub(data []byte, opts Options) ([]byte, Report, error) {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}
	switch opts.Intensity {
	case "":
		opts.Intensity = types.ScrubLight
	case types.ScrubLight, types.ScrubDeep:
	default:
		return nil, Report{}, errors.Wrapf(errors.ErrInvalidConfig, "unknown intensity %q", opts.Intensity)
	}

	isJPEG := filetype.Detect(data) == filetype.JPEG
	if opts.Lossless && isJPEG {
		return stripOnly(data)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Report{}, errors.Wrapf(errors.ErrMalformedInput, "decoding image: %v", err)
	}

	canvas := flatten(src)
	if isJPEG {
		if d, err := exif.Load(data); err == nil {
			canvas = orient(canvas, exif.Orientation(d))
		}
	}

	var rep Report
	if opts.Intensity == types.ScrubDeep {
		rep.PixelsPerturbed = perturb(canvas, newRand(opts.Seed))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, Report{}, fmt.Errorf("encoding jpeg: %w", err)
	}
	out, err := exif.Insert(buf.Bytes(), exif.EmptySegment())
	if err != nil {
		return nil, Report{}, err
	}

	b := canvas.Bounds()
	rep.Width, rep.Height = b.Dx(), b.Dy()
	rep.Reencoded = true
	return out, rep, nil
}

// stripOnly drops metadata segments and writes an EXIF block holding only
// the orientation, leaving the compressed image data as it was. Without a
// decode the pixels are still stored unrotated, so the tag must survive.
func stripOnly(data []byte) ([]byte, Report, error) {
	orientation := 1
	if d, err := exif.Load(data); err == nil {
		orientation = exif.Orientation(d)
	}
	stripped, removed, err := exif.StripMetadata(data)
	if err != nil {
		return nil, Report{}, err
	}
	out, err := exif.Insert(stripped, exif.OrientationSegment(orientation))
	if err != nil {
		return nil, Report{}, err
	}
	rep := Report{SegmentsRemoved: removed}
	if cfg, err := jpeg.DecodeConfig(bytes.NewReader(data)); err == nil {
		rep.Width, rep.Height = cfg.Width, cfg.Height
	}
	return out, rep, nil
}

// flatten composites src over opaque black on a zero-origin canvas, the way
// a browser canvas exports JPEG.
func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Over)
	return canvas
}

// OutputName maps render.png to clean_render.jpg.
func OutputName(name string) string {
	base := filepath.Base(name)
	if name == "" || base == "." || base == "/" {
		base = defaultBase
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = defaultBase
	}
	return outputPrefix + base + ".jpg"
}
