// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrub

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/fetchsub/internal/errors"
	"github.com/pdiddy/fetchsub/internal/exif"
	"github.com/pdiddy/fetchsub/pkg/types"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func insertSegments(jpg []byte, segs ...[]byte) []byte {
	out := append([]byte{}, jpg[:2]...)
	for _, s := range segs {
		out = append(out, s...)
	}
	return append(out, jpg[2:]...)
}

func appSegment(marker byte, payload []byte) []byte {
	seg := []byte{0xFF, marker}
	seg = binary.BigEndian.AppendUint16(seg, uint16(len(payload)+2))
	return append(seg, payload...)
}

func exifSegment(t *testing.T, d *exif.Data) []byte {
	t.Helper()
	tiff, err := d.Encode()
	require.NoError(t, err)
	seg, err := exif.Segment(tiff)
	require.NoError(t, err)
	return seg
}

func TestScrub_PNGToJPEGWithEmptyExif(t *testing.T) {
	src := gradient(32, 16)
	src.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	out, rep, err := Scrub(encodePNG(t, src), DefaultOptions())
	require.NoError(t, err)

	assert.True(t, rep.Reencoded)
	assert.Equal(t, 32, rep.Width)
	assert.Equal(t, 16, rep.Height)
	assert.Zero(t, rep.PixelsPerturbed)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())

	d, err := exif.Load(out)
	require.NoError(t, err)
	assert.True(t, d.Empty())

	segs, err := exif.Segments(out)
	require.NoError(t, err)
	assert.True(t, segs[1].IsExif(), "empty EXIF goes right after SOI")
}

func TestScrub_TransparentBecomesBlack(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	out, _, err := Scrub(encodePNG(t, img), DefaultOptions())
	require.NoError(t, err)

	dec, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, g, b, _ := dec.At(8, 8).RGBA()
	assert.Less(t, r>>8, uint32(8))
	assert.Less(t, g>>8, uint32(8))
	assert.Less(t, b>>8, uint32(8))
}

func TestScrub_RemovesExistingMetadata(t *testing.T) {
	d := exif.New()
	d.IFD0[exif.TagSoftware] = exif.ASCII("Generator 3")
	in := insertSegments(encodeJPEG(t, gradient(16, 16)),
		exifSegment(t, d),
		appSegment(0xFE, []byte("prompt: a cat")))

	out, _, err := Scrub(in, DefaultOptions())
	require.NoError(t, err)

	got, err := exif.Load(out)
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.NotContains(t, string(out), "prompt: a cat")
}

func TestScrub_DeepIsDeterministicForSeed(t *testing.T) {
	in := encodePNG(t, gradient(64, 64))
	opts := Options{Intensity: types.ScrubDeep, Quality: 95, Seed: 42}

	a, repA, err := Scrub(in, opts)
	require.NoError(t, err)
	b, repB, err := Scrub(in, opts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, repA, repB)
	assert.InDelta(t, 64*64/2, repA.PixelsPerturbed, 300)

	light, _, err := Scrub(in, DefaultOptions())
	require.NoError(t, err)
	assert.NotEqual(t, light, a)
}

func TestScrub_Lossless(t *testing.T) {
	base := encodeJPEG(t, gradient(8, 8))
	icc := appSegment(0xE2, append([]byte("ICC_PROFILE\x00"), 1, 1))
	in := insertSegments(base, exifSegment(t, exif.New()), icc, appSegment(0xED, []byte("Photoshop 3.0\x00")))

	out, rep, err := Scrub(in, Options{Lossless: true})
	require.NoError(t, err)

	assert.False(t, rep.Reencoded)
	assert.Equal(t, 2, rep.SegmentsRemoved)
	assert.Equal(t, 8, rep.Width)
	assert.Equal(t, insertSegments(base, exif.EmptySegment(), icc), out)
}

func TestScrub_LosslessKeepsOrientation(t *testing.T) {
	d := exif.New()
	d.IFD0[exif.TagOrientation] = exif.Short(6)
	d.IFD0[exif.TagMake] = exif.ASCII("Generator")
	in := insertSegments(encodeJPEG(t, gradient(24, 8)), exifSegment(t, d))

	out, rep, err := Scrub(in, Options{Lossless: true})
	require.NoError(t, err)
	assert.False(t, rep.Reencoded)

	got, err := exif.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 6, exif.Orientation(got))
	assert.Len(t, got.IFD0, 1)
	assert.Equal(t, insertSegments(encodeJPEG(t, gradient(24, 8)), exif.OrientationSegment(6)), out)
}

func TestScrub_LosslessIgnoredForPNG(t *testing.T) {
	_, rep, err := Scrub(encodePNG(t, gradient(4, 4)), Options{Lossless: true})
	require.NoError(t, err)
	assert.True(t, rep.Reencoded)
}

func TestScrub_AppliesOrientation(t *testing.T) {
	d := exif.New()
	d.IFD0[exif.TagOrientation] = exif.Short(6)
	in := insertSegments(encodeJPEG(t, gradient(24, 8)), exifSegment(t, d))

	out, rep, err := Scrub(in, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 8, rep.Width)
	assert.Equal(t, 24, rep.Height)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 24, cfg.Height)
}

func TestScrub_Errors(t *testing.T) {
	_, _, err := Scrub([]byte("definitely not an image"), DefaultOptions())
	assert.ErrorIs(t, err, errors.ErrMalformedInput)

	_, _, err = Scrub(encodePNG(t, gradient(2, 2)), Options{Intensity: "extreme"})
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestPerturb_BoundedByOneLevel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 128, 255, 255
	}

	n := perturb(img, newRand(7))
	assert.Greater(t, n, 0)

	for i := 0; i < len(img.Pix); i += 4 {
		assert.LessOrEqual(t, img.Pix[i], uint8(1))
		assert.GreaterOrEqual(t, img.Pix[i+1], uint8(127))
		assert.LessOrEqual(t, img.Pix[i+1], uint8(129))
		assert.GreaterOrEqual(t, img.Pix[i+2], uint8(254))
		assert.Equal(t, uint8(255), img.Pix[i+3])
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, uint8(0), clamp(-1))
	assert.Equal(t, uint8(255), clamp(256))
	assert.Equal(t, uint8(12), clamp(12))
}

func TestOrient(t *testing.T) {
	// 3x2 source:
	//   a b c
	//   d e f
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i, v := range []uint8{'a', 'b', 'c', 'd', 'e', 'f'} {
		src.Pix[i*4] = v
	}
	row := func(img *image.RGBA) string {
		var s []byte
		b := img.Bounds()
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				s = append(s, img.Pix[img.PixOffset(x, y)])
			}
			s = append(s, '/')
		}
		return string(s)
	}

	tests := map[int]string{
		1: "abc/def/",
		2: "cba/fed/",
		3: "fed/cba/",
		4: "def/abc/",
		5: "ad/be/cf/",
		6: "da/eb/fc/",
		7: "fc/eb/da/",
		8: "cf/be/ad/",
	}
	for o, want := range tests {
		assert.Equal(t, want, row(orient(src, o)), "orientation %d", o)
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "clean_render.jpg", OutputName("render.png"))
	assert.Equal(t, "clean_photo.jpg", OutputName("/x/photo.jpeg"))
	assert.Equal(t, "clean_image.jpg", OutputName(""))
	assert.Equal(t, "clean_image.jpg", OutputName(".png"))
}
