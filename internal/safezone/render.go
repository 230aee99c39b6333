// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package safezone

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Default overlay size for a 9:16 upload.
const (
	DefaultWidth  = 1080
	DefaultHeight = 1920
)

// RenderOptions configures Render.
type RenderOptions struct {
	// Width and Height size the overlay when no frame is given.
	Width, Height int
	// PreviewWidth downscales the result when smaller than the frame width.
	PreviewWidth int
	// Shade fills chrome zones; Outline strokes the safe area.
	Shade   color.NRGBA
	Outline color.NRGBA
}

// DefaultRenderOptions returns translucent red zones with a green safe-area
// outline on a 1080×1920 overlay.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Shade:   color.NRGBA{R: 255, A: 96},
		Outline: color.NRGBA{G: 220, B: 90, A: 255},
	}
}

func (o RenderOptions) withDefaults() RenderOptions {
	d := DefaultRenderOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Shade == (color.NRGBA{}) {
		o.Shade = d.Shade
	}
	if o.Outline == (color.NRGBA{}) {
		o.Outline = d.Outline
	}
	return o
}

// Render draws the chrome zones and safe-area outline of p over frame. A nil
// frame produces a transparent overlay of opts.Width×opts.Height.
func Render(frame image.Image, p Platform, opts RenderOptions) *image.RGBA {
	opts = opts.withDefaults()

	var canvas *image.RGBA
	if frame == nil {
		canvas = image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	} else {
		b := frame.Bounds()
		canvas = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(canvas, canvas.Bounds(), frame, b.Min, draw.Src)
	}
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()

	shade := image.NewUniform(opts.Shade)
	for _, z := range Zones(p, w, h) {
		draw.Draw(canvas, z.Rect, shade, image.Point{}, draw.Over)
	}
	outline(canvas, SafeArea(p, w, h), max(2, w/270), image.NewUniform(opts.Outline))

	if opts.PreviewWidth > 0 && opts.PreviewWidth < w {
		ph := max(1, h*opts.PreviewWidth/w)
		small := image.NewRGBA(image.Rect(0, 0, opts.PreviewWidth, ph))
		draw.CatmullRom.Scale(small, small.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
		return small
	}
	return canvas
}

// outline strokes the inside edge of r with the given thickness.
func outline(dst draw.Image, r image.Rectangle, t int, src image.Image) {
	if r.Empty() {
		return
	}
	t = min(t, r.Dx()/2, r.Dy()/2)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+t, r.Min.X+t, r.Max.Y-t),
		image.Rect(r.Max.X-t, r.Min.Y+t, r.Max.X, r.Max.Y-t),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Over)
	}
}
