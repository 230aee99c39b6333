// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package safezone

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"
)

// Options configures Preview.
type Options struct {
	Platform Platform
	// At is the video timestamp of the frame to preview.
	At time.Duration
	// Boxes are regions of the frame, in frame pixels, to check against
	// the chrome.
	Boxes  []image.Rectangle
	Render RenderOptions
}

// Report describes a rendered preview.
type Report struct {
	Platform  Platform        `json:"platform" yaml:"platform"`
	Width     int             `json:"width" yaml:"width"`
	Height    int             `json:"height" yaml:"height"`
	SafeArea  image.Rectangle `json:"safe_area" yaml:"safe_area"`
	Conflicts []Conflict      `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// Changes returns the report as counters for batch reporting.
func (r Report) Changes() map[string]int {
	return map[string]int{"conflicts": len(r.Conflicts)}
}

// Preview extracts a frame from data, checks opts.Boxes against the chrome
// of opts.Platform and returns the overlay rendered as PNG.
func Preview(ctx context.Context, frames *FrameSource, data []byte, opts Options) ([]byte, Report, error) {
	frame, err := frames.Frame(ctx, data, opts.At)
	if err != nil {
		return nil, Report{}, err
	}
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	rep := Report{
		Platform:  opts.Platform,
		Width:     w,
		Height:    h,
		SafeArea:  SafeArea(opts.Platform, w, h),
		Conflicts: Check(opts.Platform, w, h, opts.Boxes),
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(frame, opts.Platform, opts.Render)); err != nil {
		return nil, rep, fmt.Errorf("encoding preview: %w", err)
	}
	return buf.Bytes(), rep, nil
}
