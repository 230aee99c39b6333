// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package safezone

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/pdiddy/fetchsub/internal/errors"
)

// Reference frame the layouts were measured on.
const (
	RefWidth  = 360
	RefHeight = 640
)

// Kind groups zones by where they sit on screen.
type Kind string

const (
	KindStatusBar Kind = "status_bar"
	KindHeader    Kind = "header"
	KindRail      Kind = "action_rail"
	KindCaption   Kind = "caption"
)

// Zone is one region covered by platform chrome.
type Zone struct {
	Kind Kind            `json:"kind" yaml:"kind"`
	Rect image.Rectangle `json:"rect" yaml:"rect"`
}

var statusBar = Zone{KindStatusBar, image.Rect(0, 0, 360, 32)}

var layouts = map[Platform][]Zone{
	TikTok: {
		statusBar,
		{KindHeader, image.Rect(0, 32, 360, 64)},
		{KindRail, image.Rect(304, 200, 352, 544)},
		{KindCaption, image.Rect(16, 520, 296, 624)},
	},
	Instagram: {
		statusBar,
		{KindHeader, image.Rect(0, 32, 360, 64)},
		{KindRail, image.Rect(304, 300, 344, 544)},
		{KindCaption, image.Rect(16, 512, 296, 608)},
	},
	YouTube: {
		statusBar,
		{KindHeader, image.Rect(0, 32, 360, 56)},
		{KindRail, image.Rect(304, 136, 352, 544)},
		{KindCaption, image.Rect(16, 552, 296, 624)},
	},
}

// Zones returns the chrome regions of p scaled to a w×h frame.
func Zones(p Platform, w, h int) []Zone {
	ref := layouts[p]
	out := make([]Zone, len(ref))
	for i, z := range ref {
		out[i] = Zone{Kind: z.Kind, Rect: scale(z.Rect, w, h)}
	}
	return out
}

func scale(r image.Rectangle, w, h int) image.Rectangle {
	sx := func(v int) int { return (v*w + RefWidth/2) / RefWidth }
	sy := func(v int) int { return (v*h + RefHeight/2) / RefHeight }
	return image.Rect(sx(r.Min.X), sy(r.Min.Y), sx(r.Max.X), sy(r.Max.Y))
}

// SafeArea is the largest rectangle below the top chrome, above the caption
// block and left of the action rail.
func SafeArea(p Platform, w, h int) image.Rectangle {
	top, bottom, right := 0, h, w
	for _, z := range Zones(p, w, h) {
		switch z.Kind {
		case KindStatusBar, KindHeader:
			top = max(top, z.Rect.Max.Y)
		case KindCaption:
			bottom = min(bottom, z.Rect.Min.Y)
		case KindRail:
			right = min(right, z.Rect.Min.X)
		}
	}
	return image.Rect(0, top, right, bottom)
}

// Conflict records a user box that chrome would cover.
type Conflict struct {
	Box     int             `json:"box" yaml:"box"`
	Zone    Zone            `json:"zone" yaml:"zone"`
	Overlap image.Rectangle `json:"overlap" yaml:"overlap"`
	Area    int             `json:"area" yaml:"area"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("box %d overlaps %s by %d px² at %v", c.Box+1, c.Zone.Kind, c.Area, c.Overlap)
}

// Check returns every intersection between boxes and the chrome of p on a
// w×h frame, ordered by box then zone.
func Check(p Platform, w, h int, boxes []image.Rectangle) []Conflict {
	zones := Zones(p, w, h)
	var out []Conflict
	for i, b := range boxes {
		for _, z := range zones {
			o := b.Canon().Intersect(z.Rect)
			if o.Empty() {
				continue
			}
			out = append(out, Conflict{Box: i, Zone: z, Overlap: o, Area: o.Dx() * o.Dy()})
		}
	}
	return out
}

// ParseBox reads "x,y,w,h" in frame pixels.
func ParseBox(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, errors.Wrapf(errors.ErrInvalidConfig, "box %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, errors.Wrapf(errors.ErrInvalidConfig, "box %q: %v", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, errors.Wrapf(errors.ErrInvalidConfig, "box %q: width and height must be positive", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}
