// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package safezone marks the parts of a vertical video frame that platform
// interface chrome covers, so text and faces can be kept clear of them.
package safezone

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/fetchsub/internal/errors"
)

// Platform is a short-form video app whose overlay layout is known.
type Platform string

const (
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
	YouTube   Platform = "youtube"
)

// Platforms lists the supported platforms in display order.
func Platforms() []Platform {
	return []Platform{TikTok, Instagram, YouTube}
}

// Title is the product name shown to users.
func (p Platform) Title() string {
	switch p {
	case TikTok:
		return "TikTok"
	case Instagram:
		return "Instagram Reels"
	case YouTube:
		return "YouTube Shorts"
	default:
		return string(p)
	}
}

// ParsePlatform accepts a platform name or one of the aliases "reels",
// "shorts", "ig" and "yt".
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tiktok", "tt":
		return TikTok, nil
	case "instagram", "reels", "ig":
		return Instagram, nil
	case "youtube", "shorts", "yt":
		return YouTube, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidConfig, "unknown platform %q (want tiktok, instagram or youtube)", s)
	}
}

// OutputName maps clip.mp4 to clip-safezone-tiktok.png.
func OutputName(name string, p Platform) string {
	base := filepath.Base(name)
	if name == "" || base == "." || base == "/" {
		base = "frame"
	}
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		base = stem
	}
	return fmt.Sprintf("%s-safezone-%s.png", base, p)
}
