// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// SourceType classifies an input argument.
type SourceType int

const (
	TypeUnknown SourceType = iota
	TypeFile
	TypeURL
)

func (t SourceType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// Classify determines whether src names a local file or a URL and returns
// it trimmed of surrounding whitespace.
func Classify(src string) (SourceType, string) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return TypeUnknown, src
	case hasScheme(src, "https://"), hasScheme(src, "http://"):
		return TypeURL, src
	default:
		return TypeFile, src
	}
}

func hasScheme(s, scheme string) bool {
	return len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme)
}

// NormalizeURL upgrades plain http URLs to https. Scene hosts redirect
// http anyway, and some refuse it outright.
func NormalizeURL(u string) string {
	if hasScheme(u, "http://") {
		return "https://" + u[len("http://"):]
	}
	return u
}

// NameOf returns the file name a source should be known by: the base name
// of a path, or the last segment of a URL path. It may be empty for URLs
// without a path.
func NameOf(t SourceType, src string) string {
	switch t {
	case TypeFile:
		return filepath.Base(src)
	case TypeURL:
		parsed, err := url.Parse(src)
		if err != nil {
			return ""
		}
		base := path.Base(parsed.Path)
		if base == "/" || base == "." {
			return ""
		}
		return base
	default:
		return ""
	}
}
