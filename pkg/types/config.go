// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds settings for tools that fetch their input over the network.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on rate-limit responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// MaxBytes caps the size of a downloaded body (default 512 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	// Dir is the output directory. Empty means next to each input file,
	// or the working directory for URL inputs.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Force overwrites existing output files instead of skipping them.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	// Report is an optional path for a YAML or JSON run report.
	Report string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report"`

	// Jobs is the number of inputs processed in parallel (default 1).
	Jobs int `json:"jobs" yaml:"jobs" mapstructure:"jobs"`
}

// SceneConfig tunes the scene-file cleaner's byte patterns.
type SceneConfig struct {
	// FlagMarker is the ASCII key preceding the logo flag (default "logo").
	FlagMarker string `json:"flag_marker" yaml:"flag_marker" mapstructure:"flag_marker"`

	// FlagWindow is how many bytes after FlagMarker are inspected (default 10).
	FlagWindow int `json:"flag_window" yaml:"flag_window" mapstructure:"flag_window"`

	// WatermarkMarker is the ASCII name preceding the watermark texture
	// (default "SplineWatermark").
	WatermarkMarker string `json:"watermark_marker" yaml:"watermark_marker" mapstructure:"watermark_marker"`

	// SignatureWindow is how far past WatermarkMarker a PNG signature may
	// start (default 500).
	SignatureWindow int `json:"signature_window" yaml:"signature_window" mapstructure:"signature_window"`
}

// PDFMaskConfig holds settings for the PDF footer masker.
type PDFMaskConfig struct {
	// Height is the mask height in PDF points (default 50).
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`

	// Color is the fill colour: "#rrggbb", "white" or "black" (default white).
	Color string `json:"color" yaml:"color" mapstructure:"color"`
}

// ScrubIntensity selects how aggressively images are scrubbed.
type ScrubIntensity string

const (
	// ScrubLight re-encodes and strips metadata without touching pixels.
	ScrubLight ScrubIntensity = "light"
	// ScrubDeep additionally perturbs pixel values.
	ScrubDeep ScrubIntensity = "deep"
)

// ScrubConfig holds settings for the image scrubber.
type ScrubConfig struct {
	// Intensity is light or deep (default light).
	Intensity ScrubIntensity `json:"intensity" yaml:"intensity" mapstructure:"intensity"`

	// Quality is the JPEG quality used when re-encoding (default 95).
	Quality int `json:"quality" yaml:"quality" mapstructure:"quality"`

	// Lossless strips JPEG metadata segments without re-encoding.
	Lossless bool `json:"lossless" yaml:"lossless" mapstructure:"lossless"`

	// Seed fixes the noise generator; 0 picks a random seed.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// SafeZoneConfig holds settings for the safe-zone previewer.
type SafeZoneConfig struct {
	// Platform is tiktok, instagram, youtube, or all (default all).
	Platform string `json:"platform" yaml:"platform" mapstructure:"platform"`

	// At is the video timestamp of the frame to preview (default 1s).
	At time.Duration `json:"at" yaml:"at" mapstructure:"at"`

	// FFmpeg is the ffmpeg binary used to extract frames (default "ffmpeg").
	FFmpeg string `json:"ffmpeg" yaml:"ffmpeg" mapstructure:"ffmpeg"`

	// PreviewWidth scales the rendered preview to this width; 0 keeps the
	// frame size.
	PreviewWidth int `json:"preview_width" yaml:"preview_width" mapstructure:"preview_width"`
}

// LogConfig controls the optional rotating log file.
type LogConfig struct {
	// File is the log file path; empty disables file logging.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`

	// MaxSizeMB is the size at which the log file rotates (default 10).
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`

	// MaxAgeDays is how long rotated files are kept (default 28).
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days" mapstructure:"max_age_days"`
}

// Config groups the settings of every tool.
type Config struct {
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Output   OutputConfig   `json:"output" yaml:"output" mapstructure:"output"`
	Scene    SceneConfig    `json:"scene" yaml:"scene" mapstructure:"scene"`
	PDF      PDFMaskConfig  `json:"pdf" yaml:"pdf" mapstructure:"pdf"`
	Scrub    ScrubConfig    `json:"scrub" yaml:"scrub" mapstructure:"scrub"`
	SafeZone SafeZoneConfig `json:"safezone" yaml:"safezone" mapstructure:"safezone"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
