// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads fetchsub settings from defaults, an optional YAML
// file, FETCHSUB_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/pdiddy/fetchsub/internal/errors"
	"github.com/pdiddy/fetchsub/internal/pdfmask"
	"github.com/pdiddy/fetchsub/internal/safezone"
	"github.com/pdiddy/fetchsub/pkg/types"
)

const (
	// EnvPrefix prefixes every environment override, e.g. FETCHSUB_OUTPUT_JOBS.
	EnvPrefix = "FETCHSUB"
	// FileName is the config file name searched for without extension.
	FileName = "fetchsub"

	// PlatformAll renders every supported platform.
	PlatformAll = "all"

	maxJobs = 64
)

// New returns a Viper instance with defaults set and environment overrides
// enabled.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", 60*time.Second)
	v.SetDefault("http.user_agent", "fetchsub/1.0")
	v.SetDefault("http.max_retries", 5)
	v.SetDefault("http.max_bytes", int64(512<<20))

	v.SetDefault("output.dir", "")
	v.SetDefault("output.force", false)
	v.SetDefault("output.report", "")
	v.SetDefault("output.jobs", 1)

	v.SetDefault("scene.flag_marker", "logo")
	v.SetDefault("scene.flag_window", 10)
	v.SetDefault("scene.watermark_marker", "SplineWatermark")
	v.SetDefault("scene.signature_window", 500)

	v.SetDefault("pdf.height", pdfmask.DefaultHeight)
	v.SetDefault("pdf.color", "white")

	v.SetDefault("scrub.intensity", string(types.ScrubLight))
	v.SetDefault("scrub.quality", 95)
	v.SetDefault("scrub.lossless", false)
	v.SetDefault("scrub.seed", 0)

	v.SetDefault("safezone.platform", PlatformAll)
	v.SetDefault("safezone.at", time.Second)
	v.SetDefault("safezone.ffmpeg", "ffmpeg")
	v.SetDefault("safezone.preview_width", 0)

	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// ReadInConfig loads file when given, otherwise the first fetchsub.yaml
// found in the working directory or ~/.config/fetchsub. A missing search
// file is not an error. It returns the file used, if any.
func ReadInConfig(v *viper.Viper, file string) (string, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", errors.Wrapf(errors.ErrInvalidConfig, "reading config: %v", err)
	}
	return v.ConfigFileUsed(), nil
}

// Unmarshal decodes v into a Config and validates it.
func Unmarshal(v *viper.Viper) (*types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg, decoderOption()); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "decoding config: %v", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decoderOption lets durations be written as "30s" or "1m".
func decoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// Validate checks ranges and enumerations.
func Validate(cfg *types.Config) error {
	invalid := func(format string, args ...any) error {
		return errors.Wrapf(errors.ErrInvalidConfig, format, args...)
	}

	switch {
	case cfg.HTTP.Timeout < 0:
		return invalid("http.timeout must not be negative")
	case cfg.HTTP.MaxRetries < 0:
		return invalid("http.max_retries must not be negative")
	case cfg.HTTP.MaxBytes < 0:
		return invalid("http.max_bytes must not be negative")
	case cfg.Output.Jobs < 1 || cfg.Output.Jobs > maxJobs:
		return invalid("output.jobs must be between 1 and %d (got %d)", maxJobs, cfg.Output.Jobs)
	case cfg.Scene.FlagWindow < 1:
		return invalid("scene.flag_window must be positive")
	case cfg.Scene.SignatureWindow < 1:
		return invalid("scene.signature_window must be positive")
	case cfg.PDF.Height <= 0:
		return invalid("pdf.height must be positive")
	case cfg.Scrub.Quality < 1 || cfg.Scrub.Quality > 100:
		return invalid("scrub.quality must be between 1 and 100 (got %d)", cfg.Scrub.Quality)
	case cfg.SafeZone.At < 0:
		return invalid("safezone.at must not be negative")
	case cfg.SafeZone.PreviewWidth < 0:
		return invalid("safezone.preview_width must not be negative")
	}

	switch cfg.Scrub.Intensity {
	case types.ScrubLight, types.ScrubDeep:
	default:
		return invalid("scrub.intensity must be %q or %q (got %q)", types.ScrubLight, types.ScrubDeep, cfg.Scrub.Intensity)
	}

	if _, err := pdfmask.ParseColor(cfg.PDF.Color); err != nil {
		return err
	}
	if _, err := Platforms(cfg.SafeZone.Platform); err != nil {
		return err
	}
	return nil
}

// Platforms expands a platform setting; "all" yields every platform.
func Platforms(setting string) ([]safezone.Platform, error) {
	if strings.EqualFold(strings.TrimSpace(setting), PlatformAll) {
		return safezone.Platforms(), nil
	}
	p, err := safezone.ParsePlatform(setting)
	if err != nil {
		return nil, err
	}
	return []safezone.Platform{p}, nil
}
