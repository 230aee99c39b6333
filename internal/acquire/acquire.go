// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire loads tool inputs from local files or URLs and writes
// outputs atomically.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/fetchsub/internal/errors"
	"github.com/pdiddy/fetchsub/internal/httputil"
	"github.com/pdiddy/fetchsub/pkg/types"
)

const defaultMaxBytes = 512 << 20

// Source is one loaded input, held entirely in memory.
type Source struct {
	// Origin is the path or URL as given by the user.
	Origin string
	// Type says whether Origin was a file or a URL.
	Type SourceType
	// Name is the file name used to derive the output name.
	Name string
	// Dir is the directory of a file source; empty for URLs.
	Dir string
	// Data is the complete file content.
	Data []byte
}

// Fetcher loads sources from disk or over HTTP.
type Fetcher struct {
	Client *http.Client
	HTTP   types.HTTPConfig
}

// NewFetcher returns a Fetcher whose client uses cfg.Timeout.
func NewFetcher(cfg types.HTTPConfig) *Fetcher {
	return &Fetcher{
		Client: &http.Client{Timeout: cfg.Timeout},
		HTTP:   cfg,
	}
}

// Load reads src into memory. URLs are fetched over https.
func (f *Fetcher) Load(ctx context.Context, src string) (*Source, error) {
	t, norm := Classify(src)
	switch t {
	case TypeFile:
		data, err := os.ReadFile(norm)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", norm, err)
		}
		return &Source{
			Origin: src,
			Type:   t,
			Name:   NameOf(t, norm),
			Dir:    filepath.Dir(norm),
			Data:   data,
		}, nil
	case TypeURL:
		u := NormalizeURL(norm)
		data, err := f.download(ctx, u)
		if err != nil {
			return nil, errors.Wrapf(err, "downloading %s", u)
		}
		return &Source{
			Origin: src,
			Type:   t,
			Name:   NameOf(t, u),
			Data:   data,
		}, nil
	default:
		return nil, errors.Reject(errors.ErrWrongFileType, "please enter a URL or choose a file")
	}
}

// download fetches u and returns its body. Bodies larger than MaxBytes are
// refused rather than truncated.
func (f *Fetcher) download(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", errors.ErrFetch, err)
	}
	if f.HTTP.UserAgent != "" {
		req.Header.Set("User-Agent", f.HTTP.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, f.HTTP.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d from %s", errors.ErrFetch, resp.StatusCode, u)
	}

	limit := f.HTTP.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", errors.ErrFetch, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", errors.ErrFetch, limit)
	}
	return data, nil
}

// WriteFile writes data to destPath through a temporary file in the same
// directory and renames it into place, so a failed write never leaves a
// partial output behind.
func WriteFile(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".fetchsub-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
