// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package safezone

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/pdiddy/fetchsub/internal/errors"
	"github.com/pdiddy/fetchsub/internal/filetype"
)

const defaultFFmpeg = "ffmpeg"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// FrameSource turns an input file into a single still frame. Images are
// decoded directly; videos go through ffmpeg.
type FrameSource struct {
	bin  string
	exec executor
}

// NewFrameSource returns a FrameSource that runs the given ffmpeg binary,
// or "ffmpeg" from PATH when bin is empty.
func NewFrameSource(bin string) *FrameSource {
	return newFrameSource(bin, defaultExec)
}

func newFrameSource(bin string, exec executor) *FrameSource {
	if bin == "" {
		bin = defaultFFmpeg
	}
	return &FrameSource{bin: bin, exec: exec}
}

// Available reports whether the ffmpeg binary can be found.
func (s *FrameSource) Available() bool {
	_, err := s.exec.LookPath(s.bin)
	return err == nil
}

// Frame returns the frame of data at offset at. For still images at is
// ignored.
func (s *FrameSource) Frame(ctx context.Context, data []byte, at time.Duration) (image.Image, error) {
	if filetype.IsImage(data) {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(errors.ErrMalformedInput, "decoding image: %v", err)
		}
		return img, nil
	}
	if !s.Available() {
		return nil, errors.Wrapf(errors.ErrFrameExtraction, "%s not found on PATH", s.bin)
	}

	// ffmpeg needs a seekable input for most containers.
	tmp, err := os.CreateTemp("", "fetchsub-video-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		return nil, fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	var stdout, stderr bytes.Buffer
	if err := s.exec.Run(ctx, s.bin, frameArgs(tmp.Name(), at), &stdout, &stderr); err != nil {
		return nil, errors.Wrapf(errors.ErrFrameExtraction, "%s: %v: %s", s.bin, err, bytes.TrimSpace(stderr.Bytes()))
	}
	if stdout.Len() == 0 {
		return nil, errors.Wrapf(errors.ErrFrameExtraction, "no frame at %s", at)
	}
	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFrameExtraction, "decoding frame: %v", err)
	}
	return img, nil
}

func frameArgs(path string, at time.Duration) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe", "-vcodec", "png",
		"-",
	}
}
