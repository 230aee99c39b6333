// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/internal/batch"
	"github.com/pdiddy/fetchsub/internal/config"
	"github.com/pdiddy/fetchsub/internal/filetype"
	"github.com/pdiddy/fetchsub/internal/safezone"
	"github.com/pdiddy/fetchsub/pkg/types"
)

var safeZoneCmd = &cobra.Command{
	Use:   "safezone [file|url...]",
	Short: "Preview where platform chrome covers a vertical video",
	Long: `Safezone grabs one frame of each video (or takes an image as is), shades
the areas covered by the platform interface and outlines the safe area. One
PNG is written per platform as <name>-safezone-<platform>.png.

Use --box x,y,w,h to check regions such as captions or faces; overlaps with
the chrome are logged and counted in the report. With --overlay-only no
input is read and a transparent overlay per platform is written instead.

Frames are extracted with ffmpeg, which must be on PATH (or set --ffmpeg).`,
	RunE: runSafeZone,
}

func init() {
	f := safeZoneCmd.Flags()
	f.StringP("platform", "p", config.PlatformAll, "tiktok, instagram, youtube or all")
	f.Duration("at", 0, "timestamp of the video frame to preview (default 1s)")
	f.String("ffmpeg", "ffmpeg", "ffmpeg binary")
	f.Int("preview-width", 0, "downscale previews to this width (0 keeps frame size)")
	f.StringArray("box", nil, "region x,y,w,h in frame pixels to check (repeatable)")
	f.Bool("overlay-only", false, "write transparent overlays without reading inputs")
	f.Int("width", safezone.DefaultWidth, "overlay width for --overlay-only")
	f.Int("height", safezone.DefaultHeight, "overlay height for --overlay-only")

	bindFlag("safezone.platform", f.Lookup("platform"))
	bindFlag("safezone.at", f.Lookup("at"))
	bindFlag("safezone.ffmpeg", f.Lookup("ffmpeg"))
	bindFlag("safezone.preview_width", f.Lookup("preview-width"))
	rootCmd.AddCommand(safeZoneCmd)
}

func runSafeZone(cmd *cobra.Command, args []string) error {
	platforms, err := config.Platforms(cfg.SafeZone.Platform)
	if err != nil {
		return err
	}
	rawBoxes, _ := cmd.Flags().GetStringArray("box")
	boxes, err := parseBoxes(rawBoxes)
	if err != nil {
		return err
	}

	if overlay, _ := cmd.Flags().GetBool("overlay-only"); overlay {
		w, _ := cmd.Flags().GetInt("width")
		h, _ := cmd.Flags().GetInt("height")
		return writeOverlays(cmd, platforms, w, h)
	}

	frames := safezone.NewFrameSource(cfg.SafeZone.FFmpeg)
	if !frames.Available() {
		logger.Warn().Str("ffmpeg", cfg.SafeZone.FFmpeg).Msg("ffmpeg not found; only image inputs can be previewed")
	}

	tools := make([]batch.Tool, 0, len(platforms))
	for _, p := range platforms {
		tools = append(tools, newSafeZoneTool(frames, p, cfg.SafeZone, boxes))
	}
	return runTools(cmd, args, tools...)
}

func parseBoxes(raw []string) ([]image.Rectangle, error) {
	boxes := make([]image.Rectangle, 0, len(raw))
	for _, s := range raw {
		r, err := safezone.ParseBox(s)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, r)
	}
	return boxes, nil
}

// writeOverlays renders one transparent overlay per platform.
func writeOverlays(cmd *cobra.Command, platforms []safezone.Platform, w, h int) error {
	dir := cfg.Output.Dir
	if dir == "" {
		dir = "."
	}
	for _, p := range platforms {
		path := filepath.Join(dir, safezone.OutputName("overlay", p))
		if _, err := os.Stat(path); err == nil && !cfg.Output.Force {
			fmt.Fprintf(cmd.OutOrStdout(), "skipped: %s (already exists)\n", path)
			continue
		}
		img := safezone.Render(nil, p, safezone.RenderOptions{
			Width:        w,
			Height:       h,
			PreviewWidth: cfg.SafeZone.PreviewWidth,
		})
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encoding overlay: %w", err)
		}
		if err := acquire.WriteFile(path, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s overlay: %s\n", p.Title(), path)
	}
	return nil
}

// safeZoneTool adapts safezone.Preview for one platform to the batch runner.
type safeZoneTool struct {
	frames *safezone.FrameSource
	opts   safezone.Options
}

func newSafeZoneTool(frames *safezone.FrameSource, p safezone.Platform, c types.SafeZoneConfig, boxes []image.Rectangle) *safeZoneTool {
	render := safezone.DefaultRenderOptions()
	render.PreviewWidth = c.PreviewWidth
	return &safeZoneTool{
		frames: frames,
		opts: safezone.Options{
			Platform: p,
			At:       c.At,
			Boxes:    boxes,
			Render:   render,
		},
	}
}

func (t *safeZoneTool) Name() string { return "safezone-" + string(t.opts.Platform) }

func (t *safeZoneTool) OutputName(name string) string {
	return safezone.OutputName(name, t.opts.Platform)
}

func (t *safeZoneTool) Process(ctx context.Context, src *acquire.Source) (*batch.Result, error) {
	if err := filetype.RequireVideoOrImage(src.Data); err != nil {
		return nil, err
	}
	out, rep, err := safezone.Preview(ctx, t.frames, src.Data, t.opts)
	if err != nil {
		return nil, err
	}
	for _, c := range rep.Conflicts {
		logger.Warn().Str("input", src.Origin).Str("platform", string(rep.Platform)).
			Msg(c.String())
	}
	logger.Debug().Str("input", src.Origin).Str("platform", string(rep.Platform)).
		Str("safe_area", rep.SafeArea.String()).Msg("rendered preview")
	return &batch.Result{Data: out, Changes: rep.Changes()}, nil
}
