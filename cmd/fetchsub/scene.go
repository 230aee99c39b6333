// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/internal/batch"
	"github.com/pdiddy/fetchsub/internal/scene"
	"github.com/pdiddy/fetchsub/pkg/types"
)

var sceneCmd = &cobra.Command{
	Use:   "scene [file|url...]",
	Short: "Remove the logo flag and watermark texture from scene exports",
	Long: `Scene disables the logo flag and replaces every embedded watermark
image with a transparent placeholder of the same size. The output has the
same length as the input and is written as <name>-clean.splinecode.

Running scene on an already cleaned file changes nothing.`,
	RunE: runScene,
}

func init() {
	rootCmd.AddCommand(sceneCmd)
}

func runScene(cmd *cobra.Command, args []string) error {
	return runTools(cmd, args, newSceneTool(cfg.Scene))
}

// sceneTool adapts scene.Clean to the batch runner.
type sceneTool struct {
	opts scene.Options
}

func newSceneTool(c types.SceneConfig) *sceneTool {
	return &sceneTool{opts: scene.Options{
		FlagMarker:      c.FlagMarker,
		FlagWindow:      c.FlagWindow,
		WatermarkMarker: c.WatermarkMarker,
		SignatureWindow: c.SignatureWindow,
	}}
}

func (t *sceneTool) Name() string { return "scene" }

func (t *sceneTool) OutputName(name string) string { return scene.OutputName(name) }

func (t *sceneTool) Process(ctx context.Context, src *acquire.Source) (*batch.Result, error) {
	if ext := strings.ToLower(filepath.Ext(src.Name)); ext != "" && ext != ".splinecode" {
		logger.Warn().Str("input", src.Origin).Msg("input does not look like a .splinecode export")
	}
	out, rep := scene.Clean(src.Data, t.opts)
	if !rep.Changed() {
		logger.Info().Str("input", src.Origin).Msg("no logo flag or watermark found")
	}
	if rep.ImagesSkipped > 0 {
		logger.Warn().Str("input", src.Origin).Int("skipped", rep.ImagesSkipped).
			Msg("watermark image too small for placeholder")
	}
	return &batch.Result{Data: out, Changes: rep.Changes()}, nil
}
