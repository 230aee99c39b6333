// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/internal/batch"
	"github.com/pdiddy/fetchsub/internal/filetype"
	"github.com/pdiddy/fetchsub/internal/scrub"
	"github.com/pdiddy/fetchsub/pkg/types"
)

var scrubCmd = &cobra.Command{
	Use:   "scrub [file|url...]",
	Short: "Re-encode images without provenance metadata",
	Long: `Scrub decodes an image, applies its EXIF orientation and re-encodes it as
JPEG with an empty EXIF block. XMP, IPTC, C2PA/JUMBF and comments are not
carried over. Deep intensity also adds ±1 noise to half of the pixel
channels.

With --lossless, JPEG inputs keep their pixels untouched and only the
metadata segments are removed. The output is written as clean_<name>.jpg.`,
	RunE: runScrub,
}

func init() {
	f := scrubCmd.Flags()
	f.String("intensity", string(types.ScrubLight), "light or deep")
	f.Int("quality", scrub.DefaultQuality, "JPEG quality, 1-100")
	f.Bool("lossless", false, "strip JPEG metadata without re-encoding")
	f.Uint64("seed", 0, "noise seed for deep mode (0 = random)")
	bindFlag("scrub.intensity", f.Lookup("intensity"))
	bindFlag("scrub.quality", f.Lookup("quality"))
	bindFlag("scrub.lossless", f.Lookup("lossless"))
	bindFlag("scrub.seed", f.Lookup("seed"))
	rootCmd.AddCommand(scrubCmd)
}

func runScrub(cmd *cobra.Command, args []string) error {
	return runTools(cmd, args, newScrubTool(cfg.Scrub))
}

// scrubTool adapts scrub.Scrub to the batch runner.
type scrubTool struct {
	opts scrub.Options
}

func newScrubTool(c types.ScrubConfig) *scrubTool {
	return &scrubTool{opts: scrub.Options{
		Intensity: c.Intensity,
		Quality:   c.Quality,
		Lossless:  c.Lossless,
		Seed:      c.Seed,
	}}
}

func (t *scrubTool) Name() string { return "scrub" }

func (t *scrubTool) OutputName(name string) string { return scrub.OutputName(name) }

func (t *scrubTool) Process(ctx context.Context, src *acquire.Source) (*batch.Result, error) {
	if err := filetype.RequireImage(src.Data); err != nil {
		return nil, err
	}
	out, rep, err := scrub.Scrub(src.Data, t.opts)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("input", src.Origin).Int("width", rep.Width).Int("height", rep.Height).
		Bool("reencoded", rep.Reencoded).Msg("scrubbed")
	return &batch.Result{Data: out, Changes: rep.Changes()}, nil
}
