// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/internal/batch"
	"github.com/pdiddy/fetchsub/internal/filetype"
	"github.com/pdiddy/fetchsub/internal/pdfmask"
	"github.com/pdiddy/fetchsub/pkg/types"
)

var pdfMaskCmd = &cobra.Command{
	Use:     "pdf-mask [file|url...]",
	Aliases: []string{"pdfmask"},
	Short:   "Paint a solid band over the bottom of every PDF page",
	Long: `Pdf-mask appends a filled rectangle to every page so footers, page
stamps and generator watermarks are covered. Page content is kept; the band
is drawn on top of it. The output is written as <name>-clean.pdf.`,
	RunE: runPDFMask,
}

func init() {
	pdfMaskCmd.Flags().Float64("height", pdfmask.DefaultHeight, "band height in PDF points")
	pdfMaskCmd.Flags().String("color", "white", `band colour: "white", "black" or "#rrggbb"`)
	bindFlag("pdf.height", pdfMaskCmd.Flags().Lookup("height"))
	bindFlag("pdf.color", pdfMaskCmd.Flags().Lookup("color"))
	rootCmd.AddCommand(pdfMaskCmd)
}

func runPDFMask(cmd *cobra.Command, args []string) error {
	tool, err := newPDFMaskTool(cfg.PDF)
	if err != nil {
		return err
	}
	return runTools(cmd, args, tool)
}

// pdfMaskTool adapts pdfmask.Mask to the batch runner.
type pdfMaskTool struct {
	opts pdfmask.Options
}

func newPDFMaskTool(c types.PDFMaskConfig) (*pdfMaskTool, error) {
	col, err := pdfmask.ParseColor(c.Color)
	if err != nil {
		return nil, err
	}
	return &pdfMaskTool{opts: pdfmask.Options{Height: c.Height, Color: col}}, nil
}

func (t *pdfMaskTool) Name() string { return "pdf-mask" }

func (t *pdfMaskTool) OutputName(name string) string { return pdfmask.OutputName(name) }

func (t *pdfMaskTool) Process(ctx context.Context, src *acquire.Source) (*batch.Result, error) {
	if err := filetype.RequirePDF(src.Data); err != nil {
		return nil, err
	}
	out, rep, err := pdfmask.Mask(src.Data, t.opts)
	if err != nil {
		return nil, err
	}
	return &batch.Result{Data: out, Changes: rep.Changes()}, nil
}
