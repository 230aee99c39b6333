// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/internal/batch"
	"github.com/pdiddy/fetchsub/pkg/types"
)

// runTools processes args with each tool in turn using the shared output
// settings, then writes one run report covering every tool.
func runTools(cmd *cobra.Command, args []string, tools ...batch.Tool) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more files or URLs")
	}

	loader := acquire.NewFetcher(cfg.HTTP)
	var (
		reports       []types.FileReport
		failed, total int
	)
	for _, tool := range tools {
		runner := &batch.Runner{
			Loader: loader,
			OutDir: cfg.Output.Dir,
			Force:  cfg.Output.Force,
			Jobs:   cfg.Output.Jobs,
			Logger: logger.With().Str("tool", tool.Name()).Logger(),
			Out:    cmd.OutOrStdout(),
		}
		sum := runner.Run(cmd.Context(), tool, args)
		reports = append(reports, sum.Reports...)
		failed += sum.Failed
		total += sum.Total()
	}

	if cfg.Output.Report != "" {
		if err := batch.WriteReport(cfg.Output.Report, reports); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.Output.Report).Msg("wrote run report")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, total)
	}
	return nil
}
