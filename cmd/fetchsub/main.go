// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the fetchsub CLI. Each tool is a
// subcommand that takes files or URLs and writes cleaned copies.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pdiddy/fetchsub/internal/config"
	"github.com/pdiddy/fetchsub/internal/logging"
	"github.com/pdiddy/fetchsub/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// v holds configuration from defaults, file, environment and flags.
	v = config.New()

	// cfg is the validated configuration, set before any command runs.
	cfg *types.Config

	logger    = zerolog.Nop()
	logCloser io.Closer
)

// rootCmd is the base command for the fetchsub CLI.
var rootCmd = &cobra.Command{
	Use:   "fetchsub",
	Short: "Clean watermarks and metadata from scenes, PDFs and images",
	Long: `fetchsub is a set of local file tools. Every tool reads files or URLs,
transforms them in memory and writes a new file next to the input (or into
--out-dir). Nothing is uploaded anywhere.

  scene      remove the logo flag and watermark texture from a 3D scene export
  pdf-mask   paint over the footer band of every PDF page
  exif       show or rewrite date, GPS and camera fields of a JPEG
  scrub      re-encode an image without provenance metadata
  safezone   preview which parts of a vertical video platform chrome covers`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		used, err := config.ReadInConfig(v, cfgFile)
		if err != nil {
			return err
		}
		c, err := config.Unmarshal(v)
		if err != nil {
			return err
		}
		cfg = c

		verbose, _ := cmd.Flags().GetBool("verbose")
		quiet, _ := cmd.Flags().GetBool("quiet")
		logger, logCloser = logging.New(cfg.Log, verbose, quiet)
		if used != "" {
			logger.Debug().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./fetchsub.yaml or ~/.config/fetchsub/fetchsub.yaml)")
	pf.StringP("out-dir", "o", "", "directory for outputs (default: next to each input)")
	pf.BoolP("force", "f", false, "overwrite existing outputs")
	pf.String("report", "", "write a YAML (or .json) run report to this path")
	pf.IntP("jobs", "j", 1, "number of inputs processed in parallel")
	pf.BoolP("verbose", "v", false, "debug logging")
	pf.BoolP("quiet", "q", false, "only log warnings and errors")

	bindFlag("output.dir", pf.Lookup("out-dir"))
	bindFlag("output.force", pf.Lookup("force"))
	bindFlag("output.report", pf.Lookup("report"))
	bindFlag("output.jobs", pf.Lookup("jobs"))
}

// bindFlag ties a config key to a flag so an explicit flag wins over file
// and environment values.
func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, rootCmd); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs cmd and closes the log file afterwards, also when a command
// fails.
func execute(ctx context.Context, cmd *cobra.Command) error {
	defer closeLog()
	return cmd.ExecuteContext(ctx)
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}
