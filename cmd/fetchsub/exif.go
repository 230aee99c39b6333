// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/internal/batch"
	"github.com/pdiddy/fetchsub/internal/errors"
	"github.com/pdiddy/fetchsub/internal/exif"
	"github.com/pdiddy/fetchsub/internal/filetype"
)

var exifCmd = &cobra.Command{
	Use:   "exif",
	Short: "Show or rewrite JPEG EXIF fields",
}

var exifShowCmd = &cobra.Command{
	Use:   "show [file|url...]",
	Short: "Print the EXIF fields of JPEG images",
	RunE:  runExifShow,
}

var exifEditCmd = &cobra.Command{
	Use:   "edit [file|url...]",
	Short: "Set date taken, GPS position and camera of JPEG images",
	Long: `Edit rewrites the EXIF block of each JPEG. Only the fields given on the
command line change; everything else in the block is kept. Image data is
copied byte for byte. The output is written as spoofed_<name>.

Dates accept "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02" and the
EXIF form "2006:01:02 15:04:05".`,
	RunE: runExifEdit,
}

// dateLayouts are tried in order when parsing --date.
var dateLayouts = []string{
	exif.DateFormat,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func init() {
	f := exifEditCmd.Flags()
	f.String("date", "", "date taken")
	f.Float64("lat", 0, "latitude in decimal degrees, south negative")
	f.Float64("lon", 0, "longitude in decimal degrees, west negative")
	f.String("make", "", "camera make")
	f.String("model", "", "camera model")

	exifShowCmd.Flags().Bool("all", false, "list every tag, not just the editable fields")
	exifShowCmd.Flags().Bool("yaml", false, "print the editable fields as YAML")

	exifCmd.AddCommand(exifShowCmd)
	exifCmd.AddCommand(exifEditCmd)
	rootCmd.AddCommand(exifCmd)
}

func runExifShow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more files or URLs")
	}
	all, _ := cmd.Flags().GetBool("all")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	fetcher := acquire.NewFetcher(cfg.HTTP)
	out := cmd.OutOrStdout()

	var failed int
	doc := make(map[string]exif.Fields)
	for _, arg := range args {
		src, err := fetcher.Load(cmd.Context(), arg)
		if err == nil {
			err = filetype.RequireJPEG(src.Data)
		}
		var d *exif.Data
		if err == nil {
			d, err = exif.Load(src.Data)
		}
		if err != nil {
			failed++
			fmt.Fprintf(out, "failed:  %s (%s)\n", arg, errors.UserMessage(err))
			logger.Error().Err(err).Str("input", arg).Msg("reading exif failed")
			continue
		}
		if asYAML {
			doc[arg] = exif.Read(d)
			continue
		}
		printExif(out, arg, d, all)
	}
	if asYAML && len(doc) > 0 {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}
	return nil
}

func printExif(w io.Writer, name string, d *exif.Data, all bool) {
	f := exif.Read(d)
	fmt.Fprintf(w, "%s\n", name)
	if f.IsZero() && !all {
		fmt.Fprintf(w, "  (no editable fields set)\n")
	}
	if f.DateTaken != nil {
		fmt.Fprintf(w, "  date taken: %s\n", f.DateTaken.Format(exif.DateFormat))
	}
	if f.Latitude != nil && f.Longitude != nil {
		fmt.Fprintf(w, "  position:   %.6f, %.6f\n", *f.Latitude, *f.Longitude)
	}
	if f.Make != "" {
		fmt.Fprintf(w, "  make:       %s\n", f.Make)
	}
	if f.Model != "" {
		fmt.Fprintf(w, "  model:      %s\n", f.Model)
	}
	if !all {
		return
	}
	for _, kind := range []exif.IFDKind{exif.KindIFD0, exif.KindExif, exif.KindGPS, exif.KindInterop, exif.KindIFD1} {
		ifd := d.Dir(kind)
		for _, tag := range ifd.Tags() {
			fmt.Fprintf(w, "  %-7s %-28s %s\n", kind, exif.TagName(kind, tag), ifd[tag])
		}
	}
	if len(d.Thumbnail) > 0 {
		fmt.Fprintf(w, "  thumbnail: %d bytes\n", len(d.Thumbnail))
	}
}

func runExifEdit(cmd *cobra.Command, args []string) error {
	fields, err := editFields(cmd)
	if err != nil {
		return err
	}
	if fields.IsZero() {
		return fmt.Errorf("nothing to change: set at least one of --date, --lat/--lon, --make, --model")
	}
	return runTools(cmd, args, &exifTool{fields: fields})
}

// editFields collects the flags that were explicitly set.
func editFields(cmd *cobra.Command) (exif.Fields, error) {
	var f exif.Fields
	flags := cmd.Flags()

	if s, _ := flags.GetString("date"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return f, err
		}
		f.DateTaken = &t
	}
	if flags.Changed("lat") {
		lat, _ := flags.GetFloat64("lat")
		f.Latitude = &lat
	}
	if flags.Changed("lon") {
		lon, _ := flags.GetFloat64("lon")
		f.Longitude = &lon
	}
	f.Make, _ = flags.GetString("make")
	f.Model, _ = flags.GetString("model")
	return f, f.Validate()
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(errors.ErrInvalidConfig, "unrecognised date %q", s)
}

// exifTool adapts exif.Edit to the batch runner.
type exifTool struct {
	fields exif.Fields
}

func (t *exifTool) Name() string { return "exif" }

func (t *exifTool) OutputName(name string) string { return exif.OutputName(name) }

func (t *exifTool) Process(ctx context.Context, src *acquire.Source) (*batch.Result, error) {
	if err := filetype.RequireJPEG(src.Data); err != nil {
		return nil, err
	}
	out, err := exif.Edit(src.Data, t.fields)
	if err != nil {
		return nil, err
	}
	return &batch.Result{Data: out, Changes: t.changes()}, nil
}

func (t *exifTool) changes() map[string]int {
	set := func(ok bool) int {
		if ok {
			return 1
		}
		return 0
	}
	return map[string]int{
		"date":  set(t.fields.DateTaken != nil),
		"gps":   set(t.fields.Latitude != nil),
		"make":  set(t.fields.Make != ""),
		"model": set(t.fields.Model != ""),
	}
}
