// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs one tool over many inputs: load, transform, write,
// with per-file status lines and a closing summary.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/internal/errors"
	"github.com/pdiddy/fetchsub/pkg/types"
)

// Tool transforms one loaded input into output bytes.
type Tool interface {
	// Name identifies the tool in reports, e.g. "scene".
	Name() string

	// OutputName derives the output file name from the input name.
	OutputName(name string) string

	// Process transforms src. It must not modify src.Data.
	Process(ctx context.Context, src *acquire.Source) (*Result, error)
}

// Result is the output of one Process call.
type Result struct {
	Data []byte
	// Changes counts tool-specific modifications for the report.
	Changes map[string]int
}

// Loader reads an input argument into memory.
type Loader interface {
	Load(ctx context.Context, src string) (*acquire.Source, error)
}

// Runner drives a Tool over a list of inputs.
type Runner struct {
	Loader Loader
	// OutDir receives every output. When empty, file outputs go next to
	// their input and URL outputs into the working directory.
	OutDir string
	// Force overwrites existing outputs instead of skipping them.
	Force bool
	// Jobs bounds how many inputs are processed at once.
	Jobs int
	// Logger receives error details behind the user-facing status lines.
	Logger zerolog.Logger
	// Out receives status lines and the summary.
	Out io.Writer
	// Now is the clock; nil means time.Now.
	Now func() time.Time

	mu sync.Mutex
}

// Summary holds the outcome of a batch run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Reports   []types.FileReport
}

// Total returns the number of inputs handled.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// HasFailures reports whether any input failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run processes inputs with tool, printing one status line per input and a
// summary to r.Out. A failing input never stops the others. Reports are
// returned in input order.
func (r *Runner) Run(ctx context.Context, tool Tool, inputs []string) Summary {
	reports := make([]types.FileReport, len(inputs))
	outputs := r.planOutputs(tool, inputs)

	g := new(errgroup.Group)
	g.SetLimit(max(1, r.Jobs))
	for i, in := range inputs {
		g.Go(func() error {
			reports[i] = r.runOne(ctx, tool, in, outputs[i])
			return nil
		})
	}
	_ = g.Wait()

	sum := Summary{Reports: reports}
	for _, rep := range reports {
		switch rep.Status {
		case types.StatusProcessed:
			sum.Processed++
		case types.StatusSkipped:
			sum.Skipped++
		case types.StatusFailed:
			sum.Failed++
		}
	}
	r.printf("\nBatch summary: %d processed, %d skipped, %d failed (total: %d)\n",
		sum.Processed, sum.Skipped, sum.Failed, sum.Total())
	return sum
}

func (r *Runner) runOne(ctx context.Context, tool Tool, input, outPath string) types.FileReport {
	start := r.now()
	rep := types.FileReport{Tool: tool.Name(), Input: input}
	finish := func(status types.FileStatus) types.FileReport {
		rep.Status = status
		rep.Duration = r.now().Sub(start)
		return rep
	}
	fail := func(err error) types.FileReport {
		rep.Error = errors.UserMessage(err)
		r.Logger.Error().Err(err).Str("tool", tool.Name()).Str("input", input).Msg("processing failed")
		r.printf("failed:  %s (%s)\n", input, rep.Error)
		return finish(types.StatusFailed)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	if !r.Force {
		if _, err := os.Stat(outPath); err == nil {
			err := errors.Wrap(errors.ErrOutputExists, outPath)
			r.Logger.Debug().Err(err).Str("tool", tool.Name()).Str("input", input).Msg("skipping input")
			rep.Output = outPath
			r.printf("skipped: %s (%v)\n", input, err)
			return finish(types.StatusSkipped)
		}
	}

	src, err := r.Loader.Load(ctx, input)
	if err != nil {
		return fail(err)
	}
	rep.BytesIn = len(src.Data)

	res, err := tool.Process(ctx, src)
	if err != nil {
		return fail(err)
	}
	if res == nil || len(res.Data) == 0 {
		return fail(errors.Wrap(errors.ErrNoOutput, tool.Name()))
	}

	if err := acquire.WriteFile(outPath, res.Data); err != nil {
		return fail(err)
	}
	rep.Output = outPath
	rep.BytesOut = len(res.Data)
	rep.Changes = res.Changes

	r.printf("processed: %s -> %s (%s)\n", input, outPath, humanize.Bytes(uint64(len(res.Data))))
	return finish(types.StatusProcessed)
}

// planOutputs assigns every input its output path before any work starts.
// Inputs whose outputs would land on the same file, such as a/x.pdf and
// b/x.pdf with one OutDir, get a numeric suffix in input order: x.pdf,
// x-1.pdf, x-2.pdf.
func (r *Runner) planOutputs(tool Tool, inputs []string) []string {
	paths := make([]string, len(inputs))
	taken := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		p := r.outputPath(tool, in)
		if taken[p] {
			ext := filepath.Ext(p)
			stem := strings.TrimSuffix(p, ext)
			for n := 1; taken[p]; n++ {
				p = fmt.Sprintf("%s-%d%s", stem, n, ext)
			}
		}
		taken[p] = true
		paths[i] = p
	}
	return paths
}

// outputPath plans where the output for input goes without loading it.
func (r *Runner) outputPath(tool Tool, input string) string {
	t, norm := acquire.Classify(input)
	name := tool.OutputName(acquire.NameOf(t, norm))

	dir := r.OutDir
	if dir == "" && t == acquire.TypeFile {
		dir = filepath.Dir(norm)
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.Out, format, args...)
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
