// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/fetchsub/internal/acquire"
	"github.com/pdiddy/fetchsub/internal/errors"
	"github.com/pdiddy/fetchsub/pkg/types"
)

// fakeTool upper-cases its input, or fails for inputs containing "bad".
type fakeTool struct {
	calls atomic.Int32
}

func (f *fakeTool) Name() string { return "fake" }

func (f *fakeTool) OutputName(name string) string { return "out-" + name }

func (f *fakeTool) Process(_ context.Context, src *acquire.Source) (*Result, error) {
	f.calls.Add(1)
	if bytes.Contains(src.Data, []byte("bad")) {
		return nil, errors.Reject(errors.ErrWrongFileType, "please provide a valid fake file")
	}
	if bytes.Contains(src.Data, []byte("empty")) {
		return &Result{}, nil
	}
	return &Result{
		Data:    bytes.ToUpper(src.Data),
		Changes: map[string]int{"upper": 1},
	}, nil
}

func writeInputs(t *testing.T, dir string, files map[string]string) []string {
	t.Helper()
	var paths []string
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func newRunner(out *bytes.Buffer) *Runner {
	return &Runner{
		Loader: acquire.NewFetcher(types.HTTPConfig{}),
		Jobs:   2,
		Logger: zerolog.Nop(),
		Out:    out,
	}
}

func TestRun_Mixed(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.txt")
	exists := filepath.Join(dir, "b.txt")
	bad := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(good, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(exists, []byte("world"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("bad"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out-b.txt"), []byte("old"), 0o644))

	var out bytes.Buffer
	tool := &fakeTool{}
	sum := newRunner(&out).Run(context.Background(), tool, []string{good, exists, bad})

	assert.Equal(t, 1, sum.Processed)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 3, sum.Total())
	assert.True(t, sum.HasFailures())
	assert.Equal(t, int32(2), tool.calls.Load())

	got, err := os.ReadFile(filepath.Join(dir, "out-a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", string(got))

	old, err := os.ReadFile(filepath.Join(dir, "out-b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))

	log := out.String()
	assert.Contains(t, log, "processed: "+good)
	assert.Contains(t, log, "skipped: "+exists+" ("+filepath.Join(dir, "out-b.txt")+": output already exists)")
	assert.Contains(t, log, "failed:  "+bad+" (please provide a valid fake file)")
	assert.True(t, strings.HasSuffix(log, "\nBatch summary: 1 processed, 1 skipped, 1 failed (total: 3)\n"))

	require.Len(t, sum.Reports, 3)
	assert.Equal(t, types.StatusProcessed, sum.Reports[0].Status)
	assert.Equal(t, 5, sum.Reports[0].BytesIn)
	assert.Equal(t, map[string]int{"upper": 1}, sum.Reports[0].Changes)
	assert.Equal(t, types.StatusSkipped, sum.Reports[1].Status)
	assert.Equal(t, types.StatusFailed, sum.Reports[2].Status)
	assert.Equal(t, "please provide a valid fake file", sum.Reports[2].Error)
}

func TestRun_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	in := writeInputs(t, dir, map[string]string{"x.txt": "new"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out-x.txt"), []byte("old"), 0o644))

	r := newRunner(&bytes.Buffer{})
	r.Force = true
	sum := r.Run(context.Background(), &fakeTool{}, in)
	assert.Equal(t, 1, sum.Processed)

	got, err := os.ReadFile(filepath.Join(dir, "out-x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "NEW", string(got))
}

func TestRun_OutDir(t *testing.T) {
	in := writeInputs(t, t.TempDir(), map[string]string{"x.txt": "abc"})
	outDir := filepath.Join(t.TempDir(), "results")

	r := newRunner(&bytes.Buffer{})
	r.OutDir = outDir
	sum := r.Run(context.Background(), &fakeTool{}, in)
	require.Equal(t, 1, sum.Processed)
	assert.Equal(t, filepath.Join(outDir, "out-x.txt"), sum.Reports[0].Output)
	assert.FileExists(t, sum.Reports[0].Output)
}

func TestRun_SameNameInputsGetDistinctOutputs(t *testing.T) {
	root := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, sub), 0o755))
	}
	first := filepath.Join(root, "a", "x.txt")
	second := filepath.Join(root, "b", "x.txt")
	require.NoError(t, os.WriteFile(first, []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("second"), 0o644))
	outDir := filepath.Join(root, "out")

	for _, force := range []bool{false, true} {
		r := newRunner(&bytes.Buffer{})
		r.OutDir = outDir
		r.Force = force
		sum := r.Run(context.Background(), &fakeTool{}, []string{first, second})
		require.Len(t, sum.Reports, 2)

		assert.Equal(t, filepath.Join(outDir, "out-x.txt"), sum.Reports[0].Output)
		assert.Equal(t, filepath.Join(outDir, "out-x-1.txt"), sum.Reports[1].Output)
		if force {
			assert.Equal(t, 2, sum.Processed)
		} else {
			assert.Equal(t, 2, sum.Processed+sum.Skipped)
		}

		got, err := os.ReadFile(sum.Reports[0].Output)
		require.NoError(t, err)
		assert.Equal(t, "FIRST", string(got))
		got, err = os.ReadFile(sum.Reports[1].Output)
		require.NoError(t, err)
		assert.Equal(t, "SECOND", string(got))
	}
}

func TestPlanOutputs(t *testing.T) {
	r := &Runner{OutDir: "/tmp/o"}
	got := r.planOutputs(&fakeTool{}, []string{
		"https://a.example.com/scene.splinecode",
		"https://b.example.com/scene.splinecode",
		"https://c.example.com/scene.splinecode",
		"https://c.example.com/other.splinecode",
	})
	assert.Equal(t, []string{
		"/tmp/o/out-scene.splinecode",
		"/tmp/o/out-scene-1.splinecode",
		"/tmp/o/out-scene-2.splinecode",
		"/tmp/o/out-other.splinecode",
	}, got)
}

func TestRun_FailuresDoNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 8; i++ {
		body := "ok"
		if i%2 == 0 {
			body = "bad"
		}
		files[string(rune('a'+i))+".txt"] = body
	}
	in := writeInputs(t, dir, files)
	in = append(in, filepath.Join(dir, "missing.txt"))

	r := newRunner(&bytes.Buffer{})
	r.Jobs = 4
	sum := r.Run(context.Background(), &fakeTool{}, in)
	assert.Equal(t, 4, sum.Processed)
	assert.Equal(t, 5, sum.Failed)
	assert.NotEmpty(t, sum.Reports[len(sum.Reports)-1].Error)
}

func TestRun_EmptyResultFails(t *testing.T) {
	in := writeInputs(t, t.TempDir(), map[string]string{"e.txt": "empty"})
	sum := newRunner(&bytes.Buffer{}).Run(context.Background(), &fakeTool{}, in)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, errors.GenericFailure, sum.Reports[0].Error)
}

func TestRun_CanceledContext(t *testing.T) {
	in := writeInputs(t, t.TempDir(), map[string]string{"x.txt": "abc"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tool := &fakeTool{}
	sum := newRunner(&bytes.Buffer{}).Run(ctx, tool, in)
	assert.Equal(t, 1, sum.Failed)
	assert.Zero(t, tool.calls.Load())
}

func TestRun_Duration(t *testing.T) {
	in := writeInputs(t, t.TempDir(), map[string]string{"x.txt": "abc"})
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ticks atomic.Int64

	r := newRunner(&bytes.Buffer{})
	r.Now = func() time.Time { return base.Add(time.Duration(ticks.Add(1)) * time.Second) }
	sum := r.Run(context.Background(), &fakeTool{}, in)
	assert.Equal(t, time.Second, sum.Reports[0].Duration)
}

func TestOutputPath_URL(t *testing.T) {
	r := &Runner{}
	assert.Equal(t, "out-scene.splinecode",
		r.outputPath(&fakeTool{}, "https://prod.example.com/x/scene.splinecode"))

	r.OutDir = "/tmp/o"
	assert.Equal(t, "/tmp/o/out-scene.splinecode",
		r.outputPath(&fakeTool{}, "https://prod.example.com/x/scene.splinecode"))
}

func TestWriteReport(t *testing.T) {
	reports := []types.FileReport{{
		Tool:     "fake",
		Input:    "a.txt",
		Output:   "out-a.txt",
		Status:   types.StatusProcessed,
		BytesIn:  5,
		BytesOut: 5,
		Changes:  map[string]int{"upper": 1},
	}}
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "report.yaml")
	require.NoError(t, WriteReport(yamlPath, reports))
	raw, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.FileReport
	require.NoError(t, yaml.Unmarshal(raw, &fromYAML))
	assert.Equal(t, reports, fromYAML)

	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, WriteReport(jsonPath, reports))
	raw, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.FileReport
	require.NoError(t, json.Unmarshal(raw, &fromJSON))
	assert.Equal(t, reports, fromJSON)
}
