// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileStatus is the outcome of processing one input.
type FileStatus string

const (
	StatusProcessed FileStatus = "processed"
	StatusSkipped   FileStatus = "skipped"
	StatusFailed    FileStatus = "failed"
)

// FileReport records what a tool did to one input. A run report is a list
// of these.
type FileReport struct {
	// Tool is the subcommand that produced the report (e.g. "scene").
	Tool string `json:"tool" yaml:"tool"`

	// Input is the path or URL as given on the command line.
	Input string `json:"input" yaml:"input"`

	// Output is the written file, empty when nothing was written.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Status is processed, skipped, or failed.
	Status FileStatus `json:"status" yaml:"status"`

	// Error is the user-facing failure message.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// BytesIn and BytesOut are the input and output sizes.
	BytesIn  int `json:"bytes_in" yaml:"bytes_in"`
	BytesOut int `json:"bytes_out,omitempty" yaml:"bytes_out,omitempty"`

	// Changes counts tool-specific modifications, e.g. "flags_flipped".
	Changes map[string]int `json:"changes,omitempty" yaml:"changes,omitempty"`

	// Duration is the wall time spent on this input.
	Duration time.Duration `json:"duration" yaml:"duration"`
}
