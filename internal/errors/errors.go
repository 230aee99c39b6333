// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errors defines the sentinel errors shared by the fetchsub tools and
// maps them to the messages shown to users.
//
// This package must not import other internal packages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for categorising failures with errors.Is.
var (
	// ErrWrongFileType indicates the input is not the kind of file the tool
	// accepts (for example a PNG handed to the PDF masker).
	ErrWrongFileType = errors.New("wrong file type")

	// ErrMalformedInput indicates the input has the right type but could not
	// be parsed.
	ErrMalformedInput = errors.New("malformed input")

	// ErrNoOutput indicates a transform finished without producing bytes.
	ErrNoOutput = errors.New("no output produced")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFetch indicates a remote source could not be downloaded.
	ErrFetch = errors.New("fetch failed")

	// ErrFrameExtraction indicates a video frame could not be extracted.
	ErrFrameExtraction = errors.New("frame extraction failed")

	// ErrOutputExists indicates the output file is already present and
	// overwriting was not requested.
	ErrOutputExists = errors.New("output already exists")
)

// Wrap adds context to err. It returns nil when err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to err. It returns nil when err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
