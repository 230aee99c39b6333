// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package errors

// GenericFailure is shown when a transform fails for a reason the user
// cannot act on.
const GenericFailure = "Failed to process file. Please try again."

// Rejection is an error carrying text meant for the user verbatim, such as
// "please provide a valid PDF file". It unwraps to its sentinel.
type Rejection struct {
	Sentinel error
	Message  string
}

func (r *Rejection) Error() string { return r.Message }

func (r *Rejection) Unwrap() error { return r.Sentinel }

// Reject builds a Rejection for sentinel with a user-facing message.
func Reject(sentinel error, message string) error {
	return &Rejection{Sentinel: sentinel, Message: message}
}

// userMessages pairs sentinels with their user-facing text. A slice keeps
// errors.Is traversal order explicit.
var userMessages = []struct {
	err error
	msg string
}{
	{ErrWrongFileType, "Unsupported file type."},
	{ErrMalformedInput, "The file appears to be damaged or is not in the expected format."},
	{ErrOutputExists, "Output file already exists; use --force to overwrite."},
	{ErrFetch, "Failed to fetch file."},
	{ErrFrameExtraction, "Could not read a frame from the video. Is ffmpeg installed?"},
	{ErrInvalidConfig, "Invalid configuration."},
}

// UserMessage returns the text to show the user for err. A Rejection's own
// message wins; known sentinels map to fixed text; anything else yields
// GenericFailure.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rej *Rejection
	if As(err, &rej) {
		return rej.Message
	}
	for _, m := range userMessages {
		if Is(err, m.err) {
			return m.msg
		}
	}
	return GenericFailure
}
