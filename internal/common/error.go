package common

import (
	"fmt"
	"strings"
)

var (
	ErrMissingParameter    = fmt.Errorf("missing parameters")
	ErrInvalidType         = fmt.Errorf("type must be mp4 or mp3")
	ErrInvalidArtifact     = fmt.Errorf("subtitle artifact is only available for mp4")
	ErrInvalidSubtitleMode = fmt.Errorf("subtitle mode must be none, embedded or external")
	ErrBusy                = fmt.Errorf("too many downloads in progress")
	ErrRateLimited         = fmt.Errorf("rate limit exceeded")
	ErrSweepAlreadyStarted = fmt.Errorf("sweep process has already started")
	ErrCacheMiss           = fmt.Errorf("cache miss")
)

const (
	unsupportedURLPhrase  = "Unsupported URL"
	unsupportedURLMessage = "This URL is not supported by the current yt-dlp extractor."
)

// ExtractionError is returned when the extractor exits non-zero, times out or
// prints something that cannot be parsed.
type ExtractionError struct {
	Stderr string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "extractor failed"
	}

	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// OutputMissingError means the extractor reported success but no file with the
// run prefix was found.
type OutputMissingError struct {
	Artifact string
	Prefix   string
}

func (e *OutputMissingError) Error() string {
	if e.Artifact == "subtitle" {
		return "Subtitle is not available in the requested language."
	}

	return "Downloaded file not found."
}

// UserMessage turns an error into the text shown to the user.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	msg := err.Error()
	if msg == "" {
		return fallback
	}

	if strings.Contains(msg, unsupportedURLPhrase) {
		return unsupportedURLMessage
	}

	return msg
}
