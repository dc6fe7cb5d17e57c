package services

import "errors"

var (
	// ErrParsingFailed wraps every failure to read or normalize an upload.
	ErrParsingFailed = errors.New("parsing failed")
	// ErrProcessingFailed wraps failures to turn a normalized result into stored trades.
	ErrProcessingFailed = errors.New("processing failed")
)
