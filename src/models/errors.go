package models

import "errors"

// Table-level failures are fatal for a parse call. ErrUnparseableRow is only ever
// collected as a diagnostic; the row is dropped and processing continues.
var (
	ErrEmptyInput            = errors.New("file appears empty or invalid")
	ErrMissingExpectedColumn = errors.New("missing expected column")
	ErrUnparseableRow        = errors.New("unparseable row")
	ErrNoTradesProduced      = errors.New("no trades parsed from report")
	ErrUnsupportedPlatform   = errors.New("unsupported platform")
)
