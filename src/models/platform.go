package models

// InputFormat tells the reader how to turn an uploaded file into a raw table.
type InputFormat string

const (
	FormatCSV  InputFormat = "csv"  // delimiter sniffed from the first line
	FormatTSV  InputFormat = "tsv"  // Sierra Chart trade activity log
	FormatHTML InputFormat = "html" // whole document as a single cell
)

// PlatformInfo is the public description of a registered platform.
type PlatformInfo struct {
	ID                       string      `json:"id"`
	Name                     string      `json:"name"`
	Category                 string      `json:"category"`
	InputFormat              InputFormat `json:"input_format"`
	RequiredHeaders          []string    `json:"required_headers,omitempty"`
	SkipHeaderSelection      bool        `json:"skip_header_selection"`
	RequiresAccountSelection bool        `json:"requires_account_selection"`
	FillFallback             bool        `json:"fill_fallback"`
}
