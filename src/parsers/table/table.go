// backend/src/parsers/table/table.go
package table

import (
	"fmt"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
)

// Table is a raw export: ordered rows of string cells with no fixed schema.
type Table [][]string

// Cell returns the trimmed cell at i, or "" when the row is too short.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// IsBlank reports whether every cell of row is empty after trimming.
func IsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// HeaderNames cleans a header row: trailing empty cells are dropped and interior
// empty cells are named "Column N" so positions stay aligned with the data rows.
func HeaderNames(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	names := make([]string, end)
	for i := 0; i < end; i++ {
		name := strings.TrimSpace(row[i])
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		names[i] = name
	}
	return names
}

// Rectangular pads or truncates row to width cells.
func Rectangular(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Header is a case-insensitive column index built from a header row.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader indexes row; the first occurrence of a name wins.
func NewHeader(row []string) Header {
	h := Header{names: make([]string, len(row)), index: make(map[string]int, len(row))}
	for i, c := range row {
		name := strings.TrimSpace(c)
		h.names[i] = name
		key := strings.ToLower(name)
		if _, seen := h.index[key]; !seen && key != "" {
			h.index[key] = i
		}
	}
	return h
}

// Index returns the column position of name, or -1.
func (h Header) Index(name string) int {
	if i, ok := h.index[strings.ToLower(strings.TrimSpace(name))]; ok {
		return i
	}
	return -1
}

// Has reports whether name is present.
func (h Header) Has(name string) bool {
	return h.Index(name) >= 0
}

// Require fails with ErrMissingExpectedColumn naming every absent column.
func (h Header) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !h.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", models.ErrMissingExpectedColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Names returns the trimmed header cells.
func (h Header) Names() []string {
	return h.names
}
