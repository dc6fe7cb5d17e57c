package table

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/username/tradejournal/backend/src/models"
)

// maxWarnings caps how many row problems are echoed back to the caller.
const maxWarnings = 50

// Diagnostics collects the rows a parser dropped. Dropping never fails the parse.
type Diagnostics struct {
	skipped int
	errs    *multierror.Error
}

// Skip records that the row at line (1-based, as in the file) was dropped.
func (d *Diagnostics) Skip(line int, reason error) {
	d.skipped++
	d.errs = multierror.Append(d.errs, fmt.Errorf("row %d: %w: %v", line, models.ErrUnparseableRow, reason))
}

// Skipped is the number of dropped rows.
func (d *Diagnostics) Skipped() int {
	return d.skipped
}

// Err returns the aggregated row errors, or nil.
func (d *Diagnostics) Err() error {
	return d.errs.ErrorOrNil()
}

// Warnings renders up to maxWarnings row errors as messages.
func (d *Diagnostics) Warnings() []string {
	if d.errs == nil {
		return nil
	}
	var out []string
	for i, err := range d.errs.Errors {
		if i == maxWarnings {
			out = append(out, fmt.Sprintf("... and %d more", len(d.errs.Errors)-maxWarnings))
			break
		}
		out = append(out, err.Error())
	}
	return out
}

// Apply copies the counters onto a result.
func (d *Diagnostics) Apply(data *models.ProcessedData) {
	data.SkippedRows = d.Skipped()
	data.Warnings = d.Warnings()
}
