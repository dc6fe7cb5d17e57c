package rithmic

import (
	"regexp"

	"github.com/username/tradejournal/backend/src/parsers/table"
)

const (
	performanceHeaderCell = "Entry Order Number"
	completedOrdersMarker = "Completed Orders"
)

var (
	// Futures contract codes such as ESZ4, MESZ4 or ZNH25.
	instrumentRe = regexp.MustCompile(`^[A-Z]{2,4}\d{1,2}$`)
	// Short exchange-style tokens (CME1) and pure numbers are never account ids.
	shortCodeRe = regexp.MustCompile(`^[A-Z]{3}\d$`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
)

func isAccountNumber(v string) bool {
	return len(v) > 8 &&
		!shortCodeRe.MatchString(v) &&
		!digitsRe.MatchString(v) &&
		v != "Account" &&
		v != performanceHeaderCell
}

func isInstrument(v string) bool {
	return instrumentRe.MatchString(v)
}

// performanceClassifier reads the Rithmic performance report, where account and
// instrument lines precede the order rows they apply to.
type performanceClassifier struct{}

func (performanceClassifier) Classify(row []string, ctx *table.Context) table.RowKind {
	first := table.Cell(row, 0)
	switch {
	case first == "":
		return table.Ignorable
	case isAccountNumber(first):
		ctx.Account = first
		return table.AccountMarker
	case isInstrument(first):
		ctx.Instrument = first
		return table.InstrumentMarker
	case first == performanceHeaderCell:
		ctx.Headers = append([]string{"AccountNumber", "Instrument"}, table.HeaderNames(row)...)
		return table.HeaderRow
	case len(ctx.Headers) > 0 && first != "Account":
		return table.DataRow
	}
	return table.Ignorable
}

// ordersClassifier reads the Rithmic order history: the header follows the
// "Completed Orders" line, or is the first row when that line is missing.
type ordersClassifier struct {
	expectHeader bool
	haveHeader   bool
}

func newOrdersClassifier(raw table.Table) *ordersClassifier {
	for _, row := range raw {
		if table.Cell(row, 0) == completedOrdersMarker {
			return &ordersClassifier{}
		}
	}
	return &ordersClassifier{expectHeader: true}
}

func (c *ordersClassifier) Classify(row []string, ctx *table.Context) table.RowKind {
	if !c.haveHeader {
		if table.Cell(row, 0) == completedOrdersMarker {
			c.expectHeader = true
			return table.Ignorable
		}
		if c.expectHeader {
			c.haveHeader = true
			ctx.Headers = table.HeaderNames(row)
			return table.HeaderRow
		}
		return table.Ignorable
	}
	if table.IsBlank(row) {
		return table.Ignorable
	}
	return table.DataRow
}
