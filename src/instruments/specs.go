// backend/src/instruments/specs.go
package instruments

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Spec holds the tick economics of a futures root.
type Spec struct {
	Root      string
	TickSize  decimal.Decimal
	TickValue decimal.Decimal
}

var (
	defaultTickSize  = decimal.RequireFromString("0.25")
	defaultTickValue = decimal.RequireFromString("1.25")

	// Month code plus a one- or two-digit year at the end of a contract symbol.
	contractSuffixRe = regexp.MustCompile(`(?i)[FGHJKMNQUVXZ]\d{1,2}$`)
)

// builtinSpecs maps root -> {tickSize, tickValue}. EUR-denominated contracts are quoted in EUR.
var builtinSpecs = map[string][2]string{
	// Equity index
	"MES": {"0.25", "1.25"},
	"ES":  {"0.25", "12.5"},
	"MNQ": {"0.25", "0.5"},
	"NQ":  {"0.25", "5"},
	"MYM": {"1", "0.5"},
	"YM":  {"1", "5"},
	"M2K": {"0.1", "0.5"},
	"RTY": {"0.1", "10"},
	// Energies
	"CL":  {"0.01", "10"},
	"QM":  {"0.025", "12.5"},
	"MCL": {"0.01", "1"},
	"NG":  {"0.001", "10"},
	"MNG": {"0.001", "1"},
	"RB":  {"0.0001", "4.2"},
	"HO":  {"0.0001", "4.2"},
	// Metals
	"GC":  {"0.1", "10"},
	"MGC": {"0.1", "1"},
	"SI":  {"0.005", "25"},
	"SIL": {"0.005", "2.5"},
	"HG":  {"0.0005", "12.5"},
	"MHG": {"0.0005", "1.25"},
	"PL":  {"0.1", "5"},
	// Financials
	"ZB":  {"0.03125", "31.25"},
	"ZN":  {"0.0078125", "15.625"},
	"ZF":  {"0.0078125", "7.8125"},
	"ZT":  {"0.0078125", "15.625"},
	"UB":  {"0.03125", "31.25"},
	"SR3": {"0.0025", "6.25"},
	// Grains, softs, livestock
	"ZC": {"0.25", "12.5"},
	"ZW": {"0.25", "12.5"},
	"ZS": {"0.25", "12.5"},
	"ZM": {"0.1", "10"},
	"ZL": {"0.0001", "6"},
	"ZO": {"0.25", "12.5"},
	"ZR": {"0.005", "10"},
	"CC": {"1", "10"},
	"KC": {"0.05", "18.75"},
	"CT": {"0.01", "5"},
	"SB": {"0.01", "11.2"},
	"OJ": {"0.05", "7.5"},
	"LE": {"0.025", "10"},
	"GF": {"0.025", "12.5"},
	"HE": {"0.025", "10"},
	// FX
	"6E":  {"0.00005", "6.25"},
	"6B":  {"0.0001", "6.25"},
	"6A":  {"0.0001", "10"},
	"6C":  {"0.0001", "10"},
	"6S":  {"0.0001", "12.5"},
	"6J":  {"0.000001", "12.5"},
	"M6E": {"0.0001", "1.25"},
	"M6A": {"0.0001", "1"},
	"M6B": {"0.0001", "0.625"},
	// Eurex
	"FDAX": {"0.5", "12.5"},
	"FESX": {"1", "10"},
	"FGBL": {"0.01", "10"},
	"FGBM": {"0.01", "10"},
	"FGBS": {"0.005", "5"},
	"FGBX": {"0.02", "20"},
	"FBTP": {"0.01", "10"},
	"FBTS": {"0.01", "10"},
	"FOAT": {"0.01", "10"},
}

// Table is an immutable root -> Spec mapping. It is safe for concurrent use.
type Table struct {
	specs map[string]Spec
}

var defaultTable = newBuiltinTable()

func newBuiltinTable() *Table {
	specs := make(map[string]Spec, len(builtinSpecs))
	for root, v := range builtinSpecs {
		specs[root] = Spec{
			Root:      root,
			TickSize:  decimal.RequireFromString(v[0]),
			TickValue: decimal.RequireFromString(v[1]),
		}
	}
	return &Table{specs: specs}
}

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	return defaultTable
}

// Lookup resolves a symbol against the built-in table.
func Lookup(symbol string) Spec {
	return defaultTable.Lookup(symbol)
}

// Lookup resolves a symbol (contract or root) to its spec. Unknown roots get the
// default {0.25, 1.25} spec; it never fails.
func (t *Table) Lookup(symbol string) Spec {
	root := Root(symbol)
	if spec, ok := t.specs[root]; ok {
		return spec
	}
	return Spec{Root: root, TickSize: defaultTickSize, TickValue: defaultTickValue}
}

// Known reports whether the root of symbol has an explicit entry.
func (t *Table) Known(symbol string) bool {
	_, ok := t.specs[Root(symbol)]
	return ok
}

// Len is the number of explicit entries.
func (t *Table) Len() int {
	return len(t.specs)
}

// With returns a copy of t with overrides applied on top.
func (t *Table) With(overrides []Spec) *Table {
	specs := make(map[string]Spec, len(t.specs)+len(overrides))
	for k, v := range t.specs {
		specs[k] = v
	}
	for _, o := range overrides {
		o.Root = strings.ToUpper(strings.TrimSpace(o.Root))
		specs[o.Root] = o
	}
	return &Table{specs: specs}
}

// Root upper-cases symbol and strips one trailing month-code/year suffix (ESZ4 -> ES, 6EH25 -> 6E).
// A root that itself ends in month-code+digits collides with this pattern; that is a known limitation.
func Root(symbol string) string {
	upper := strings.ToUpper(strings.TrimSpace(symbol))
	return contractSuffixRe.ReplaceAllString(upper, "")
}
