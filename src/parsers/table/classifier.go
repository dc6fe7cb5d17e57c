package table

// RowKind is the role a raw row plays inside an unstructured export.
type RowKind int

const (
	Ignorable RowKind = iota
	AccountMarker
	InstrumentMarker
	HeaderRow
	DataRow
)

func (k RowKind) String() string {
	switch k {
	case AccountMarker:
		return "account-marker"
	case InstrumentMarker:
		return "instrument-marker"
	case HeaderRow:
		return "header-row"
	case DataRow:
		return "data-row"
	}
	return "ignorable"
}

// Context is the evolving parse state that markers set and data rows inherit.
type Context struct {
	Account    string
	Instrument string
	Headers    []string
}

// Classifier assigns a RowKind to each row in file order. Implementations are
// heuristic and order-dependent; blank or malformed rows must come back Ignorable.
type Classifier interface {
	Classify(row []string, ctx *Context) RowKind
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(row []string, ctx *Context) RowKind

func (f ClassifierFunc) Classify(row []string, ctx *Context) RowKind {
	return f(row, ctx)
}
