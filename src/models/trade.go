// backend/src/models/trade.go
package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a fill or of an open position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Sign returns +1 for long, -1 for short and 0 for an unset side.
func (s Side) Sign() int64 {
	switch s {
	case SideLong:
		return 1
	case SideShort:
		return -1
	}
	return 0
}

// TimestampLayout is the ISO-8601 layout used for every emitted date (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// TradeHeaders is the fixed closed-trade schema emitted by the aggregating platforms.
var TradeHeaders = []string{
	"accountNumber",
	"instrument",
	"entryId",
	"closeId",
	"quantity",
	"entryPrice",
	"closePrice",
	"entryDate",
	"closeDate",
	"pnl",
	"timeInPosition",
	"side",
	"commission",
}

// FillEvent is one execution interpreted from a raw data row under a platform's column layout.
type FillEvent struct {
	Account       string
	Instrument    string // normalized symbol, keeps contract month/year
	OrderID       string
	ParentOrderID string
	Timestamp     time.Time
	Side          Side
	Quantity      int64
	Price         decimal.Decimal
	Commission    decimal.Decimal
}

// Key groups fills into independent positions.
func (f FillEvent) Key() string {
	return f.Account + "|" + f.Instrument
}

// OpenLot is a not-yet-closed portion of a position.
type OpenLot struct {
	Quantity  int64
	Price     decimal.Decimal
	Timestamp time.Time
}

// ClosedTrade is one flat-to-flat round trip.
type ClosedTrade struct {
	Account       string
	Instrument    string
	EntryID       string
	CloseID       string
	Quantity      int64
	AvgEntryPrice decimal.Decimal
	AvgClosePrice decimal.Decimal
	EntryTime     time.Time
	CloseTime     time.Time
	RealizedPnL   decimal.Decimal
	Side          Side
	Commission    decimal.Decimal
}

// DurationSeconds is the time spent in the position.
func (t ClosedTrade) DurationSeconds() float64 {
	return t.CloseTime.Sub(t.EntryTime).Seconds()
}

// Row renders the trade in TradeHeaders order.
func (t ClosedTrade) Row() []string {
	return []string{
		t.Account,
		t.Instrument,
		t.EntryID,
		t.CloseID,
		strconv.FormatInt(t.Quantity, 10),
		t.AvgEntryPrice.String(),
		t.AvgClosePrice.String(),
		FormatTimestamp(t.EntryTime),
		FormatTimestamp(t.CloseTime),
		t.RealizedPnL.StringFixed(2),
		FormatSeconds(t.DurationSeconds()),
		string(t.Side),
		t.Commission.String(),
	}
}

// OpenPosition describes a position still open when the input ended. It never becomes a trade.
type OpenPosition struct {
	Account       string          `json:"account"`
	Instrument    string          `json:"instrument"`
	Side          Side            `json:"side"`
	Quantity      int64           `json:"quantity"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
	EntryDate     string          `json:"entry_date"`
}

// ProcessedData is the normalized table handed to the column-mapping and persistence steps.
type ProcessedData struct {
	Headers       []string       `json:"headers"`
	ProcessedData [][]string     `json:"processedData"`
	SkippedRows   int            `json:"skippedRows"`
	OpenPositions []OpenPosition `json:"openPositions,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	UsedFallback  bool           `json:"usedFallback,omitempty"`
}

// FormatTimestamp renders t as an ISO-8601 UTC instant.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatSeconds renders a duration in seconds without trailing zeros.
func FormatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// IsTradeSchema reports whether headers are exactly the closed-trade schema.
func IsTradeSchema(headers []string) bool {
	if len(headers) != len(TradeHeaders) {
		return false
	}
	for i, h := range headers {
		if h != TradeHeaders[i] {
			return false
		}
	}
	return true
}
