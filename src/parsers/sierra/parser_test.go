package sierra

import (
	"errors"
	"strings"
	"testing"

	"github.com/username/tradejournal/backend/src/instruments"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/table"
)

var header = []string{"ActivityType", "DateTime", "TransDateTime", "Symbol", "InternalOrderID", "ParentInternalOrderID", "Quantity", "BuySell", "FillPrice", "TradeAccount", "OpenClose"}

func activity(rows ...string) table.Table {
	raw := table.Table{header}
	for _, r := range rows {
		raw = append(raw, strings.Split(r, "\t"))
	}
	return raw
}

func TestRoundTripFromActivityLog(t *testing.T) {
	raw := activity(
		"Orders\t2024-12-02 14:29:59.000000\t\tF.US.ESZ4\t10\t\t1\tBuy\t0\tA1\tOpen",
		"Fills\t2024-12-02  14:30:00.123456\t\tF.US.ESZ4.CME\t10\t\t1\tBuy\t4500\tA1\tOpen",
		"Fills\t2024-12-02 14:31:00.123\t\tF.US.ESZ4.CME\t11\t10\t1\tSell\t4505\tA1\tClose",
	)
	data, err := NewParser(instruments.DefaultTable()).ProcessRawTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !models.IsTradeSchema(data.Headers) {
		t.Fatalf("expected the closed-trade schema, got %v", data.Headers)
	}
	if len(data.ProcessedData) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(data.ProcessedData))
	}
	row := data.ProcessedData[0]
	if row[0] != "A1" || row[1] != "ESZ4" || row[2] != "10" || row[3] != "11" {
		t.Fatalf("unexpected identity columns %v", row[:4])
	}
	if row[7] != "2024-12-02T14:30:00.123Z" || row[8] != "2024-12-02T14:31:00.123Z" {
		t.Fatalf("unexpected dates %s / %s", row[7], row[8])
	}
	if row[9] != "250.00" || row[10] != "60" || row[11] != "long" {
		t.Fatalf("unexpected pnl/duration/side %v", row[9:12])
	}
	if data.UsedFallback || data.SkippedRows != 0 {
		t.Fatalf("unexpected diagnostics %+v", data)
	}
}

func TestBadRowsAreSkippedAndCounted(t *testing.T) {
	raw := activity(
		"Fills\tnot a date\t\tESZ4\t1\t\t1\tBuy\t4500\tA1\t",
		"Fills\t2024-12-02 14:30:00\t\tESZ4\t1\t\t0\tBuy\t4500\tA1\t",
		"Fills\t2024-12-02 14:30:00\t\t\t1\t\t1\tBuy\t4500\tA1\t",
		"Fills\t2024-12-02 14:30:00\t\tESZ4\t1\t\t1\tHold\t4500\tA1\t",
		"Fills\t2024-12-02 14:30:00\t\tESZ4\t1\t\t1\tB\t4500\tA1\t",
		"Fills\t\t2024-12-02 14:30:05\tESZ4\t2\t\t1\tS\t4501\tA1\t",
	)
	data, err := NewParser(nil).ProcessRawTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.SkippedRows != 4 || len(data.Warnings) != 4 {
		t.Fatalf("expected 4 skipped rows, got %d (%v)", data.SkippedRows, data.Warnings)
	}
	if !strings.HasPrefix(data.Warnings[0], "row 2:") {
		t.Fatalf("expected file line numbers in warnings, got %q", data.Warnings[0])
	}
	if len(data.ProcessedData) != 1 || data.ProcessedData[0][9] != "50.00" {
		t.Fatalf("unexpected trades %v", data.ProcessedData)
	}
}

func TestFallbackWhenNeverFlat(t *testing.T) {
	raw := activity(
		"Fills\t2024-12-02 14:30:00\t\tNQZ4\t1\t\t1\tBuy\t20000\tA1\t",
		"Fills\t2024-12-02 14:31:00\t\tNQZ4\t2\t1\t2\tBuy\t20010\tA1\t",
	)
	data, err := NewParser(nil).ProcessRawTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !data.UsedFallback || len(data.ProcessedData) != 2 {
		t.Fatalf("expected one degenerate record per fill, got %+v", data)
	}
	for _, row := range data.ProcessedData {
		if row[9] != "0.00" || row[10] != "0" || row[5] != row[6] || row[7] != row[8] {
			t.Fatalf("unexpected degenerate record %v", row)
		}
	}
	if data.ProcessedData[1][3] != "1" {
		t.Fatalf("expected the parent order id as close id, got %q", data.ProcessedData[1][3])
	}
}

func TestTimestampAndCommissionColumns(t *testing.T) {
	cases := []struct {
		name       string
		header     string
		rows       []string
		entryDate  string
		closeDate  string
		commission string
	}{
		{
			name:   "TransDateTime only",
			header: "TransDateTime\tSymbol\tQuantity\tBuySell\tFillPrice",
			rows: []string{
				"2024-12-02 14:30:00.250\tESZ4\t1\tBuy\t4500",
				"2024-12-02 14:31:00.250\tESZ4\t1\tSell\t4505",
			},
			entryDate:  "2024-12-02T14:30:00.250Z",
			closeDate:  "2024-12-02T14:31:00.250Z",
			commission: "0",
		},
		{
			name:   "blank DateTime falls back to TransDateTime",
			header: "DateTime\tTransDateTime\tSymbol\tQuantity\tBuySell\tFillPrice",
			rows: []string{
				"\t2024-12-02 14:30:00\tESZ4\t1\tBuy\t4500",
				"2024-12-02 14:31:00\t2024-12-02 14:40:00\tESZ4\t1\tSell\t4505",
			},
			entryDate:  "2024-12-02T14:30:00.000Z",
			closeDate:  "2024-12-02T14:31:00.000Z",
			commission: "0",
		},
		{
			name:   "commission is summed as a positive cost",
			header: "DateTime\tSymbol\tQuantity\tBuySell\tFillPrice\tCommission",
			rows: []string{
				"2024-12-02 14:30:00\tESZ4\t1\tBuy\t4500\t-2.5",
				"2024-12-02 14:31:00\tESZ4\t1\tSell\t4505\t2.5",
			},
			entryDate:  "2024-12-02T14:30:00.000Z",
			closeDate:  "2024-12-02T14:31:00.000Z",
			commission: "5",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := table.Table{strings.Split(tc.header, "\t")}
			for _, r := range tc.rows {
				raw = append(raw, strings.Split(r, "\t"))
			}
			data, err := NewParser(nil).ProcessRawTable(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(data.ProcessedData) != 1 || data.UsedFallback {
				t.Fatalf("expected one round trip, got %v", data.ProcessedData)
			}
			row := data.ProcessedData[0]
			if row[7] != tc.entryDate || row[8] != tc.closeDate {
				t.Fatalf("unexpected dates %s / %s", row[7], row[8])
			}
			if row[9] != "250.00" || row[12] != tc.commission {
				t.Fatalf("expected pnl 250.00 and commission %s, got %s and %s", tc.commission, row[9], row[12])
			}
		})
	}
}

func TestTransDateTimeOnlyHeaderStillNeedsTheOtherColumns(t *testing.T) {
	raw := table.Table{{"TransDateTime", "Symbol", "Quantity", "BuySell"}, {"2024-12-02 14:30:00", "ESZ4", "1", "Buy"}}
	_, err := NewParser(nil).ProcessRawTable(raw)
	if !errors.Is(err, models.ErrMissingExpectedColumn) || !strings.Contains(err.Error(), "FillPrice") {
		t.Fatalf("expected missing FillPrice, got %v", err)
	}
}

func TestShortRoundTripPnL(t *testing.T) {
	raw := activity(
		"Fills\t2024-12-02 14:30:00\t\tESZ4\t1\t\t1\tSell\t4505\tA1\t",
		"Fills\t2024-12-02 14:31:00\t\tESZ4\t2\t1\t1\tBuy\t4500\tA1\t",
	)
	data, err := NewParser(nil).ProcessRawTable(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row := data.ProcessedData[0]; row[11] != "short" || row[9] != "-250.00" {
		t.Fatalf("expected short with pnl -250.00, got %v", row)
	}
}

func TestNonFillActivityOnlyIsNoTrades(t *testing.T) {
	raw := activity("Orders\t2024-12-02 14:30:00\t\tESZ4\t1\t\t1\tBuy\t4500\tA1\t")
	if _, err := NewParser(nil).ProcessRawTable(raw); !errors.Is(err, models.ErrNoTradesProduced) {
		t.Fatalf("expected ErrNoTradesProduced, got %v", err)
	}
}

func TestMissingColumns(t *testing.T) {
	raw := table.Table{{"Symbol", "Quantity", "BuySell", "FillPrice"}, {"ESZ4", "1", "Buy", "1"}}
	if _, err := NewParser(nil).ProcessRawTable(raw); !errors.Is(err, models.ErrMissingExpectedColumn) {
		t.Fatalf("expected ErrMissingExpectedColumn without a date column, got %v", err)
	}
	raw = table.Table{{"DateTime", "Symbol"}, {"2024-12-02 14:30:00", "ESZ4"}}
	_, err := NewParser(nil).ProcessRawTable(raw)
	if !errors.Is(err, models.ErrMissingExpectedColumn) || !strings.Contains(err.Error(), "Quantity") {
		t.Fatalf("expected missing Quantity, got %v", err)
	}
}

func TestEmptyFile(t *testing.T) {
	if _, err := NewParser(nil).ProcessRawTable(table.Table{header}); !errors.Is(err, models.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := map[string]string{
		"2024-12-02 14:30:00":          "2024-12-02T14:30:00.000Z",
		"2024-12-02   14:30:00.9":      "2024-12-02T14:30:00.900Z",
		" 2024-12-02 14:30:00.123999 ": "2024-12-02T14:30:00.123Z",
	}
	for in, want := range cases {
		ts, err := ParseTimestamp(in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", in, err)
		}
		if got := models.FormatTimestamp(ts); got != want {
			t.Errorf("ParseTimestamp(%q) = %s, want %s", in, got, want)
		}
	}
	for _, bad := range []string{"", "2024-12-02", "02/12/2024 14:30:00", "2024-12-02 14:30:00.ab"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
