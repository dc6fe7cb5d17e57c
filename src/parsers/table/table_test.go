package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func TestHeaderNamesKeepsPositions(t *testing.T) {
	got := HeaderNames([]string{"Symbol", "", " Qty ", "", ""})
	want := []string{"Symbol", "Column 2", "Qty"}
	if len(got) != len(want) {
		t.Fatalf("expected %d headers, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestHeaderIsCaseInsensitive(t *testing.T) {
	h := NewHeader([]string{"DateTime", "symbol", "FillPrice", "Symbol"})
	if h.Index("datetime") != 0 || h.Index("SYMBOL") != 1 || h.Index("fillprice") != 2 {
		t.Fatalf("unexpected header indexes")
	}
	if h.Index("Quantity") != -1 {
		t.Fatalf("expected -1 for a missing column")
	}
}

func TestRequireNamesMissingColumns(t *testing.T) {
	h := NewHeader([]string{"Symbol"})
	err := h.Require("Symbol", "Quantity", "BuySell")
	if !errors.Is(err, models.ErrMissingExpectedColumn) {
		t.Fatalf("expected ErrMissingExpectedColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "Quantity, BuySell") {
		t.Fatalf("expected missing names in message, got %q", err.Error())
	}
	if err := h.Require("symbol"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCellAndBlank(t *testing.T) {
	row := []string{" a ", ""}
	if Cell(row, 0) != "a" || Cell(row, 5) != "" || Cell(row, -1) != "" {
		t.Fatalf("unexpected Cell results")
	}
	if !IsBlank([]string{" ", "\t"}) || IsBlank(row) {
		t.Fatalf("unexpected IsBlank results")
	}
	if got := Rectangular([]string{"a", "b", "c"}, 2); len(got) != 2 || got[1] != "b" {
		t.Fatalf("expected truncation, got %v", got)
	}
	if got := Rectangular([]string{"a"}, 3); len(got) != 3 || got[2] != "" {
		t.Fatalf("expected padding, got %v", got)
	}
}

func TestDiagnosticsCollectsSkippedRows(t *testing.T) {
	var d Diagnostics
	if d.Err() != nil || d.Warnings() != nil {
		t.Fatalf("expected empty diagnostics")
	}
	d.Skip(3, errors.New("bad timestamp"))
	d.Skip(7, errors.New("empty symbol"))

	if d.Skipped() != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", d.Skipped())
	}
	if !errors.Is(d.Err(), models.ErrUnparseableRow) {
		t.Fatalf("expected aggregated error to wrap ErrUnparseableRow")
	}

	var data models.ProcessedData
	d.Apply(&data)
	if data.SkippedRows != 2 || len(data.Warnings) != 2 {
		t.Fatalf("unexpected applied diagnostics: %+v", data)
	}
	if !strings.HasPrefix(data.Warnings[0], "row 3:") {
		t.Fatalf("unexpected warning %q", data.Warnings[0])
	}
}
