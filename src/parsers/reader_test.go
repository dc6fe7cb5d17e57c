package parsers

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/username/tradejournal/backend/src/models"
)

func TestReadTableSniffsDelimiter(t *testing.T) {
	cases := map[string]string{
		"comma":     "Symbol,Qty\nESZ4,1\n",
		"semicolon": "Symbol;Qty\nESZ4;1\n",
		"tab":       "Symbol\tQty\nESZ4\t1\n",
		"bom":       "\ufeffSymbol,Qty\r\nESZ4,1\r\n",
	}
	for name, in := range cases {
		tbl, err := ReadTable(strings.NewReader(in), models.FormatCSV)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(tbl) != 2 || tbl[0][0] != "Symbol" || tbl[1][1] != "1" {
			t.Fatalf("%s: unexpected table %q", name, tbl)
		}
	}
}

func TestReadTableToleratesRaggedRows(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("a,b,c\n1\n2,x\"y,3,4\n"), models.FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl) != 3 || len(tbl[1]) != 1 || len(tbl[2]) != 4 {
		t.Fatalf("unexpected table %q", tbl)
	}
}

func TestReadTableTSVKeepsCommas(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("Symbol\tNote\nESZ4\ta,b,c\n"), models.FormatTSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl[1][1] != "a,b,c" {
		t.Fatalf("unexpected cell %q", tbl[1][1])
	}
}

func TestReadTableDecodesUTF16HTML(t *testing.T) {
	html := "<html><body><table><tr><td>Time</td></tr></table></body></html>"
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	for _, u := range utf16.Encode([]rune(html)) {
		buf.WriteByte(byte(u))
		buf.WriteByte(byte(u >> 8))
	}

	tbl, err := ReadTable(&buf, models.FormatHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl) != 1 || len(tbl[0]) != 1 || tbl[0][0] != html {
		t.Fatalf("expected the decoded document as one cell, got %q", tbl)
	}
}

func TestReadTableEmpty(t *testing.T) {
	if _, err := ReadTable(strings.NewReader(" \n"), models.FormatCSV); !errors.Is(err, models.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
