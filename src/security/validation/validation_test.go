package validation

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func TestSanitizeForFormulaInjection(t *testing.T) {
	cases := map[string]string{
		"=SUM(A1:A2)": "'=SUM(A1:A2)",
		"@cmd":        "'@cmd",
		"+ESZ4":       "'+ESZ4",
		"-12.50":      "-12.50",
		"4500":        "4500",
		"ESZ4":        "ESZ4",
		"":            "",
	}
	for in, want := range cases {
		if got := SanitizeForFormulaInjection(in); got != want {
			t.Errorf("SanitizeForFormulaInjection(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripUnprintable(t *testing.T) {
	if got := StripUnprintable("fills\x00\x07.txt\t"); got != "fills.txt\t" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestClientContentTypeByFormat(t *testing.T) {
	if err := ValidateClientContentType("text/html; charset=utf-16", models.FormatHTML); err != nil {
		t.Fatalf("expected html to be accepted: %v", err)
	}
	if err := ValidateClientContentType("text/html", models.FormatCSV); err == nil {
		t.Fatalf("expected html to be rejected for csv")
	}
	if err := ValidateClientContentType("", models.FormatTSV); err != nil {
		t.Fatalf("expected empty content type to be accepted: %v", err)
	}
}

func TestMagicBytesRewindsFile(t *testing.T) {
	file := bytes.NewReader([]byte("Symbol,Qty\nESZ4,1\n"))
	detected, err := ValidateFileContentByMagicBytes(file, models.FormatCSV)
	if err != nil || detected != "text/plain" {
		t.Fatalf("expected text/plain, got %q, %v", detected, err)
	}
	rest, _ := io.ReadAll(file)
	if !strings.HasPrefix(string(rest), "Symbol") {
		t.Fatalf("file was not rewound")
	}

	zip := bytes.NewReader([]byte("PK\x03\x04 not a csv"))
	if _, err := ValidateFileContentByMagicBytes(zip, models.FormatCSV); err == nil {
		t.Fatalf("expected a zip archive to be rejected")
	}
	html := bytes.NewReader([]byte("<!DOCTYPE html><html><body></body></html>"))
	if _, err := ValidateFileContentByMagicBytes(html, models.FormatHTML); err != nil {
		t.Fatalf("expected html to pass for the html format: %v", err)
	}
}
