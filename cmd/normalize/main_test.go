package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/username/tradejournal/backend/src/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestNormalizeSierraToStdout(t *testing.T) {
	in := writeFile(t, "log.txt", "ActivityType\tDateTime\tSymbol\tInternalOrderID\tQuantity\tBuySell\tFillPrice\tTradeAccount\n"+
		"Fills\t2024-12-02 14:30:00\tESZ4\t1\t1\tBuy\t4500\tA1\n"+
		"Fills\t2024-12-02 14:31:00\tESZ4\t2\t1\tSell\t4505\tA1\n")

	var out bytes.Buffer
	if err := run([]string{"-platform", "sierra", "-in", in}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "accountNumber,instrument") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !strings.Contains(lines[1], ",250.00,60,long,") {
		t.Fatalf("unexpected trade row %q", lines[1])
	}
}

func TestNormalizeSanitizesCells(t *testing.T) {
	in := writeFile(t, "export.csv", "Symbol,Note\nES,=HYPERLINK(\"x\")\nNQ,-5\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	if err := run([]string{"-platform", "tradezella", "-in", in, "-out", outPath}, &bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(got), `'=HYPERLINK`) {
		t.Fatalf("formula not neutralised: %s", got)
	}
	if !strings.Contains(string(got), "NQ,-5\n") {
		t.Fatalf("negative numbers must pass through unchanged: %s", got)
	}
}

func TestNormalizeErrors(t *testing.T) {
	if err := run([]string{"-platform", "sierra"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected an error without -in")
	}
	in := writeFile(t, "x.csv", "a,b\n1,2\n")
	if err := run([]string{"-platform", "nope", "-in", in}, &bytes.Buffer{}); !errors.Is(err, models.ErrUnsupportedPlatform) {
		t.Fatalf("expected ErrUnsupportedPlatform, got %v", err)
	}
}

func TestListPlatforms(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-list"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "rithmic-orders") || !strings.Contains(out.String(), "mt5") {
		t.Fatalf("missing platforms in %q", out.String())
	}
}

func TestNormalizeReportsOutputErrors(t *testing.T) {
	in := writeFile(t, "export.csv", "Symbol,Qty\nES,1\n")
	out := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	if err := run([]string{"-platform", "tradezella", "-in", in, "-out", out}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected an error when the output cannot be written")
	}
}

func TestWriteOutputClosesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := writeOutput(path, []string{"a"}, [][]string{{"1"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "a\n1\n" {
		t.Fatalf("unexpected file content %q, %v", got, err)
	}
}
