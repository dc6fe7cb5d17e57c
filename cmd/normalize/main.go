// Command normalize converts one trading platform export into the normalized
// table without going through the HTTP service.
//
//	normalize -platform sierra -in TradeActivityLog.txt -out trades.csv
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/username/tradejournal/backend/src/instruments"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/parsers"
	"github.com/username/tradejournal/backend/src/security/validation"
)

func main() {
	logger.L = logger.New(os.Stderr, os.Getenv("LOG_LEVEL"), isatty.IsTerminal(os.Stderr.Fd()))
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "normalize:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	platformID := fs.String("platform", "", "platform id (see -list)")
	in := fs.String("in", "", "export file to read")
	out := fs.String("out", "", "CSV file to write (default stdout)")
	specsPath := fs.String("specs", "", "YAML instrument spec overrides")
	list := fs.Bool("list", false, "print the supported platforms and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	specs, err := instruments.LoadTable(*specsPath)
	if err != nil {
		return err
	}
	registry := parsers.NewRegistry(specs)

	if *list {
		for _, p := range registry.List() {
			fmt.Fprintf(stdout, "%-24s %-5s %s\n", p.ID, p.InputFormat, p.Name)
		}
		return nil
	}
	if *platformID == "" || *in == "" {
		fs.Usage()
		return errors.New("-platform and -in are required")
	}

	platform, err := registry.Get(*platformID)
	if err != nil {
		return err
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := parsers.ReadTable(f, platform.Info().InputFormat)
	if err != nil {
		return err
	}
	data, err := registry.Dispatch(*platformID, raw)
	if err != nil {
		return err
	}

	for _, w := range data.Warnings {
		logger.L.Warn("Skipped row", "file", *in, "detail", w)
	}
	for _, p := range data.OpenPositions {
		logger.L.Warn("Position still open at end of file", "account", p.Account, "instrument", p.Instrument,
			"side", p.Side, "quantity", p.Quantity, "avgEntryPrice", p.AvgEntryPrice.String())
	}
	if data.UsedFallback {
		logger.L.Warn("No round trip found, emitted one record per fill", "file", *in)
	}

	if *out == "" {
		if err := writeCSV(stdout, data.Headers, data.ProcessedData); err != nil {
			return err
		}
	} else if err := writeOutput(*out, data.Headers, data.ProcessedData); err != nil {
		return err
	}
	logger.L.Info("Normalized export", "platform", *platformID, "rows", len(data.ProcessedData), "skippedRows", data.SkippedRows)
	return nil
}

// writeOutput writes the CSV to path and reports a failed close.
func writeOutput(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCSV(f, headers, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = validation.SanitizeForFormulaInjection(strings.TrimSpace(cell))
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
