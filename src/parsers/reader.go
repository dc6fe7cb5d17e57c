// backend/src/parsers/reader.go
package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/table"
)

// ReadTable decodes an uploaded export into a raw table. Text is converted to
// UTF-8 first, so UTF-16 reports (MT5 writes those) read like any other file.
func ReadTable(r io.Reader, format models.InputFormat) (table.Table, error) {
	content, err := decode(r, format)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: the uploaded file is empty", models.ErrEmptyInput)
	}

	switch format {
	case models.FormatHTML:
		return table.Table{{content}}, nil
	case models.FormatTSV:
		return readDelimited(content, '\t')
	case models.FormatCSV, "":
		return readDelimited(content, sniffDelimiter(content))
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

func decode(r io.Reader, format models.InputFormat) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	contentType := "text/csv"
	if format == models.FormatHTML {
		contentType = "text/html"
	}
	utf8Reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to detect file encoding: %w", err)
	}
	decoded, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode file: %w", err)
	}
	return strings.TrimPrefix(string(decoded), "\ufeff"), nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on the first line.
func sniffDelimiter(content string) rune {
	first, _, _ := strings.Cut(content, "\n")
	best, bestCount := ',', strings.Count(first, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(first, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readDelimited(content string, delimiter rune) (table.Table, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read all CSV records: %w", err)
	}
	return table.Table(records), nil
}
