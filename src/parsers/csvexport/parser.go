// backend/src/parsers/csvexport/parser.go
package csvexport

import (
	"fmt"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/table"
)

// Parser passes a flat CSV export through unchanged apart from cleaning the
// header row. The rows are mapped onto trade fields later by the client.
type Parser struct {
	info models.PlatformInfo
}

// NewParser returns a pass-through parser described by info.
func NewParser(info models.PlatformInfo) *Parser {
	info.InputFormat = models.FormatCSV
	return &Parser{info: info}
}

// NewQuantowerParser handles Quantower order history exports.
func NewQuantowerParser() *Parser {
	return NewParser(models.PlatformInfo{
		ID:                  "quantower",
		Name:                "Quantower",
		Category:            "Platform CSV Import",
		SkipHeaderSelection: true,
	})
}

func (p *Parser) Info() models.PlatformInfo { return p.info }

// ProcessRawTable takes row 0 as the header and every later non-blank row as data,
// padded or truncated to the header width.
func (p *Parser) ProcessRawTable(raw table.Table) (models.ProcessedData, error) {
	if len(raw) == 0 {
		return models.ProcessedData{}, fmt.Errorf("%w: the %s file has no rows", models.ErrEmptyInput, p.info.Name)
	}
	headers := table.HeaderNames(raw[0])
	if len(headers) == 0 {
		return models.ProcessedData{}, fmt.Errorf("%w: the %s file has an empty header row", models.ErrEmptyInput, p.info.Name)
	}

	rows := make([][]string, 0, len(raw)-1)
	for _, row := range raw[1:] {
		if table.IsBlank(row) {
			continue
		}
		rows = append(rows, table.Rectangular(row, len(headers)))
	}
	return models.ProcessedData{Headers: headers, ProcessedData: rows}, nil
}
