// backend/src/parsers/rithmic/parser.go
package rithmic

import (
	"fmt"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/table"
)

type PerformanceParser struct{}

func NewPerformanceParser() *PerformanceParser { return &PerformanceParser{} }

func (p *PerformanceParser) Info() models.PlatformInfo {
	return models.PlatformInfo{
		ID:                  "rithmic-performance",
		Name:                "Rithmic Performance",
		Category:            "Platform CSV Import",
		InputFormat:         models.FormatCSV,
		SkipHeaderSelection: true,
	}
}

// ProcessRawTable prefixes every order row with the account and instrument
// lines that preceded it.
func (p *PerformanceParser) ProcessRawTable(raw table.Table) (models.ProcessedData, error) {
	var ctx table.Context
	var classifier performanceClassifier
	var rows [][]string

	for _, row := range raw {
		if classifier.Classify(row, &ctx) != table.DataRow {
			continue
		}
		if ctx.Account == "" || ctx.Instrument == "" {
			logger.L.Debug("Rithmic performance row without account or instrument context", "order", table.Cell(row, 0))
		}
		out := append([]string{ctx.Account, ctx.Instrument}, row...)
		rows = append(rows, table.Rectangular(out, len(ctx.Headers)))
	}

	if len(ctx.Headers) == 0 {
		return models.ProcessedData{}, fmt.Errorf("%w: no %q header row found in the Rithmic performance report", models.ErrEmptyInput, performanceHeaderCell)
	}
	return models.ProcessedData{Headers: ctx.Headers, ProcessedData: rows}, nil
}

type OrdersParser struct{}

func NewOrdersParser() *OrdersParser { return &OrdersParser{} }

func (p *OrdersParser) Info() models.PlatformInfo {
	return models.PlatformInfo{
		ID:                  "rithmic-orders",
		Name:                "Rithmic Orders",
		Category:            "Platform CSV Import",
		InputFormat:         models.FormatCSV,
		SkipHeaderSelection: true,
	}
}

func (p *OrdersParser) ProcessRawTable(raw table.Table) (models.ProcessedData, error) {
	var ctx table.Context
	classifier := newOrdersClassifier(raw)
	var rows [][]string

	for _, row := range raw {
		if classifier.Classify(row, &ctx) == table.DataRow {
			rows = append(rows, table.Rectangular(row, len(ctx.Headers)))
		}
	}

	if len(ctx.Headers) == 0 {
		return models.ProcessedData{}, fmt.Errorf("%w: no header row after %q in the Rithmic order history", models.ErrEmptyInput, completedOrdersMarker)
	}
	return models.ProcessedData{Headers: ctx.Headers, ProcessedData: rows}, nil
}
