// backend/src/parsers/sierra/parser.go
package sierra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/tradejournal/backend/src/instruments"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/table"
	"github.com/username/tradejournal/backend/src/processors"
)

// RequiredHeaders must all be present, plus one of DateTime or TransDateTime.
var RequiredHeaders = []string{"Symbol", "Quantity", "BuySell", "FillPrice"}

// columns holds the positions of the Trade Activity Log fields; -1 when absent.
type columns struct {
	dateTime, transDateTime int
	symbol, quantity        int
	buySell, fillPrice      int
	internalOrderID         int
	parentOrderID           int
	tradeAccount            int
	activityType            int
	commission              int
}

func resolveColumns(h table.Header) (columns, error) {
	if err := h.Require(RequiredHeaders...); err != nil {
		return columns{}, err
	}
	if !h.Has("DateTime") && !h.Has("TransDateTime") {
		return columns{}, fmt.Errorf("%w: DateTime or TransDateTime", models.ErrMissingExpectedColumn)
	}
	return columns{
		dateTime:        h.Index("DateTime"),
		transDateTime:   h.Index("TransDateTime"),
		symbol:          h.Index("Symbol"),
		quantity:        h.Index("Quantity"),
		buySell:         h.Index("BuySell"),
		fillPrice:       h.Index("FillPrice"),
		internalOrderID: h.Index("InternalOrderID"),
		parentOrderID:   h.Index("ParentInternalOrderID"),
		tradeAccount:    h.Index("TradeAccount"),
		activityType:    h.Index("ActivityType"),
		commission:      h.Index("Commission"),
	}, nil
}

// newClassifier marks every non-fill activity (orders, position snapshots) as ignorable.
func newClassifier(cols columns) table.Classifier {
	return table.ClassifierFunc(func(row []string, _ *table.Context) table.RowKind {
		if table.IsBlank(row) {
			return table.Ignorable
		}
		activity := strings.ToLower(table.Cell(row, cols.activityType))
		if activity != "" && activity != "fills" {
			return table.Ignorable
		}
		return table.DataRow
	})
}

type Parser struct {
	aggregator *processors.FillAggregator
}

func NewParser(specs *instruments.Table) *Parser {
	return &Parser{aggregator: processors.NewFillAggregator(specs, true)}
}

func (p *Parser) Info() models.PlatformInfo {
	return models.PlatformInfo{
		ID:                  "sierra",
		Name:                "Sierra Chart",
		Category:            "Platform CSV Import",
		InputFormat:         models.FormatTSV,
		RequiredHeaders:     RequiredHeaders,
		SkipHeaderSelection: true,
		FillFallback:        true,
	}
}

// ProcessRawTable rebuilds round-trip trades from a tab-separated Trade Activity Log.
func (p *Parser) ProcessRawTable(raw table.Table) (models.ProcessedData, error) {
	if len(raw) < 2 {
		return models.ProcessedData{}, fmt.Errorf("%w: the Sierra file has no activity rows", models.ErrEmptyInput)
	}
	header := table.NewHeader(raw[0])
	cols, err := resolveColumns(header)
	if err != nil {
		return models.ProcessedData{}, err
	}

	ctx := table.Context{Headers: header.Names()}
	classifier := newClassifier(cols)
	var diag table.Diagnostics
	var fills []models.FillEvent

	for i, row := range raw[1:] {
		if classifier.Classify(row, &ctx) != table.DataRow {
			continue
		}
		fill, err := parseFill(row, cols)
		if err != nil {
			line := i + 2
			logger.L.Debug("Skipping Sierra row", "line", line, "error", err)
			diag.Skip(line, err)
			continue
		}
		fills = append(fills, fill)
	}

	result, err := p.aggregator.Process(fills)
	if err != nil {
		return models.ProcessedData{}, err
	}

	data := models.ProcessedData{
		Headers:       models.TradeHeaders,
		ProcessedData: make([][]string, 0, len(result.Trades)),
		OpenPositions: result.OpenPositions,
		UsedFallback:  result.UsedFallback,
	}
	for _, trade := range result.Trades {
		data.ProcessedData = append(data.ProcessedData, trade.Row())
	}
	diag.Apply(&data)
	return data, nil
}

func parseFill(row []string, cols columns) (models.FillEvent, error) {
	ts, err := ParseTimestamp(table.Cell(row, cols.dateTime))
	if err != nil {
		ts, err = ParseTimestamp(table.Cell(row, cols.transDateTime))
		if err != nil {
			return models.FillEvent{}, err
		}
	}

	symbol := instruments.Normalize(table.Cell(row, cols.symbol))
	if symbol == "" {
		return models.FillEvent{}, errors.New("empty symbol")
	}

	qty, err := decimal.NewFromString(table.Cell(row, cols.quantity))
	if err != nil || !qty.IsPositive() || !qty.IsInteger() {
		return models.FillEvent{}, fmt.Errorf("invalid quantity %q", table.Cell(row, cols.quantity))
	}

	var side models.Side
	switch strings.ToLower(table.Cell(row, cols.buySell)) {
	case "buy", "b":
		side = models.SideLong
	case "sell", "s":
		side = models.SideShort
	default:
		return models.FillEvent{}, fmt.Errorf("invalid side %q", table.Cell(row, cols.buySell))
	}

	price, err := decimal.NewFromString(table.Cell(row, cols.fillPrice))
	if err != nil {
		return models.FillEvent{}, fmt.Errorf("invalid fill price %q", table.Cell(row, cols.fillPrice))
	}

	commission, err := decimal.NewFromString(table.Cell(row, cols.commission))
	if err != nil {
		commission = decimal.Zero
	}

	return models.FillEvent{
		Account:       table.Cell(row, cols.tradeAccount),
		Instrument:    symbol,
		OrderID:       table.Cell(row, cols.internalOrderID),
		ParentOrderID: table.Cell(row, cols.parentOrderID),
		Timestamp:     ts,
		Side:          side,
		Quantity:      qty.IntPart(),
		Price:         price,
		Commission:    commission.Abs(),
	}, nil
}

// ParseTimestamp reads "YYYY-MM-DD HH:MM:SS[.ffffff]" as UTC, keeping millisecond precision.
func ParseTimestamp(val string) (time.Time, error) {
	parts := strings.Fields(val)
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", val)
	}
	clock, frac, _ := strings.Cut(parts[1], ".")
	t, err := time.ParseInLocation("2006-01-02 15:04:05", parts[0]+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", val)
	}

	ms := (frac + "000")[:3]
	var millis int
	for _, c := range ms {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("invalid fractional seconds in %q", val)
		}
		millis = millis*10 + int(c-'0')
	}
	return t.Add(time.Duration(millis) * time.Millisecond), nil
}
