// backend/src/parsers/mt5/parser.go
package mt5

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/table"
)

const (
	positionsSection = "Positions"
	timestampLayout  = "2006.01.02 15:04:05"
	minPositionCells = 13
)

var datePrefixRe = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}`)

// Column order of a Positions row once hidden cells are removed.
const (
	colOpenTime = iota
	colPosition
	colSymbol
	colType
	colVolume
	colOpenPrice
	colStopLoss
	colTakeProfit
	colCloseTime
	colClosePrice
	colCommission
	colSwap
	colProfit
)

// newClassifier recognises the Positions header and the closed-position rows below it.
// Rows above the header are ignored. A report without a header has every row scanned.
func newClassifier(hasHeader bool) table.Classifier {
	return table.ClassifierFunc(func(row []string, ctx *table.Context) table.RowKind {
		if hasHeader && len(ctx.Headers) == 0 {
			if isHeader(row) {
				ctx.Headers = row
				return table.HeaderRow
			}
			return table.Ignorable
		}
		if len(row) < minPositionCells || !datePrefixRe.MatchString(row[colOpenTime]) {
			return table.Ignorable
		}
		return table.DataRow
	})
}

func isHeader(row []string) bool {
	return containsFold(row, "Time") && containsFold(row, "Symbol")
}

func containsFold(row []string, name string) bool {
	for _, c := range row {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

type Parser struct{}

func NewParser() *Parser { return &Parser{} }

func (p *Parser) Info() models.PlatformInfo {
	return models.PlatformInfo{
		ID:                  "mt5",
		Name:                "MetaTrader 5",
		Category:            "Platform CSV Import",
		InputFormat:         models.FormatHTML,
		RequiredHeaders:     []string{"Time", "Symbol"},
		SkipHeaderSelection: true,
	}
}

// ProcessRawTable reads an MT5 account history report. The whole document arrives
// as the cells of raw; only the Positions section is turned into trades.
func (p *Parser) ProcessRawTable(raw table.Table) (models.ProcessedData, error) {
	var sb strings.Builder
	for _, row := range raw {
		for _, cell := range row {
			sb.WriteString(cell)
			sb.WriteByte('\n')
		}
	}
	html := strings.ReplaceAll(sb.String(), "\x00", "")
	if strings.TrimSpace(html) == "" {
		return models.ProcessedData{}, fmt.Errorf("%w: the MT5 HTML file is empty", models.ErrEmptyInput)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.ProcessedData{}, fmt.Errorf("%w: %v", models.ErrEmptyInput, err)
	}

	ctx := table.Context{Account: accountNumber(doc)}
	var diag table.Diagnostics
	var rows [][]string

	positions := positionRows(doc)
	classifier := newClassifier(slices.ContainsFunc(positions, isHeader))
	for i, cells := range positions {
		if classifier.Classify(cells, &ctx) != table.DataRow {
			continue
		}
		out, err := positionRecord(ctx.Account, cells)
		if err != nil {
			logger.L.Debug("Skipping MT5 position row", "row", i+1, "error", err)
			diag.Skip(i+1, err)
			continue
		}
		rows = append(rows, out)
	}

	if len(rows) == 0 {
		return models.ProcessedData{}, fmt.Errorf("%w: MT5 HTML report has no closed positions", models.ErrNoTradesProduced)
	}

	data := models.ProcessedData{Headers: models.TradeHeaders, ProcessedData: rows}
	diag.Apply(&data)
	return data, nil
}

// accountNumber reads the value cell next to the "Account:" label.
func accountNumber(doc *goquery.Document) string {
	var account string
	doc.Find("th").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if cleanText(s.Text()) != "Account:" {
			return true
		}
		value := s.Next()
		if b := value.Find("b"); b.Length() > 0 {
			value = b.First()
		}
		account = cleanText(value.Text())
		return false
	})
	return account
}

// positionRows returns the visible cells of every row in the Positions section.
// Without a Positions title the whole document is scanned.
func positionRows(doc *goquery.Document) [][]string {
	rows := doc.Find("tr")
	hasSection := false
	rows.EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		hasSection = isSectionTitle(tr, positionsSection)
		return !hasSection
	})

	var out [][]string
	inSection := !hasSection
	rows.EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if tr.Find("th").Length() > 0 {
			if isSectionTitle(tr, positionsSection) {
				inSection = true
				return true
			}
			if inSection && hasSection && tr.Find("th b").Length() > 0 {
				// Next section (Orders, Deals, ...) ends the Positions block.
				return false
			}
		}
		if !inSection {
			return true
		}
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			if strings.HasPrefix(td.AttrOr("class", ""), "hidden") {
				return
			}
			cells = append(cells, cleanText(td.Text()))
		})
		if len(cells) > 0 {
			out = append(out, cells)
		}
		return true
	})
	return out
}

func isSectionTitle(tr *goquery.Selection, title string) bool {
	th := tr.Find("th")
	return th.Length() > 0 && th.Find("b").Length() > 0 && cleanText(th.Text()) == title
}

func positionRecord(account string, cells []string) ([]string, error) {
	symbol := cells[colSymbol]
	if symbol == "" {
		return nil, errors.New("empty symbol")
	}
	volume, err := number(cells[colVolume])
	if err != nil || !volume.IsPositive() {
		return nil, fmt.Errorf("invalid volume %q", cells[colVolume])
	}
	openTime, err := time.ParseInLocation(timestampLayout, cells[colOpenTime], time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid open time %q", cells[colOpenTime])
	}
	closeTime, err := time.ParseInLocation(timestampLayout, cells[colCloseTime], time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid close time %q", cells[colCloseTime])
	}

	side := models.SideShort
	if strings.Contains(strings.ToLower(cells[colType]), "buy") {
		side = models.SideLong
	}
	profit, err := number(cells[colProfit])
	if err != nil {
		profit = decimal.Zero
	}
	commission, err := number(cells[colCommission])
	if err != nil {
		commission = decimal.Zero
	}

	return []string{
		account,
		symbol,
		cells[colPosition],
		cells[colPosition],
		volume.String(),
		priceString(cells[colOpenPrice]),
		priceString(cells[colClosePrice]),
		models.FormatTimestamp(openTime),
		models.FormatTimestamp(closeTime),
		profit.StringFixed(2),
		models.FormatSeconds(closeTime.Sub(openTime).Seconds()),
		string(side),
		commission.Abs().String(),
	}, nil
}

// number parses MT5 amounts, which use spaces as thousands separators.
func number(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, " ", ""))
}

func priceString(s string) string {
	if d, err := number(s); err == nil {
		return d.String()
	}
	return s
}

func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
