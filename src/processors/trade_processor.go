// backend/src/processors/trade_processor.go
package processors

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
)

type TradeProcessor struct{}

func NewTradeProcessor() *TradeProcessor { return &TradeProcessor{} }

// Process maps a closed-trade table onto records ready to be stored.
// Only results in the fixed 13-column schema can be persisted; pass-through
// tables still need the client-side column mapping.
func (p *TradeProcessor) Process(data models.ProcessedData, importID, platform string) ([]models.TradeRecord, error) {
	if !models.IsTradeSchema(data.Headers) {
		return nil, fmt.Errorf("result of platform %q is not in the closed-trade schema", platform)
	}

	records := make([]models.TradeRecord, 0, len(data.ProcessedData))
	for i, row := range data.ProcessedData {
		if len(row) != len(models.TradeHeaders) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(models.TradeHeaders))
		}
		rec := models.TradeRecord{
			ImportID:       importID,
			Platform:       platform,
			AccountNumber:  row[0],
			Instrument:     row[1],
			EntryID:        row[2],
			CloseID:        row[3],
			Quantity:       row[4],
			EntryPrice:     row[5],
			ClosePrice:     row[6],
			EntryDate:      row[7],
			CloseDate:      row[8],
			PnL:            row[9],
			TimeInPosition: row[10],
			Side:           row[11],
			Commission:     row[12],
		}
		rec.HashId = GenerateTradeHash(rec)
		records = append(records, rec)
	}
	return records, nil
}

// GenerateTradeHash identifies a trade independently of the file it came from,
// so the same round trip imported twice collides on (user_id, hash_id).
func GenerateTradeHash(rec models.TradeRecord) string {
	input := strings.Join([]string{
		strings.ToUpper(rec.Instrument),
		rec.EntryDate,
		rec.CloseDate,
		strings.ToLower(rec.Side),
		rec.Quantity,
		rec.EntryPrice,
		rec.ClosePrice,
	}, "|")
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
