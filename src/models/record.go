// backend/src/models/record.go
package models

// TradeRecord is a closed-trade row keyed by camelCase field names, as handed to persistence.
// Numeric fields stay as decimal strings to preserve precision through the text pipeline.
type TradeRecord struct {
	ID             int64  `json:"id,omitempty"`
	ImportID       string `json:"importId,omitempty"`
	Platform       string `json:"platform,omitempty"`
	AccountNumber  string `json:"accountNumber"`
	Instrument     string `json:"instrument"`
	EntryID        string `json:"entryId"`
	CloseID        string `json:"closeId"`
	Quantity       string `json:"quantity"`
	EntryPrice     string `json:"entryPrice"`
	ClosePrice     string `json:"closePrice"`
	EntryDate      string `json:"entryDate"`
	CloseDate      string `json:"closeDate"`
	PnL            string `json:"pnl"`
	TimeInPosition string `json:"timeInPosition"`
	Side           string `json:"side"`
	Commission     string `json:"commission"`
	HashId         string `json:"hashId"` // dedupe key, see processors.TradeProcessor
}
