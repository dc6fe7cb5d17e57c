package model

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
)

// InsertResult counts what happened to a batch of trades.
type InsertResult struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}

// ImportRecord is the audit row written for every saved import.
type ImportRecord struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"user_id"`
	Platform       string    `json:"platform"`
	FileName       string    `json:"file_name"`
	TradeCount     int       `json:"trade_count"`
	InsertedCount  int       `json:"inserted_count"`
	DuplicateCount int       `json:"duplicate_count"`
	SkippedRows    int       `json:"skipped_rows"`
	CreatedAt      time.Time `json:"created_at"`
}

// InsertTrades stores records for userID in one transaction. Trades whose hash
// already exists for the user are counted as duplicates and skipped.
func InsertTrades(db *sql.DB, userID int64, records []models.TradeRecord) (InsertResult, error) {
	var result InsertResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return result, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO trades (user_id, import_id, platform, account_number, instrument, entry_id, close_id, quantity, entry_price, close_price, entry_date, close_date, pnl, time_in_position, side, commission, hash_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return result, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(userID, r.ImportID, r.Platform, r.AccountNumber, r.Instrument, r.EntryID, r.CloseID, r.Quantity, r.EntryPrice, r.ClosePrice, r.EntryDate, r.CloseDate, r.PnL, r.TimeInPosition, r.Side, r.Commission, r.HashId)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate trade", "userID", userID, "hash_id", r.HashId)
				result.Duplicates++
				continue
			}
			return InsertResult{}, fmt.Errorf("error inserting trade (%s %s): %w", r.Instrument, r.CloseDate, err)
		}
		result.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return InsertResult{}, fmt.Errorf("error committing trades: %w", err)
	}
	return result, nil
}

// GetTradesByUser returns the user's trades ordered by close date.
func GetTradesByUser(db *sql.DB, userID int64) ([]models.TradeRecord, error) {
	rows, err := db.Query(`SELECT id, import_id, platform, account_number, instrument, entry_id, close_id, quantity, entry_price, close_price, entry_date, close_date, pnl, time_in_position, side, commission, hash_id FROM trades WHERE user_id = ? ORDER BY close_date ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying trades for userID %d: %w", userID, err)
	}
	defer rows.Close()

	trades := []models.TradeRecord{}
	for rows.Next() {
		var r models.TradeRecord
		if err := rows.Scan(&r.ID, &r.ImportID, &r.Platform, &r.AccountNumber, &r.Instrument, &r.EntryID, &r.CloseID, &r.Quantity, &r.EntryPrice, &r.ClosePrice, &r.EntryDate, &r.CloseDate, &r.PnL, &r.TimeInPosition, &r.Side, &r.Commission, &r.HashId); err != nil {
			return nil, fmt.Errorf("error scanning trade row for userID %d: %w", userID, err)
		}
		trades = append(trades, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over trade rows for userID %d: %w", userID, err)
	}
	return trades, nil
}

// DeleteTradesByUser removes every stored trade of the user and returns how many went.
func DeleteTradesByUser(db *sql.DB, userID int64) (int64, error) {
	res, err := db.Exec(`DELETE FROM trades WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("error deleting trades for userID %d: %w", userID, err)
	}
	return res.RowsAffected()
}

// CreateImport writes the audit row of a saved import.
func (r *ImportRecord) CreateImport(db *sql.DB) error {
	_, err := db.Exec(`INSERT INTO imports (id, user_id, platform, file_name, trade_count, inserted_count, duplicate_count, skipped_rows) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Platform, r.FileName, r.TradeCount, r.InsertedCount, r.DuplicateCount, r.SkippedRows)
	if err != nil {
		return fmt.Errorf("error inserting import %s: %w", r.ID, err)
	}
	return nil
}

// GetImportsByUser lists the user's saved imports, newest first.
func GetImportsByUser(db *sql.DB, userID int64) ([]ImportRecord, error) {
	rows, err := db.Query(`SELECT id, user_id, platform, file_name, trade_count, inserted_count, duplicate_count, skipped_rows, created_at FROM imports WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying imports for userID %d: %w", userID, err)
	}
	defer rows.Close()

	imports := []ImportRecord{}
	for rows.Next() {
		var r ImportRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Platform, &r.FileName, &r.TradeCount, &r.InsertedCount, &r.DuplicateCount, &r.SkippedRows, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning import row: %w", err)
		}
		imports = append(imports, r)
	}
	return imports, rows.Err()
}
