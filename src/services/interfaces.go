package services

import (
	"context"
	"io"

	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/models"
)

// ImportRequest is one uploaded export.
type ImportRequest struct {
	UserID   int64
	Platform string
	FileName string
	File     io.Reader
	Save     bool // persist the trades for the user
}

// ImportResult is the normalized table plus what happened to it.
type ImportResult struct {
	ImportID string `json:"importId"`
	Platform string `json:"platform"`
	models.ProcessedData
	Saved  *model.InsertResult `json:"saved,omitempty"`
	Cached bool                `json:"cached"`
}

// ImportStats are process-lifetime counters.
type ImportStats struct {
	Imports   int64 `json:"imports"`
	Failures  int64 `json:"failures"`
	Trades    int64 `json:"trades"`
	CacheHits int64 `json:"cacheHits"`
}

// ImportService defines the upload normalization and trade storage logic.
type ImportService interface {
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
	Platforms() []models.PlatformInfo
	GetTrades(userID int64) ([]models.TradeRecord, error)
	DeleteTrades(userID int64) (int64, error)
	GetImports(userID int64) ([]model.ImportRecord, error)
	Stats() ImportStats
}
