// backend/src/services/import_service.go
package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/metrics"
	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers"
	"github.com/username/tradejournal/backend/src/processors"
	"github.com/username/tradejournal/backend/src/security/validation"
	"github.com/username/tradejournal/backend/src/telemetry"
)

const (
	// Normalized uploads keyed by content hash; identical re-uploads skip parsing.
	ckImportResult = "res_import_%s"
	// Stored trades of one user.
	ckUserTrades = "res_trades_user_%d"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type importServiceImpl struct {
	registry       *parsers.Registry
	tradeProcessor *processors.TradeProcessor
	db             *sql.DB
	resultCache    *cache.Cache
	resultTTL      time.Duration

	imports   atomic.Int64
	failures  atomic.Int64
	trades    atomic.Int64
	cacheHits atomic.Int64
}

func NewImportService(
	registry *parsers.Registry,
	tradeProcessor *processors.TradeProcessor,
	db *sql.DB,
	resultCache *cache.Cache,
	resultTTL time.Duration,
) ImportService {
	if resultTTL <= 0 {
		resultTTL = DefaultCacheExpiration
	}
	return &importServiceImpl{
		registry:       registry,
		tradeProcessor: tradeProcessor,
		db:             db,
		resultCache:    resultCache,
		resultTTL:      resultTTL,
	}
}

func (s *importServiceImpl) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	start := time.Now()
	importID := uuid.NewString()
	log := logger.FromContext(ctx).With("importID", importID, "userID", req.UserID, "platform", req.Platform)

	ctx, span := telemetry.StartSpan(ctx, "import")
	span.SetAttributes(attribute.String("platform", req.Platform), attribute.String("import.id", importID))
	defer span.End()

	log.Info("Import START", "file", req.FileName, "save", req.Save)
	result, err := s.importFile(ctx, importID, req)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		s.failures.Inc()
		span.RecordError(err)
		log.Warn("Import failed", "error", err, "duration", time.Since(start))
	} else {
		s.imports.Inc()
		s.trades.Add(int64(len(result.ProcessedData.ProcessedData)))
		log.Info("Import END", "rows", len(result.ProcessedData.ProcessedData), "skippedRows", result.SkippedRows,
			"fallback", result.UsedFallback, "cached", result.Cached, "duration", time.Since(start))
	}
	metrics.ImportsTotal.WithLabelValues(req.Platform, outcome).Inc()
	metrics.ImportDuration.WithLabelValues(req.Platform).Observe(time.Since(start).Seconds())
	return result, err
}

func (s *importServiceImpl) importFile(ctx context.Context, importID string, req ImportRequest) (*ImportResult, error) {
	platform, err := s.registry.Get(req.Platform)
	if err != nil {
		return nil, err
	}
	info := platform.Info()

	content, err := io.ReadAll(req.File)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read upload: %w", ErrParsingFailed, err)
	}

	data, cached, err := s.normalize(ctx, info, content)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{ImportID: importID, Platform: info.ID, ProcessedData: data, Cached: cached}
	if !req.Save {
		return result, nil
	}

	saved, err := s.save(ctx, importID, req, data)
	if err != nil {
		return nil, err
	}
	result.Saved = saved
	return result, nil
}

// normalize parses content, answering repeated uploads from the result cache.
func (s *importServiceImpl) normalize(ctx context.Context, info models.PlatformInfo, content []byte) (models.ProcessedData, bool, error) {
	sum := sha256.Sum256(append([]byte(info.ID+"\x00"), content...))
	cacheKey := fmt.Sprintf(ckImportResult, hex.EncodeToString(sum[:]))
	if cached, found := s.resultCache.Get(cacheKey); found {
		s.cacheHits.Inc()
		metrics.CacheHits.Inc()
		logger.FromContext(ctx).Debug("Cache hit for import result", "platform", info.ID)
		return cached.(models.ProcessedData), true, nil
	}

	_, span := telemetry.StartSpan(ctx, "normalize")
	defer span.End()

	raw, err := parsers.ReadTable(bytes.NewReader(content), info.InputFormat)
	if err != nil {
		return models.ProcessedData{}, false, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}
	data, err := s.registry.Dispatch(info.ID, raw)
	if err != nil {
		return models.ProcessedData{}, false, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	metrics.TradesProduced.WithLabelValues(info.ID).Add(float64(len(data.ProcessedData)))
	metrics.RowsSkipped.WithLabelValues(info.ID).Add(float64(data.SkippedRows))
	if data.UsedFallback {
		metrics.FallbackUsed.WithLabelValues(info.ID).Inc()
	}

	s.resultCache.Set(cacheKey, data, s.resultTTL)
	return data, false, nil
}

func (s *importServiceImpl) save(ctx context.Context, importID string, req ImportRequest, data models.ProcessedData) (*model.InsertResult, error) {
	_, span := telemetry.StartSpan(ctx, "save")
	defer span.End()

	records, err := s.tradeProcessor.Process(data, importID, req.Platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}

	inserted, err := model.InsertTrades(s.db, req.UserID, records)
	if err != nil {
		return nil, err
	}

	audit := &model.ImportRecord{
		ID:             importID,
		UserID:         req.UserID,
		Platform:       req.Platform,
		FileName:       validation.StripUnprintable(req.FileName),
		TradeCount:     len(records),
		InsertedCount:  inserted.Inserted,
		DuplicateCount: inserted.Duplicates,
		SkippedRows:    data.SkippedRows,
	}
	if err := audit.CreateImport(s.db); err != nil {
		return nil, err
	}

	s.InvalidateUserCache(req.UserID)
	return &inserted, nil
}

// InvalidateUserCache drops the cached trade list of a user.
func (s *importServiceImpl) InvalidateUserCache(userID int64) {
	s.resultCache.Delete(fmt.Sprintf(ckUserTrades, userID))
	logger.L.Debug("Invalidated trade cache for user", "userID", userID)
}

func (s *importServiceImpl) Platforms() []models.PlatformInfo {
	return s.registry.List()
}

func (s *importServiceImpl) GetTrades(userID int64) ([]models.TradeRecord, error) {
	cacheKey := fmt.Sprintf(ckUserTrades, userID)
	if cached, found := s.resultCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for user trades", "userID", userID)
		return cached.([]models.TradeRecord), nil
	}

	trades, err := model.GetTradesByUser(s.db, userID)
	if err != nil {
		return nil, err
	}
	s.resultCache.Set(cacheKey, trades, DefaultCacheExpiration)
	return trades, nil
}

func (s *importServiceImpl) DeleteTrades(userID int64) (int64, error) {
	n, err := model.DeleteTradesByUser(s.db, userID)
	if err != nil {
		return 0, err
	}
	s.InvalidateUserCache(userID)
	logger.L.Info("Deleted trades for user", "userID", userID, "count", n)
	return n, nil
}

func (s *importServiceImpl) GetImports(userID int64) ([]model.ImportRecord, error) {
	return model.GetImportsByUser(s.db, userID)
}

func (s *importServiceImpl) Stats() ImportStats {
	return ImportStats{
		Imports:   s.imports.Load(),
		Failures:  s.failures.Load(),
		Trades:    s.trades.Load(),
		CacheHits: s.cacheHits.Load(),
	}
}
