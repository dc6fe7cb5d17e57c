// backend/src/handlers/trade_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

type TradeHandler struct {
	importService services.ImportService
}

func NewTradeHandler(service services.ImportService) *TradeHandler {
	return &TradeHandler{importService: service}
}

// HandleGetTrades lists the user's stored trades, optionally limited to close
// dates within ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *TradeHandler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	from, err := utils.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := utils.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	trades, err := h.importService.GetTrades(userID)
	if err != nil {
		log.Error("Error retrieving trades from service", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving trades for userID %d", userID), http.StatusInternalServerError)
		return
	}
	if !from.IsZero() || !to.IsZero() {
		filtered := []models.TradeRecord{}
		for _, t := range trades {
			if utils.InDateRange(t.CloseDate, from, to) {
				filtered = append(filtered, t)
			}
		}
		trades = filtered
	}

	currentETag, etagErr := utils.GenerateETag(trades)
	if etagErr != nil {
		log.Error("Failed to generate ETag for trades", "userID", userID, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				log.Info("ETag match for trades", "userID", userID, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		if clientETag != "" {
			log.Debug("ETag mismatch", "userID", userID, "clientETags", clientETag, "serverETag", quotedETag)
		}
	}

	utils.SendJSON(w, trades, http.StatusOK)
}

func (h *TradeHandler) HandleDeleteTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	deleted, err := h.importService.DeleteTrades(userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error deleting trades", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error deleting trades", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]int64{"deleted": deleted}, http.StatusOK)
}
