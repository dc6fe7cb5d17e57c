// backend/src/handlers/import_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/security/validation"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
	maxUploadSize int64
}

func NewImportHandler(service services.ImportService, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{
		importService: service,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	limit := humanize.Bytes(uint64(h.maxUploadSize))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "userID", userID, "error", err, "limit", h.maxUploadSize)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %s)", limit), http.StatusBadRequest)
		return
	}

	platformID := r.FormValue("platform")
	if platformID == "" {
		utils.SendJSONError(w, "The 'platform' field is required.", http.StatusBadRequest)
		return
	}
	info, found := h.findPlatform(platformID)
	if !found {
		log.Warn("Import requested for unknown platform", "userID", userID, "platform", platformID)
		utils.SendJSONError(w, fmt.Sprintf("Unsupported platform %q", platformID), http.StatusNotFound)
		return
	}

	save := false
	if v := r.FormValue("save"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			utils.SendJSONError(w, "The 'save' field must be a boolean.", http.StatusBadRequest)
			return
		}
		save = parsed
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > h.maxUploadSize {
		log.Warn("Uploaded file header reports size too large", "userID", userID, "fileSize", fileHeader.Size, "limit", h.maxUploadSize)
		utils.SendJSONError(w, fmt.Sprintf("File too large (%s), max %s", humanize.Bytes(uint64(fileHeader.Size)), limit), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType, info.InputFormat); err != nil {
		log.Warn("Invalid client-declared file type", "userID", userID, "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file, info.InputFormat)
	if err != nil {
		log.Warn("Server-side file content validation failed", "userID", userID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Info("File content validated by magic bytes", "userID", userID, "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	result, err := h.importService.Import(r.Context(), services.ImportRequest{
		UserID:   userID,
		Platform: info.ID,
		FileName: fileHeader.Filename,
		File:     file,
		Save:     save,
	})
	if err != nil {
		status, message := importErrorResponse(err)
		if status == http.StatusInternalServerError {
			log.Error("Internal error processing import", "userID", userID, "filename", fileHeader.Filename, "error", err)
		} else {
			log.Warn("Import rejected", "userID", userID, "filename", fileHeader.Filename, "status", status, "error", err)
		}
		utils.SendJSONError(w, message, status)
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}

// importErrorResponse maps service errors onto a status and a client-facing message.
func importErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrUnsupportedPlatform):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrEmptyInput),
		errors.Is(err, models.ErrMissingExpectedColumn),
		errors.Is(err, models.ErrNoTradesProduced):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, services.ErrProcessingFailed):
		return http.StatusUnprocessableEntity, fmt.Sprintf("Error storing trades from file: %v", err)
	case errors.Is(err, services.ErrParsingFailed):
		return http.StatusBadRequest, fmt.Sprintf("Error parsing file: %v", err)
	}
	return http.StatusInternalServerError, "An internal error occurred while processing the file. Please try again later."
}

func (h *ImportHandler) findPlatform(id string) (models.PlatformInfo, bool) {
	for _, p := range h.importService.Platforms() {
		if p.ID == id {
			return p, true
		}
	}
	return models.PlatformInfo{}, false
}

func (h *ImportHandler) HandleGetImports(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	imports, err := h.importService.GetImports(userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error retrieving imports", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving imports", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, imports, http.StatusOK)
}

func (h *ImportHandler) HandleListPlatforms(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, h.importService.Platforms(), http.StatusOK)
}

func (h *ImportHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, h.importService.Stats(), http.StatusOK)
}
