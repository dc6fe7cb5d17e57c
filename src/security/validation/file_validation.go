package validation

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
)

// Client-declared MIME types accepted per input format.
var allowedClientContentTypes = map[models.InputFormat]map[string]bool{
	models.FormatCSV: {
		"text/csv":                 true,
		"application/csv":          true,
		"application/vnd.ms-excel": true,
		"text/plain":               true,
		"application/octet-stream": true,
	},
	models.FormatTSV: {
		"text/tab-separated-values": true,
		"text/plain":                true,
		"text/csv":                  true,
		"application/octet-stream":  true,
	},
	models.FormatHTML: {
		"text/html":                true,
		"application/xhtml+xml":    true,
		"text/plain":               true,
		"application/octet-stream": true,
	},
}

// Sniffed types that are consistent with each input format. UTF-16 reports sniff as text/plain.
var allowedDetectedTypes = map[models.InputFormat]map[string]bool{
	models.FormatCSV:  {"text/plain": true, "text/csv": true, "application/csv": true, "application/octet-stream": true},
	models.FormatTSV:  {"text/plain": true, "application/octet-stream": true},
	models.FormatHTML: {"text/html": true, "text/xml": true, "text/plain": true},
}

// ValidateClientContentType checks the Content-Type header provided by the client.
// An empty header is accepted; the magic-byte check still runs.
func ValidateClientContentType(contentType string, format models.InputFormat) error {
	if strings.TrimSpace(contentType) == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("invalid content type %q: %w", contentType, err)
	}
	if !allowedClientContentTypes[format][strings.ToLower(mediaType)] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType, "format", format)
		return fmt.Errorf("client-declared file type '%s' is not allowed for %s upload", contentType, format)
	}
	return nil
}

// ValidateFileContentByMagicBytes checks the actual file content signature (magic bytes)
// and rewinds file. It returns the detected content type.
func ValidateFileContentByMagicBytes(file io.ReadSeeker, format models.InputFormat) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	// The parser reads the file again from the start.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	detectedContentType := http.DetectContentType(buffer[:n])
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0])

	if !allowedDetectedTypes[format][detectedContentType] {
		logger.L.Warn("Disallowed detected file content type (magic bytes)", "detectedContentType", detectedContentType, "format", format)
		return detectedContentType, fmt.Errorf("detected file content type '%s' is not consistent with a %s file", detectedContentType, format)
	}

	logger.L.Debug("File content type (magic bytes) validated", "detectedContentType", detectedContentType)
	return detectedContentType, nil
}
