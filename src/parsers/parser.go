// backend/src/parsers/parser.go
package parsers

import (
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/table"
)

// Platform turns one platform's raw export into a header list and rectangular rows.
// Implementations keep no state between calls.
type Platform interface {
	Info() models.PlatformInfo
	ProcessRawTable(raw table.Table) (models.ProcessedData, error)
}
