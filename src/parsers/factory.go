// backend/src/parsers/factory.go
package parsers

import (
	"fmt"
	"sort"

	"github.com/username/tradejournal/backend/src/instruments"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/csvexport"
	"github.com/username/tradejournal/backend/src/parsers/mt5"
	"github.com/username/tradejournal/backend/src/parsers/rithmic"
	"github.com/username/tradejournal/backend/src/parsers/sierra"
	"github.com/username/tradejournal/backend/src/parsers/table"
)

// Registry maps platform ids to their parsing pipeline. It is read-only after
// NewRegistry returns and safe for concurrent use.
type Registry struct {
	platforms map[string]Platform
}

// NewRegistry registers every supported platform. specs is the instrument table
// used by the platforms that rebuild trades from fills.
func NewRegistry(specs *instruments.Table) *Registry {
	r := &Registry{platforms: make(map[string]Platform)}

	for _, info := range standardCSVPlatforms {
		r.register(csvexport.NewParser(info))
	}
	r.register(csvexport.NewQuantowerParser())
	r.register(rithmic.NewPerformanceParser())
	r.register(rithmic.NewOrdersParser())
	r.register(sierra.NewParser(specs))
	r.register(mt5.NewParser())
	return r
}

var standardCSVPlatforms = []models.PlatformInfo{
	{ID: "csv-ai", Name: "Generic CSV", Category: "Intelligent Import", RequiresAccountSelection: true},
	{ID: "tradezella", Name: "Tradezella", Category: "Platform CSV Import"},
	{ID: "tradovate", Name: "Tradovate", Category: "Platform CSV Import", RequiresAccountSelection: true},
	{ID: "topstep", Name: "Topstep", Category: "Platform CSV Import", RequiresAccountSelection: true},
	{ID: "ninjatrader-performance", Name: "NinjaTrader Performance", Category: "Platform CSV Import"},
	{ID: "ftmo", Name: "FTMO", Category: "Platform CSV Import", RequiresAccountSelection: true, SkipHeaderSelection: true},
}

func (r *Registry) register(p Platform) {
	r.platforms[p.Info().ID] = p
}

// Get returns the platform registered under id.
func (r *Registry) Get(id string) (Platform, error) {
	p, ok := r.platforms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedPlatform, id)
	}
	return p, nil
}

// Dispatch runs the pipeline of platformID over raw.
func (r *Registry) Dispatch(platformID string, raw table.Table) (models.ProcessedData, error) {
	p, err := r.Get(platformID)
	if err != nil {
		return models.ProcessedData{}, err
	}
	if len(raw) == 0 {
		return models.ProcessedData{}, fmt.Errorf("%w: no rows to process for %s", models.ErrEmptyInput, platformID)
	}
	return p.ProcessRawTable(raw)
}

// List describes every registered platform, sorted by id.
func (r *Registry) List() []models.PlatformInfo {
	out := make([]models.PlatformInfo, 0, len(r.platforms))
	for _, p := range r.platforms {
		out = append(out, p.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
