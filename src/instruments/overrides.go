package instruments

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of INSTRUMENT_SPECS_PATH:
//
//	instruments:
//	  - root: ES
//	    tick_size: "0.25"
//	    tick_value: "12.5"
type overrideFile struct {
	Instruments []struct {
		Root      string `yaml:"root"`
		TickSize  string `yaml:"tick_size"`
		TickValue string `yaml:"tick_value"`
	} `yaml:"instruments"`
}

// LoadOverrides reads extra or replacement specs from a YAML file.
func LoadOverrides(path string) ([]Spec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instrument specs: %w", err)
	}
	defer file.Close()

	var doc overrideFile
	if err := yaml.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode instrument specs: %w", err)
	}

	specs := make([]Spec, 0, len(doc.Instruments))
	for i, entry := range doc.Instruments {
		if entry.Root == "" {
			return nil, fmt.Errorf("instrument spec #%d: root is required", i+1)
		}
		tickSize, err := decimal.NewFromString(entry.TickSize)
		if err != nil {
			return nil, fmt.Errorf("instrument spec %s: invalid tick_size %q: %w", entry.Root, entry.TickSize, err)
		}
		tickValue, err := decimal.NewFromString(entry.TickValue)
		if err != nil {
			return nil, fmt.Errorf("instrument spec %s: invalid tick_value %q: %w", entry.Root, entry.TickValue, err)
		}
		if !tickSize.IsPositive() || !tickValue.IsPositive() {
			return nil, fmt.Errorf("instrument spec %s: tick_size and tick_value must be positive", entry.Root)
		}
		specs = append(specs, Spec{Root: entry.Root, TickSize: tickSize, TickValue: tickValue})
	}
	return specs, nil
}

// LoadTable builds the built-in table with the overrides from path applied.
// An empty path yields the built-in table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	overrides, err := LoadOverrides(path)
	if err != nil {
		return nil, err
	}
	return DefaultTable().With(overrides), nil
}
