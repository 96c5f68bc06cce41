// Package config loads and validates vendor configurations. A vendor config
// selects the cart's output shape (column order, delimiter, decimal places,
// quoting) and optional input constraints; built-in vendors live under
// vendor_configs/<name>.yml and explicit paths override them.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"stocky2coast/internal/model"
)

// VendorConfigDir is where built-in vendor configs are resolved from.
const VendorConfigDir = "vendor_configs"

// OutCols is the fixed cart column set. output.columns may reorder these but
// must contain exactly this set.
var OutCols = []string{"Item Id", "Qty Ordered", "Unit Price", "Extended Price"}

// Quoting styles accepted by output.quoting.
const (
	QuoteAll        = "all"
	QuoteMinimal    = "minimal"
	QuoteNonNumeric = "nonnumeric"
	QuoteNone       = "none"
)

// OutputConfig controls cart CSV formatting.
type OutputConfig struct {
	Columns       []string `koanf:"columns"`
	Delimiter     string   `koanf:"delimiter"`
	DecimalPlaces int      `koanf:"decimal_places"`
	Quoting       string   `koanf:"quoting"`
}

// InputConfig holds optional input constraints.
type InputConfig struct {
	SkuPattern string `koanf:"sku_pattern"`
}

// VendorConfig is a validated vendor configuration.
type VendorConfig struct {
	Name   string       `koanf:"name"`
	Output OutputConfig `koanf:"output"`
	Input  InputConfig  `koanf:"input"`
}

// defaults is the built-in vendor config, overridable per key by a vendor
// YAML file merged on top.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"name":                  "default",
		"output.columns":        append([]string(nil), OutCols...),
		"output.delimiter":      ",",
		"output.decimal_places": 2,
		"output.quoting":        QuoteAll,
	}
}

// Load resolves a vendor config: defaults first, then either the explicit
// YAML path or the built-in vendor_configs/<vendor>.yml merged on top.
// Both arguments empty yields the validated defaults.
func Load(vendor, path string) (*VendorConfig, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, &model.ConfigError{Reason: err.Error()}
	}

	switch {
	case path != "":
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, &model.ConfigError{Reason: fmt.Sprintf("read %s: %v", path, err)}
		}
	case vendor != "":
		p := filepath.Join(VendorConfigDir, vendor+".yml")
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return nil, &model.ConfigError{Reason: fmt.Sprintf("read %s: %v", p, err)}
		}
	}

	var cfg VendorConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &model.ConfigError{Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config against the cart contract.
func (c *VendorConfig) Validate() error {
	if c.Name == "" {
		return &model.ConfigError{Reason: "name is required"}
	}
	if len(c.Output.Columns) != len(OutCols) {
		return &model.ConfigError{Reason: fmt.Sprintf("output.columns must contain exactly %v", OutCols)}
	}
	want := make(map[string]bool, len(OutCols))
	for _, col := range OutCols {
		want[col] = true
	}
	for _, col := range c.Output.Columns {
		if !want[col] {
			return &model.ConfigError{Reason: fmt.Sprintf("output.columns must contain exactly %v, got unexpected %q", OutCols, col)}
		}
		delete(want, col)
	}
	if c.Output.Delimiter == "" {
		return &model.ConfigError{Reason: "output.delimiter is required"}
	}
	if c.Output.DecimalPlaces < 0 || c.Output.DecimalPlaces > 6 {
		return &model.ConfigError{Reason: fmt.Sprintf("output.decimal_places must be in [0,6], got %d", c.Output.DecimalPlaces)}
	}
	switch c.Output.Quoting {
	case QuoteAll, QuoteMinimal, QuoteNonNumeric, QuoteNone:
	default:
		return &model.ConfigError{Reason: fmt.Sprintf("output.quoting must be one of all, minimal, nonnumeric, none; got %q", c.Output.Quoting)}
	}
	if c.Input.SkuPattern != "" {
		if _, err := regexp.Compile(c.Input.SkuPattern); err != nil {
			return &model.ConfigError{Reason: fmt.Sprintf("input.sku_pattern: %v", err)}
		}
	}
	return nil
}
