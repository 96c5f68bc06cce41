package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SchemaError reports required logical columns that could not be resolved in
// the input header, even through aliases. Always fatal for the whole run.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// FieldTypeError reports a cell that could not be coerced to its declared
// type (or violated a non-negativity bound). Always fatal.
type FieldTypeError struct {
	Column string
	RowID  int
	Value  string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("row %d: column %q: cannot coerce value %q", e.RowID, e.Column, e.Value)
}

// BusinessRuleError reports a cross-field totals mismatch on a row. Fatal in
// strict mode; routed to quarantine in soft-validate mode.
type BusinessRuleError struct {
	RowID    int
	Computed decimal.Decimal
	Expected decimal.Decimal
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("row %d: total mismatch: qty*cost=%s but total=%s (tolerance 0.01)",
		e.RowID, e.Computed, e.Expected)
}

// SkuPatternError reports a SKU that failed the active pattern. Fatal.
type SkuPatternError struct {
	SKU     string
	Pattern string
}

func (e *SkuPatternError) Error() string {
	return fmt.Sprintf("SKU %q does not match pattern %q", e.SKU, e.Pattern)
}

// ConfigError reports a malformed vendor configuration. Fatal, and checked
// before any row processing.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid vendor config: " + e.Reason
}

// IsValidationError reports whether err belongs to the validation taxonomy.
// Validation failures exit with code 1; anything else exits with code 2.
func IsValidationError(err error) bool {
	var (
		schemaErr *SchemaError
		typeErr   *FieldTypeError
		ruleErr   *BusinessRuleError
		skuErr    *SkuPatternError
		configErr *ConfigError
	)
	return errors.As(err, &schemaErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &ruleErr) ||
		errors.As(err, &skuErr) ||
		errors.As(err, &configErr)
}
