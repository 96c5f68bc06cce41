package pipeline

import (
	"fmt"
	"regexp"

	"stocky2coast/internal/model"
)

// ------------------- Normalization -------------------

// NormalizeLines produces the vendor cart lines: money fields rounded to the
// configured decimal places (half away from zero, so 5.005 at 2 places is
// 5.01) and SKUs checked against the active pattern. Rounding an already
// rounded value is a no-op, so re-running the normalizer cannot drift.
// A pattern violation fails the run; pattern may be nil to skip the check.
func NormalizeLines(lines []model.AggregatedLine, places int, pattern *regexp.Regexp) ([]model.OutputLine, error) {
	out := make([]model.OutputLine, 0, len(lines))
	for _, line := range lines {
		if pattern != nil && !pattern.MatchString(line.SKU) {
			return nil, &model.SkuPatternError{SKU: line.SKU, Pattern: pattern.String()}
		}
		out = append(out, model.OutputLine{
			ItemID:        line.SKU,
			Qty:           line.Qty,
			UnitPrice:     line.UnitCost.Round(int32(places)),
			ExtendedPrice: line.TotalCost.Round(int32(places)),
		})
	}

	fmt.Printf("🔄 Normalization Summary: %d lines rounded to %d decimal place(s)\n", len(out), places)
	return out, nil
}
