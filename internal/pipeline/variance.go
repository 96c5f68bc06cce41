package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"stocky2coast/internal/model"
)

// ------------------- Variance Detection -------------------

// varianceThreshold is the relative unit-cost change above which a SKU is
// flagged against the price history reference.
var varianceThreshold = decimal.RequireFromString("0.20")

// LoadPriceHistory reads a SKU,LastCost reference table. A missing file or a
// file without the expected columns yields an empty reference (the detector
// is optional and never fails the run); unparsable rows are skipped.
func LoadPriceHistory(path string) (map[string]decimal.Decimal, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open price history: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	headers, err := reader.Read()
	if err != nil {
		return nil, nil
	}

	skuIdx, costIdx := -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "sku":
			skuIdx = i
		case "lastcost":
			costIdx = i
		}
	}
	if skuIdx < 0 || costIdx < 0 {
		return nil, nil
	}

	hist := make(map[string]decimal.Decimal)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			continue
		}
		if skuIdx >= len(record) || costIdx >= len(record) {
			continue
		}
		cost, err := decimal.NewFromString(strings.TrimSpace(record[costIdx]))
		if err != nil {
			continue
		}
		hist[strings.TrimSpace(record[skuIdx])] = cost
	}

	fmt.Printf("📈 Price history loaded: %d reference SKUs\n", len(hist))
	return hist, nil
}

// DetectVariance compares normalized unit prices against the reference and
// flags deltas whose magnitude exceeds the threshold. SKUs absent from the
// reference are skipped, as is a reference cost of zero (the relative change
// is undefined). Flags follow cart line order.
func DetectVariance(lines []model.OutputLine, hist map[string]decimal.Decimal) []model.VarianceFlag {
	if len(hist) == 0 {
		return nil
	}

	var flags []model.VarianceFlag
	for _, line := range lines {
		last, ok := hist[line.ItemID]
		if !ok || last.Sign() <= 0 {
			continue
		}
		delta := line.UnitPrice.Sub(last).Div(last)
		if delta.Abs().Cmp(varianceThreshold) > 0 {
			flags = append(flags, model.VarianceFlag{
				SKU:      line.ItemID,
				LastCost: last,
				NewCost:  line.UnitPrice,
				Delta:    delta,
			})
		}
	}

	if len(flags) > 0 {
		fmt.Printf("📈 Variance Summary: %d SKU(s) moved more than %s vs history\n", len(flags), varianceThreshold)
	}
	return flags
}
