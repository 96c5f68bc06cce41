package pipeline

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocky2coast/internal/model"
)

func aggLine(sku string, qty int, unit, total string) model.AggregatedLine {
	return model.AggregatedLine{
		SKU:       sku,
		Qty:       qty,
		UnitCost:  decimal.RequireFromString(unit),
		TotalCost: decimal.RequireFromString(total),
	}
}

func TestNormalizeLinesRoundsHalfAwayFromZero(t *testing.T) {
	// The rounding rule is pinned: half away from zero, so 5.005 -> 5.01.
	lines := []model.AggregatedLine{aggLine("X", 1, "5.005", "5.005")}

	out, err := NormalizeLines(lines, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "5.01", out[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "5.01", out[0].ExtendedPrice.StringFixed(2))
}

func TestNormalizeLinesRoundingIsIdempotent(t *testing.T) {
	lines := []model.AggregatedLine{aggLine("X", 3, "3.333333333333", "9.999999999999")}

	out, err := NormalizeLines(lines, 2, nil)
	require.NoError(t, err)

	again := []model.AggregatedLine{{
		SKU:       out[0].ItemID,
		Qty:       out[0].Qty,
		UnitCost:  out[0].UnitPrice,
		TotalCost: out[0].ExtendedPrice,
	}}
	out2, err := NormalizeLines(again, 2, nil)
	require.NoError(t, err)

	assert.True(t, out[0].UnitPrice.Equal(out2[0].UnitPrice))
	assert.True(t, out[0].ExtendedPrice.Equal(out2[0].ExtendedPrice))
}

func TestNormalizeLinesDoesNotMutateInput(t *testing.T) {
	lines := []model.AggregatedLine{aggLine("X", 1, "5.005", "5.005")}

	_, err := NormalizeLines(lines, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "5.005", lines[0].UnitCost.String())
}

func TestNormalizeLinesSkuPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9+\-_.]+$`)

	out, err := NormalizeLines([]model.AggregatedLine{aggLine("ABC+123", 1, "1.00", "1.00")}, 2, pattern)
	require.NoError(t, err)
	assert.Equal(t, "ABC+123", out[0].ItemID)

	_, err = NormalizeLines([]model.AggregatedLine{aggLine("BAD SKU!", 1, "1.00", "1.00")}, 2, pattern)
	var skuErr *model.SkuPatternError
	require.ErrorAs(t, err, &skuErr)
	assert.Equal(t, "BAD SKU!", skuErr.SKU)
}

func TestNormalizeLinesDecimalPlaces(t *testing.T) {
	lines := []model.AggregatedLine{aggLine("Z9", 1, "16.80", "16.80")}

	out, err := NormalizeLines(lines, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "16.800", out[0].UnitPrice.StringFixed(3))
}
