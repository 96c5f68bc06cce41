package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocky2coast/internal/model"
)

func TestAggregateBySKUCollapsesDuplicates(t *testing.T) {
	rows := []model.RawRow{
		row(0, "X", 2, "5.00", "10.00"),
		row(1, "X", 3, "5.00", "15.00"),
	}

	lines := AggregateBySKU(rows)
	require.Len(t, lines, 1)
	assert.Equal(t, "X", lines[0].SKU)
	assert.Equal(t, 5, lines[0].Qty)
	assert.True(t, lines[0].TotalCost.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, lines[0].UnitCost.Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, []int{0, 1}, lines[0].RowIDs)
}

func TestAggregateBySKUKeepsFirstOccurrenceOrder(t *testing.T) {
	rows := []model.RawRow{
		row(0, "B", 1, "1.00", "1.00"),
		row(1, "A", 1, "2.00", "2.00"),
		row(2, "B", 1, "1.00", "1.00"),
		row(3, "C", 1, "3.00", "3.00"),
	}

	lines := AggregateBySKU(rows)
	require.Len(t, lines, 3)
	assert.Equal(t, "B", lines[0].SKU)
	assert.Equal(t, "A", lines[1].SKU)
	assert.Equal(t, "C", lines[2].SKU)
}

func TestAggregateBySKUIsCaseSensitive(t *testing.T) {
	rows := []model.RawRow{
		row(0, "abc", 1, "1.00", "1.00"),
		row(1, "ABC", 1, "1.00", "1.00"),
	}

	lines := AggregateBySKU(rows)
	assert.Len(t, lines, 2)
}

func TestAggregateBySKUConservation(t *testing.T) {
	rows := []model.RawRow{
		row(0, "X", 2, "5.00", "10.00"),
		row(1, "Y", 7, "1.10", "7.70"),
		row(2, "X", 3, "5.01", "15.03"),
		row(3, "Z", 1, "0.99", "0.99"),
		row(4, "Y", 4, "1.10", "4.40"),
	}

	wantQty := 0
	wantTotal := decimal.Zero
	for _, r := range rows {
		wantQty += r.Qty
		wantTotal = wantTotal.Add(r.TotalCost)
	}

	gotQty := 0
	gotTotal := decimal.Zero
	for _, line := range AggregateBySKU(rows) {
		gotQty += line.Qty
		gotTotal = gotTotal.Add(line.TotalCost)
	}

	assert.Equal(t, wantQty, gotQty)
	assert.True(t, wantTotal.Equal(gotTotal), "want %s, got %s", wantTotal, gotTotal)
}

func TestAggregateBySKUZeroQtyFallsBackToUnitCost(t *testing.T) {
	// Quantities are non-negative, so a zero-qty group means every
	// contribution was zero; the row's own unit cost is kept, no division.
	rows := []model.RawRow{
		row(0, "Z", 0, "4.20", "0.00"),
	}

	lines := AggregateBySKU(rows)
	require.Len(t, lines, 1)
	assert.Equal(t, 0, lines[0].Qty)
	assert.True(t, lines[0].UnitCost.Equal(decimal.RequireFromString("4.20")))
}

func TestLineageCoversAllValidRows(t *testing.T) {
	rows := []model.RawRow{
		row(0, "X", 2, "5.00", "10.00"),
		row(1, "Y", 1, "1.00", "1.00"),
		row(2, "X", 3, "5.00", "15.00"),
	}

	entries := Lineage(AggregateBySKU(rows))
	require.Len(t, entries, 2)
	assert.Equal(t, model.LineageEntry{SKU: "X", RowIDs: []int{0, 2}}, entries[0])
	assert.Equal(t, model.LineageEntry{SKU: "Y", RowIDs: []int{1}}, entries[1])

	covered := make(map[int]bool)
	for _, e := range entries {
		for _, id := range e.RowIDs {
			assert.False(t, covered[id], "row %d in two lineage entries", id)
			covered[id] = true
		}
	}
	assert.Len(t, covered, len(rows))
}
