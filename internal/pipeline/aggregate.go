package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"stocky2coast/internal/model"
)

// ------------------- Aggregation -------------------

// AggregateBySKU collapses duplicate SKUs among valid rows. SKU match is
// exact and case-sensitive; output order is first occurrence of each SKU.
// Quantities and totals are summed, so the conservation law holds by
// construction; unit cost is derived as total/qty. A group whose quantities
// sum to zero keeps the contributing row's own unit cost (all its quantities
// are zero, so there is nothing to average over).
func AggregateBySKU(rows []model.RawRow) []model.AggregatedLine {
	index := make(map[string]int, len(rows))
	var lines []model.AggregatedLine

	for _, row := range rows {
		i, seen := index[row.SKU]
		if !seen {
			i = len(lines)
			index[row.SKU] = i
			lines = append(lines, model.AggregatedLine{SKU: row.SKU, UnitCost: row.UnitCost})
		}
		lines[i].Qty += row.Qty
		lines[i].TotalCost = lines[i].TotalCost.Add(row.TotalCost)
		lines[i].RowIDs = append(lines[i].RowIDs, row.RowID)
	}

	for i := range lines {
		if lines[i].Qty > 0 {
			lines[i].UnitCost = lines[i].TotalCost.Div(decimal.NewFromInt(int64(lines[i].Qty)))
		}
	}

	fmt.Printf("📊 Aggregation Summary: %d groups created from %d rows\n", len(lines), len(rows))
	return lines
}

// Lineage builds the SKU -> contributing row_ids mapping from aggregated
// lines. Row ids are already in original input order.
func Lineage(lines []model.AggregatedLine) []model.LineageEntry {
	entries := make([]model.LineageEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, model.LineageEntry{SKU: line.SKU, RowIDs: line.RowIDs})
	}
	return entries
}
