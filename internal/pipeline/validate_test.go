package pipeline

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocky2coast/internal/model"
)

func row(id int, sku string, qty int, cost, total string) model.RawRow {
	return model.RawRow{
		RowID:     id,
		SKU:       sku,
		Qty:       qty,
		UnitCost:  decimal.RequireFromString(cost),
		TotalCost: decimal.RequireFromString(total),
	}
}

func TestCheckRowRuleTolerance(t *testing.T) {
	tests := []struct {
		name string
		row  model.RawRow
		ok   bool
	}{
		{"exact", row(0, "A", 2, "5.00", "10.00"), true},
		{"within tolerance", row(0, "A", 1, "10.00", "10.01"), true},
		{"at tolerance below", row(0, "A", 1, "10.00", "9.99"), true},
		{"above tolerance", row(0, "A", 1, "10.00", "10.02"), false},
		{"way off", row(0, "A", 3, "5.00", "20.00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRowRule(tt.row)
			if tt.ok {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
			}
		})
	}
}

func TestValidateRowsStrictAborts(t *testing.T) {
	rows := []model.RawRow{
		row(0, "B2", 2, "5.00", "10.00"),
		row(1, "A1", 1, "10.00", "10.02"), // 0.02 off
	}

	_, _, err := ValidateRows(context.Background(), rows, false, 3)
	var ruleErr *model.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, 1, ruleErr.RowID)
	assert.Equal(t, "10", ruleErr.Computed.String())
	assert.Equal(t, "10.02", ruleErr.Expected.String())
}

func TestValidateRowsStrictReportsLowestRowID(t *testing.T) {
	rows := []model.RawRow{
		row(0, "A", 1, "10.00", "11.00"),
		row(1, "B", 1, "10.00", "12.00"),
	}

	_, _, err := ValidateRows(context.Background(), rows, false, 4)
	var ruleErr *model.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, 0, ruleErr.RowID)
}

func TestValidateRowsSoftQuarantines(t *testing.T) {
	rows := []model.RawRow{
		row(0, "A1", 1, "10.00", "10.02"),
		row(1, "B2", 2, "5.00", "10.00"),
		row(2, "C3", 1, "3.00", "3.00"),
	}

	valid, quarantined, err := ValidateRows(context.Background(), rows, true, 3)
	require.NoError(t, err)
	require.Len(t, valid, 2)
	require.Len(t, quarantined, 1)
	assert.Equal(t, "A1", quarantined[0].Row.SKU)
	assert.NotEmpty(t, quarantined[0].Reason)
}

func TestValidateRowsPartitionIsCompleteAndOrdered(t *testing.T) {
	// Every input row_id lands in exactly one partition, in row_id order,
	// regardless of worker scheduling.
	var rows []model.RawRow
	for i := 0; i < 50; i++ {
		if i%7 == 0 {
			rows = append(rows, row(i, "BAD", 1, "10.00", "20.00"))
		} else {
			rows = append(rows, row(i, "OK", 2, "5.00", "10.00"))
		}
	}

	valid, quarantined, err := ValidateRows(context.Background(), rows, true, 8)
	require.NoError(t, err)

	seen := make(map[int]int)
	prev := -1
	for _, r := range valid {
		seen[r.RowID]++
		assert.Greater(t, r.RowID, prev)
		prev = r.RowID
	}
	prev = -1
	for _, q := range quarantined {
		seen[q.Row.RowID]++
		assert.Greater(t, q.Row.RowID, prev)
		prev = q.Row.RowID
	}
	require.Len(t, seen, 50)
	for id, n := range seen {
		assert.Equal(t, 1, n, "row %d appeared %d times", id, n)
	}
}
