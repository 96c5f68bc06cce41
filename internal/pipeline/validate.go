package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"stocky2coast/internal/model"
)

// ------------------- Row Rule Validation -------------------

// totalTolerance absorbs floating-point and rounding noise in exported
// totals. Fixed by design, not configurable.
var totalTolerance = decimal.RequireFromString("0.01")

// CheckRowRule evaluates the cross-field business rule for one row:
// |qty*cost - total| <= 0.01.
func CheckRowRule(row model.RawRow) *model.BusinessRuleError {
	computed := row.UnitCost.Mul(decimal.NewFromInt(int64(row.Qty)))
	if computed.Sub(row.TotalCost).Abs().Cmp(totalTolerance) <= 0 {
		return nil
	}
	return &model.BusinessRuleError{RowID: row.RowID, Computed: computed, Expected: row.TotalCost}
}

// ValidateRows partitions rows into valid and quarantined sets. In strict
// mode the first (lowest row_id) violation aborts the run. Workers may race
// over the rows; both partitions are re-sequenced by row_id before returning
// so downstream output is deterministic regardless of scheduling.
func ValidateRows(ctx context.Context, rows []model.RawRow, soft bool, workerCount int) ([]model.RawRow, []model.QuarantinedRow, error) {
	if workerCount <= 0 {
		workerCount = 3 // default
	}

	in := make(chan model.RawRow, len(rows))
	for _, row := range rows {
		in <- row
	}
	close(in)

	var (
		mu          sync.Mutex
		valid       []model.RawRow
		quarantined []model.QuarantinedRow
	)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(workerID int) {
			defer wg.Done()
			workerValid, workerBad := 0, 0

			for row := range in {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if ruleErr := CheckRowRule(row); ruleErr != nil {
					workerBad++
					mu.Lock()
					quarantined = append(quarantined, model.QuarantinedRow{Row: row, Reason: ruleErr.Error()})
					mu.Unlock()
					continue
				}
				workerValid++
				mu.Lock()
				valid = append(valid, row)
				mu.Unlock()
			}

			fmt.Printf("🔍 Validation Worker %d completed: %d valid, %d quarantined\n", workerID, workerValid, workerBad)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].RowID < valid[j].RowID })
	sort.Slice(quarantined, func(i, j int) bool { return quarantined[i].Row.RowID < quarantined[j].Row.RowID })

	if !soft && len(quarantined) > 0 {
		return nil, nil, CheckRowRule(quarantined[0].Row)
	}

	fmt.Printf("🔍 Validation Summary: %d valid rows, %d quarantined\n", len(valid), len(quarantined))
	return valid, quarantined, nil
}
