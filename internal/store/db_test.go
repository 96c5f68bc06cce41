package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocky2coast/internal/model"
)

func TestTrackingIsNoOpWithoutDB(t *testing.T) {
	require.NoError(t, Close())

	assert.NoError(t, SaveRun("x", model.RunSpec{PO: "1"}))
	assert.NoError(t, UpdateRunStatus("x", "running"))
	assert.NoError(t, SaveRunError("x", errors.New("boom")))
	assert.NoError(t, SaveRunLog("x", "validation", "info", "msg", nil))
	assert.NoError(t, SaveRunSummary("x", model.RunSummary{}))
}

func TestRunLifecycle(t *testing.T) {
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "tracking.db")))
	t.Cleanup(func() { Close() })

	spec := model.RunSpec{PO: "1848", Input: "po_1848.csv", Vendor: "coast", SoftValidate: true}
	require.NoError(t, SaveRun("run-1", spec))

	runs, err := ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0]["id"])
	assert.Equal(t, "1848", runs[0]["po"])
	assert.Equal(t, "soft-validate", runs[0]["mode"])
	assert.Equal(t, "pending", runs[0]["status"])

	require.NoError(t, UpdateRunStatus("run-1", "validating"))
	require.NoError(t, SaveRunLog("run-1", "validation", "info", "Starting validation stage", map[string]interface{}{"rows": 3}))

	summary := model.RunSummary{
		PO:                 "1848",
		Vendor:             "coast",
		Mode:               "soft-validate",
		RowsIn:             3,
		RowsOut:            2,
		TotalQty:           18,
		TotalExtendedPrice: decimal.RequireFromString("33.00"),
		Status:             "OK",
	}
	require.NoError(t, SaveRunSummary("run-1", summary))
	require.NoError(t, UpdateRunStatus("run-1", "completed"))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", run["status"])
	assert.Equal(t, spec, run["spec"])
	got, ok := run["summary"].(model.RunSummary)
	require.True(t, ok)
	assert.Equal(t, "1848", got.PO)
	assert.Equal(t, 18, got.TotalQty)

	_, err = GetRun("no-such-run")
	assert.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "tracking.db")))
	t.Cleanup(func() { Close() })

	require.NoError(t, SaveRun("run-2", model.RunSpec{PO: "2000"}))
	require.NoError(t, SaveRunError("run-2", errors.New("missing required column(s): SKU")))
	require.NoError(t, SaveRunError("run-2", nil)) // nil errors are skipped

	errs, err := GetRunErrors("run-2")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "missing required column(s): SKU", errs[0]["message"])
}
