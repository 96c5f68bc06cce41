// Package pipeline implements the purchase-order conversion pipeline:
// ingest a Stocky CSV export, validate it, collapse duplicate SKUs, normalize
// money fields, flag price variance and emit the vendor cart plus audit
// artifacts (summary, lineage, quarantine, run log). One call to Run is one
// PO; everything is a single pass over an in-memory table and every fatal
// error aborts before any artifact is written.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"stocky2coast/internal/config"
	"stocky2coast/internal/model"
	"stocky2coast/internal/store"
	"stocky2coast/pkg/utils"
)

const defaultValidationWorkers = 3

// RunLogName is the per-run log file written into the run directory.
const RunLogName = "stocky2coast.log"

// ------------------- Pipeline Runner -------------------

// Run executes the full pipeline for one PO and returns the run summary.
// Status transitions and logs are recorded in the tracking store when one is
// open; CLI runs work without it.
func Run(ctx context.Context, runID string, spec model.RunSpec) (summary *model.RunSummary, err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting run %s for PO %s\n", runID, spec.PO)
	store.UpdateRunStatus(runID, "running")

	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
		}
	}()

	om := utils.NewOutputManager(spec.Outdir)
	runDir, err := om.CreateRunDir(spec.PO)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newRunLogger(runDir)
	if err != nil {
		return nil, err
	}
	defer closeLog()
	logger.Printf("Starting run for PO %s (mode=%s)", spec.PO, spec.Mode())

	// --- CONFIG STAGE ---
	cfg, err := config.Load(spec.Vendor, spec.VendorConfig)
	if err != nil {
		logger.Printf("Config rejected: %v", err)
		return nil, err
	}

	// CLI pattern, when present, replaces the vendor one entirely.
	skuPattern := spec.SkuPattern
	if skuPattern == "" {
		skuPattern = cfg.Input.SkuPattern
	}
	var pattern *regexp.Regexp
	if skuPattern != "" {
		pattern, err = regexp.Compile(skuPattern)
		if err != nil {
			return nil, &model.ConfigError{Reason: fmt.Sprintf("sku pattern: %v", err)}
		}
	}

	// --- INGESTION STAGE ---
	store.UpdateRunStatus(runID, "ingesting")
	store.SaveRunLog(runID, "ingestion", "info", "Starting ingestion stage", map[string]interface{}{
		"input": spec.Input,
	})
	rows, err := ReadTable(spec.Input)
	if err != nil {
		logger.Printf("Ingestion failed: %v", err)
		return nil, err
	}

	// --- VALIDATION STAGE ---
	store.UpdateRunStatus(runID, "validating")
	store.SaveRunLog(runID, "validation", "info", "Starting validation stage", map[string]interface{}{
		"rows":    len(rows),
		"mode":    spec.Mode(),
		"workers": defaultValidationWorkers,
	})
	valid, quarantined, err := ValidateRows(ctx, rows, spec.SoftValidate, defaultValidationWorkers)
	if err != nil {
		logger.Printf("Validation failed: %v", err)
		return nil, err
	}
	if len(quarantined) > 0 {
		logger.Printf("Quarantined %d invalid row(s)", len(quarantined))
		store.SaveRunLog(runID, "validation", "warning", "Rows quarantined", map[string]interface{}{
			"count": len(quarantined),
		})
	}

	// --- AGGREGATION STAGE ---
	store.UpdateRunStatus(runID, "aggregating")
	lines := AggregateBySKU(valid)

	// --- NORMALIZATION STAGE ---
	out, err := NormalizeLines(lines, cfg.Output.DecimalPlaces, pattern)
	if err != nil {
		logger.Printf("Normalization failed: %v", err)
		return nil, err
	}

	// --- VARIANCE STAGE ---
	flags := []model.VarianceFlag{}
	if spec.PriceHistory != "" {
		hist, err := LoadPriceHistory(spec.PriceHistory)
		if err != nil {
			return nil, err
		}
		flags = append(flags, DetectVariance(out, hist)...)
	}

	// --- EXPORT STAGE ---
	store.UpdateRunStatus(runID, "exporting")
	cart, err := RenderCart(out, cfg)
	if err != nil {
		logger.Printf("Cart rendering failed: %v", err)
		return nil, err
	}
	hash := ContentHash(spec.PO, cfg.Name, cart)
	timestamp := time.Now().UTC().Format("20060102-1504")
	cartName := CartFileName(spec.PO, timestamp, hash)

	summary = buildSummary(spec, cfg, len(rows), out, valid, quarantined, flags)
	summary.OutputFile = absPath(filepath.Join(runDir, cartName))
	summary.SkuPattern = skuPattern

	cartPath, err := WriteArtifacts(runDir, cartName, cart, Lineage(lines), *summary, quarantined)
	if err != nil {
		logger.Printf("Artifact write failed: %v", err)
		return nil, err
	}

	store.SaveRunSummary(runID, *summary)
	store.UpdateRunStatus(runID, "completed")
	logger.Printf("Completed PO %s for vendor %s: %s", spec.PO, cfg.Name, filepath.Base(cartPath))
	fmt.Printf("🏁 Run completed for PO %s in %v\n", spec.PO, time.Since(start))
	return summary, nil
}

// buildSummary folds the stage outputs into the run's counter set.
func buildSummary(spec model.RunSpec, cfg *config.VendorConfig, rowsIn int, out []model.OutputLine, valid []model.RawRow, quarantined []model.QuarantinedRow, flags []model.VarianceFlag) *model.RunSummary {
	s := &model.RunSummary{
		PO:              spec.PO,
		Vendor:          cfg.Name,
		Mode:            spec.Mode(),
		InputFile:       absPath(spec.Input),
		RowsIn:          rowsIn,
		RowsValidated:   len(valid) + len(quarantined),
		RowsQuarantined: len(quarantined),
		RowsOut:         len(out),
		VarianceFlags:   flags,
		Status:          "OK",
	}
	for _, line := range out {
		s.TotalQty += line.Qty
		s.TotalExtendedPrice = s.TotalExtendedPrice.Add(line.ExtendedPrice)
	}
	return s
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// newRunLogger opens the per-run log file. The file lives alongside the
// artifacts so an auditor gets the log with the run.
func newRunLogger(runDir string) (*log.Logger, func(), error) {
	f, err := os.OpenFile(filepath.Join(runDir, RunLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run log: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}
