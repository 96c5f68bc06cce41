package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"stocky2coast/internal/model"
	"stocky2coast/internal/pipeline"
	"stocky2coast/internal/store"
)

// runTimeout bounds an API-submitted conversion run.
const runTimeout = 5 * time.Minute

// CreateRun submits a new conversion run
// @Summary Submit a conversion run
// @Description Start a purchase-order conversion run with the provided spec
// @Tags runs
// @Accept json
// @Produce json
// @Param run body model.RunSpec true "Run spec"
// @Success 200 {object} map[string]interface{} "Run submitted"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func CreateRun(w http.ResponseWriter, r *http.Request) {
	var spec model.RunSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if spec.PO == "" || spec.Input == "" {
		http.Error(w, "po and input are required", http.StatusBadRequest)
		return
	}
	if spec.Outdir == "" {
		spec.Outdir = "runs"
	}
	if spec.Vendor != "" && spec.VendorConfig != "" {
		http.Error(w, "vendor and vendor_config are mutually exclusive", http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	go func() {
		defer cancel()
		if _, err := pipeline.Run(ctx, runID, spec); err != nil {
			store.SaveRunError(runID, err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Run submitted successfully!",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListRuns retrieves all runs
// @Summary List runs
// @Description Get all conversion runs with their current status
// @Tags runs
// @Produce json
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetRun retrieves a specific run
// @Summary Get run
// @Description Retrieve a run's spec, status and summary
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetRunSummary retrieves a finished run's summary
// @Summary Get run summary
// @Description Retrieve the RunSummary of a completed run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunSummary "Run summary"
// @Failure 404 {object} map[string]interface{} "Run or summary not found"
// @Router /runs/{id}/summary [get]
func GetRunSummary(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/summary")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	summary, ok := run["summary"]
	if !ok {
		http.Error(w, "Summary not available yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// GetRunErrors retrieves errors for a run
// @Summary Get run errors
// @Description Retrieve all errors recorded during a run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/errors")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to fetch run errors", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(errs)
}

// runIDFromPath extracts the run ID between the runs prefix and an optional
// trailing suffix like "/summary".
func runIDFromPath(path, suffix string) (string, bool) {
	const prefix = "/api/v1/runs/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(path[len(prefix):], suffix)
	return id, id != "" && !strings.Contains(id, "/")
}
