// Package store records run tracking state in SQLite. The API server opens a
// database at startup; CLI runs leave it closed and every call becomes a
// no-op, so the pipeline can track unconditionally.
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stocky2coast/internal/model"
)

var db *sql.DB

// InitDB opens the tracking database and creates the schema.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		po TEXT,
		vendor TEXT,
		mode TEXT,
		spec TEXT,
		status TEXT,
		summary TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	logTable := `
	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		level TEXT,
		message TEXT,
		details TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable, logTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the tracking database.
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveRun stores a newly submitted run.
func SaveRun(runID string, spec model.RunSpec) error {
	if db == nil {
		return nil
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, po, vendor, mode, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, spec.PO, spec.Vendor, spec.Mode(), specJSON, "pending", now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func UpdateRunStatus(runID, status string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunSummary attaches the finished summary to a run.
func SaveRunSummary(runID string, summary model.RunSummary) error {
	if db == nil {
		return nil
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`UPDATE runs SET summary = ?, updated_at = ? WHERE id = ?`, summaryJSON, now, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, runErr error) error {
	if db == nil || runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), now)
	return err
}

// SaveRunLog records a structured stage log line for a run.
func SaveRunLog(runID, stage, level, message string, details map[string]interface{}) error {
	if db == nil {
		return nil
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO run_logs (run_id, stage, level, message, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, level, message, detailsJSON, now)
	return err
}

// ListRuns returns all runs with basic info, newest first.
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, po, vendor, mode, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, po, vendor, mode, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &po, &vendor, &mode, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":        id,
			"po":        po,
			"vendor":    vendor,
			"mode":      mode,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return runs, rows.Err()
}

// GetRun fetches a run's full spec, status and (if finished) summary.
func GetRun(runID string) (map[string]interface{}, error) {
	var specJSON, status string
	var summaryJSON sql.NullString
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, summary, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &status, &summaryJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.RunSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	run := map[string]interface{}{
		"id":        runID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}
	if summaryJSON.Valid && summaryJSON.String != "" {
		var summary model.RunSummary
		if err := json.Unmarshal([]byte(summaryJSON.String), &summary); err != nil {
			return nil, err
		}
		run["summary"] = summary
	}
	return run, nil
}

// GetRunErrors returns the recorded errors for a run, oldest first.
func GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]interface{}{
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}
