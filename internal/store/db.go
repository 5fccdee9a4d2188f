package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the run-history database and creates the schema if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		dataset TEXT,
		status TEXT,
		total_records INTEGER DEFAULT 0,
		duplicates_dropped INTEGER DEFAULT 0,
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
	stageTable := `
	CREATE TABLE IF NOT EXISTS stage_progress (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		status TEXT,
		rows INTEGER DEFAULT 0,
		started_at DATETIME,
		ended_at DATETIME
	);
	`
	exportTable := `
	CREATE TABLE IF NOT EXISTS export_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		file_name TEXT,
		rows INTEGER,
		bytes INTEGER,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable, stageTable, exportTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// SaveRun stores a new analysis run.
func SaveRun(runID, dataset string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO runs (id, dataset, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, dataset, "pending", now, now)
	return err
}

// UpdateRunStatus updates the status of a run.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SetRunCounts records the record totals observed for a run.
func SetRunCounts(runID string, totalRecords, duplicatesDropped int) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET total_records = ?, duplicates_dropped = ?, updated_at = ? WHERE id = ?`,
		totalRecords, duplicatesDropped, now, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// SaveStageProgress records the start or end of a pipeline stage.
func SaveStageProgress(runID, stage, status string, startedAt *time.Time, endedAt *time.Time, rows int) error {
	_, err := db.Exec(`INSERT INTO stage_progress (run_id, stage, status, rows, started_at, ended_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, status, rows, startedAt, endedAt)
	return err
}

// SaveExportFile records one written export file.
func SaveExportFile(runID, fileName string, rows int, bytes int64) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO export_files (run_id, file_name, rows, bytes, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, fileName, rows, bytes, now)
	return err
}

// RunInfo is the stored summary of one run.
type RunInfo struct {
	ID                string
	Dataset           string
	Status            string
	TotalRecords      int
	DuplicatesDropped int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// GetRun fetches one run by ID.
func GetRun(runID string) (RunInfo, error) {
	var info RunInfo
	err := db.QueryRow(`SELECT id, dataset, status, total_records, duplicates_dropped, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&info.ID, &info.Dataset, &info.Status, &info.TotalRecords, &info.DuplicatesDropped, &info.CreatedAt, &info.UpdatedAt)
	return info, err
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]RunInfo, error) {
	rows, err := db.Query(`SELECT id, dataset, status, total_records, duplicates_dropped, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.ID, &info.Dataset, &info.Status, &info.TotalRecords, &info.DuplicatesDropped, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}
