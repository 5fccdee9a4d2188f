package pipeline

import "errors"

// Every error kind below is fatal to the run: the pipeline reports it and
// aborts, never substituting a zero or NaN result.
var (
	// ErrInputUnavailable means the dataset source could not be loaded.
	ErrInputUnavailable = errors.New("input unavailable")

	// ErrEmptyInput means the source loaded but held zero records.
	ErrEmptyInput = errors.New("empty input")

	// ErrMissingField means the source lacks a required column.
	ErrMissingField = errors.New("missing required field")

	// ErrNoSalaryData means no record carried a salary, so salary
	// statistics are undefined for this input.
	ErrNoSalaryData = errors.New("no salary data")

	// ErrExportWrite means an output file could not be written.
	ErrExportWrite = errors.New("export write failed")
)
