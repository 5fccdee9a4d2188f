package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputManager handles output file organization and path management for one
// run: CSV exports in one directory, chart images in another.
type OutputManager struct {
	ExportDir string
	PlotsDir  string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(exportDir, plotsDir string) *OutputManager {
	return &OutputManager{
		ExportDir: exportDir,
		PlotsDir:  plotsDir,
	}
}

// EnsureDirs creates both output directories if they do not exist.
func (om *OutputManager) EnsureDirs() error {
	for _, dir := range []string{om.ExportDir, om.PlotsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExportPath returns the full path for a CSV export file. Filenames are
// fixed per table so downstream tooling can rely on them.
func (om *OutputManager) ExportPath(fileName string) string {
	return filepath.Join(om.ExportDir, filepath.Base(fileName))
}

// PlotPath returns the full path for a chart image.
func (om *OutputManager) PlotPath(fileName string) string {
	return filepath.Join(om.PlotsDir, filepath.Base(fileName))
}

// FileSize returns the size of a file in bytes.
func (om *OutputManager) FileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
