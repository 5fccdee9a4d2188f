package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket/internal/config"
	"jobmarket/internal/store"
)

func runConfig(t *testing.T, source string) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dataset.Source = source
	cfg.Output.ExportDir = filepath.Join(dir, "exports")
	cfg.Output.PlotsDir = filepath.Join(dir, "plots")
	cfg.Analysis.MinGroupSize = 1
	cfg.Analysis.SampleSize = 100
	require.NoError(t, store.InitDB(filepath.Join(dir, "runs.db")))
	t.Cleanup(func() { store.Close() })
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	// Repeating every data row exercises the cleaning stage.
	csv := sampleCSV + strings.SplitAfterN(sampleCSV, "\n", 2)[1]
	cfg := runConfig(t, writeTempCSV(t, csv))
	require.NoError(t, store.SaveRun("run-e2e", cfg.Dataset.Source))

	report, err := Run(context.Background(), "run-e2e", cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalJobs)

	info, err := store.GetRun("run-e2e")
	require.NoError(t, err)
	assert.Equal(t, "completed", info.Status)
	assert.Equal(t, 3, info.TotalRecords)
	assert.Equal(t, 3, info.DuplicatesDropped)

	for _, file := range []string{
		FileSummaryMetrics, FileTopCategories, FileTopLocations,
		FileTopCompanies, FileSalaryAnalysis, FileMonthlyTrends, FileSampleData,
	} {
		assert.FileExists(t, filepath.Join(cfg.Output.ExportDir, file))
	}
	assert.FileExists(t, filepath.Join(cfg.Output.PlotsDir, PlotCategories))
	assert.FileExists(t, filepath.Join(cfg.Output.PlotsDir, PlotSalaries))
	assert.FileExists(t, filepath.Join(cfg.Output.PlotsDir, PlotTimeline))

	// Two dated months is too short a series for a forecast.
	assert.NoFileExists(t, filepath.Join(cfg.Output.ExportDir, FileMarketForecast))
}

func TestRunFailsOnMissingSource(t *testing.T) {
	cfg := runConfig(t, filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, store.SaveRun("run-missing", cfg.Dataset.Source))

	_, err := Run(context.Background(), "run-missing", cfg)
	require.ErrorIs(t, err, ErrInputUnavailable)

	info, err := store.GetRun("run-missing")
	require.NoError(t, err)
	assert.Equal(t, "failed", info.Status)

	// Nothing was exported.
	_, err = os.Stat(cfg.Output.ExportDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunFailsOnEmptyInput(t *testing.T) {
	headerOnly := "job_title_short,job_title,company_name,job_location,salary_year_avg,job_posted_date\n"
	cfg := runConfig(t, writeTempCSV(t, headerOnly))
	require.NoError(t, store.SaveRun("run-empty", cfg.Dataset.Source))

	_, err := Run(context.Background(), "run-empty", cfg)
	assert.ErrorIs(t, err, ErrEmptyInput)
}
