package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket/internal/model"
	"jobmarket/pkg/utils"
)

func exportFixture(t *testing.T, dir string) []ExportResult {
	t.Helper()
	records := fixtureRecords()
	report, err := Aggregate(records, AggregateOptions{TopCategories: 10, TopLocations: 5, TopCompanies: 5, MinGroupSize: 1})
	require.NoError(t, err)

	exporter := &Exporter{
		Out:       utils.NewOutputManager(dir, filepath.Join(dir, "plots")),
		ExportCap: 20,
	}
	results, err := exporter.ExportReport(report, StratifiedSample(records, 3))
	require.NoError(t, err)
	return results
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

func TestExportWritesFixedFileSet(t *testing.T) {
	dir := t.TempDir()
	results := exportFixture(t, dir)

	// No forecast with a 3-month series, so seven files.
	var names []string
	for _, r := range results {
		names = append(names, r.File)
	}
	assert.Equal(t, []string{
		FileSummaryMetrics, FileTopCategories, FileTopLocations,
		FileTopCompanies, FileSalaryAnalysis, FileMonthlyTrends, FileSampleData,
	}, names)

	for _, r := range results {
		info, err := os.Stat(r.Path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), r.Bytes)
	}
}

func TestExportSummaryMetrics(t *testing.T) {
	dir := t.TempDir()
	exportFixture(t, dir)

	lines := readLines(t, filepath.Join(dir, FileSummaryMetrics))
	assert.Equal(t, "Metric,Value", lines[0])
	assert.Contains(t, lines, "Total Jobs,5")
	assert.Contains(t, lines, "Unique Companies,3")
	assert.Contains(t, lines, "Avg Salary,112500.00")
	assert.Contains(t, lines, "Median Salary,110000.00")
}

func TestExportColumnOrderAndPrecision(t *testing.T) {
	dir := t.TempDir()
	exportFixture(t, dir)

	categories := readLines(t, filepath.Join(dir, FileTopCategories))
	assert.Equal(t, "Job_Category,Count,Share_Pct", categories[0])
	assert.Equal(t, "Data Analyst,2,40.00", categories[1])

	salaries := readLines(t, filepath.Join(dir, FileSalaryAnalysis))
	assert.Equal(t, "Job_Category,Job_Count,Avg_Salary,Median_Salary,P75_Salary,Salary_Std", salaries[0])
	// Two decimal places on every currency column.
	for _, line := range salaries[1:] {
		fields := strings.Split(line, ",")
		require.Len(t, fields, 6)
		for _, cell := range fields[2:] {
			assert.Regexp(t, `^\d+\.\d{2}$`, cell)
		}
	}

	monthly := readLines(t, filepath.Join(dir, FileMonthlyTrends))
	assert.Equal(t, []string{"Month,Job_Count", "2023-01,2", "2023-02,2", "2023-03,1"}, monthly)
}

func TestExportDeterministic(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	results := exportFixture(t, first)
	exportFixture(t, second)

	for _, r := range results {
		a, err := os.ReadFile(filepath.Join(first, r.File))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, r.File))
		require.NoError(t, err)
		assert.Equal(t, a, b, "file %s differs between identical runs", r.File)
	}

	// Re-export into the same directory overwrites rather than appends.
	before := readLines(t, filepath.Join(first, FileTopCategories))
	exportFixture(t, first)
	after := readLines(t, filepath.Join(first, FileTopCategories))
	assert.Equal(t, before, after)
}

func TestExportNoSalaryData(t *testing.T) {
	report, err := Aggregate([]model.JobRecord{{Category: "A", Company: "x", Location: "y"}},
		AggregateOptions{TopCategories: 10, TopLocations: 5, TopCompanies: 5})
	require.NoError(t, err)

	metrics := BuildSummaryMetrics(report)
	byName := map[string]string{}
	for _, m := range metrics {
		byName[m.Metric] = m.Value
	}
	assert.Equal(t, "no data", byName["Avg Salary"])
	assert.Equal(t, "no data", byName["Median Salary"])
	assert.Equal(t, "1", byName["Total Jobs"])
}

func TestExportUnwritableDir(t *testing.T) {
	exporter := &Exporter{
		Out: utils.NewOutputManager(filepath.Join(t.TempDir(), "missing", "\x00bad"), ""),
	}
	report, err := Aggregate(fixtureRecords(), AggregateOptions{TopCategories: 10, TopLocations: 5, TopCompanies: 5})
	require.NoError(t, err)

	_, err = exporter.ExportReport(report, nil)
	assert.ErrorIs(t, err, ErrExportWrite)
}
