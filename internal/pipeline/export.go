package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"jobmarket/internal/model"
	"jobmarket/pkg/utils"
)

// Export filenames are fixed so the downstream dashboard can rely on them.
const (
	FileSummaryMetrics = "summary_metrics.csv"
	FileTopCategories  = "top_job_categories.csv"
	FileTopLocations   = "top_locations.csv"
	FileTopCompanies   = "top_companies.csv"
	FileSalaryAnalysis = "salary_analysis.csv"
	FileMonthlyTrends  = "monthly_trends.csv"
	FileMarketForecast = "market_forecast.csv"
	FileSampleData     = "job_market_sample_data.csv"
)

// ExportResult describes one written export file.
type ExportResult struct {
	File  string
	Path  string
	Rows  int
	Bytes int64
}

// Exporter serializes summary tables and the sampled raw dataset to CSV
// files with deterministic column order and fixed numeric precision. Files
// are created or overwritten, never appended to.
type Exporter struct {
	Out *utils.OutputManager
	// ExportCap bounds the location and company tables on disk.
	ExportCap int
}

// ExportReport writes every summary table plus the sampled records. Any
// write failure aborts the export.
func (e *Exporter) ExportReport(report *model.Report, sample []model.JobRecord) ([]ExportResult, error) {
	if err := e.Out.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportWrite, err)
	}

	var results []ExportResult
	write := func(file string, header []string, rows [][]string) error {
		result, err := e.writeCSV(file, header, rows)
		if err != nil {
			return err
		}
		results = append(results, result)
		log.Info("export written", "file", result.File, "rows", result.Rows, "bytes", result.Bytes)
		return nil
	}

	metrics := BuildSummaryMetrics(report)
	if err := write(FileSummaryMetrics, []string{"Metric", "Value"}, summaryRows(metrics)); err != nil {
		return results, err
	}
	if err := write(FileTopCategories, []string{"Job_Category", "Count", "Share_Pct"},
		countRows(report.TopCategories, 0)); err != nil {
		return results, err
	}
	if err := write(FileTopLocations, []string{"Location", "Count", "Share_Pct"},
		countRows(report.TopLocations, e.ExportCap)); err != nil {
		return results, err
	}
	if err := write(FileTopCompanies, []string{"Company", "Count", "Share_Pct"},
		countRows(report.TopCompanies, e.ExportCap)); err != nil {
		return results, err
	}
	if err := write(FileSalaryAnalysis,
		[]string{"Job_Category", "Job_Count", "Avg_Salary", "Median_Salary", "P75_Salary", "Salary_Std"},
		salaryRows(report.SalaryByGroup)); err != nil {
		return results, err
	}
	if err := write(FileMonthlyTrends, []string{"Month", "Job_Count"},
		monthlyRows(report.MonthlyCounts)); err != nil {
		return results, err
	}
	if report.MarketForecast != nil {
		if err := write(FileMarketForecast, []string{"Month", "Forecasted_Jobs"},
			forecastRows(report.MarketForecast)); err != nil {
			return results, err
		}
	}
	if err := write(FileSampleData, sampleHeader, sampleRows(sample)); err != nil {
		return results, err
	}

	return results, nil
}

// BuildSummaryMetrics renders the overview table. Salary metrics read
// "no data" when no record carried a salary; a zero here would be a lie.
func BuildSummaryMetrics(report *model.Report) []model.SummaryMetric {
	avg, median := "no data", "no data"
	if report.Salaries != nil {
		avg = money(report.Salaries.Mean)
		median = money(report.Salaries.Median)
	}
	return []model.SummaryMetric{
		{Metric: "Total Jobs", Value: strconv.Itoa(report.TotalJobs)},
		{Metric: "Unique Companies", Value: strconv.Itoa(report.UniqueCompanies)},
		{Metric: "Unique Locations", Value: strconv.Itoa(report.UniqueLocations)},
		{Metric: "Unique Job Titles", Value: strconv.Itoa(report.UniqueTitles)},
		{Metric: "Avg Salary", Value: avg},
		{Metric: "Median Salary", Value: median},
	}
}

func (e *Exporter) writeCSV(fileName string, header []string, rows [][]string) (ExportResult, error) {
	path := e.Out.ExportPath(fileName)
	file, err := os.Create(path)
	if err != nil {
		return ExportResult{}, fmt.Errorf("%w: create %s: %v", ErrExportWrite, path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return ExportResult{}, fmt.Errorf("%w: header of %s: %v", ErrExportWrite, fileName, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			file.Close()
			return ExportResult{}, fmt.Errorf("%w: row of %s: %v", ErrExportWrite, fileName, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return ExportResult{}, fmt.Errorf("%w: flush %s: %v", ErrExportWrite, fileName, err)
	}
	if err := file.Close(); err != nil {
		return ExportResult{}, fmt.Errorf("%w: close %s: %v", ErrExportWrite, fileName, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return ExportResult{}, fmt.Errorf("%w: stat %s: %v", ErrExportWrite, path, err)
	}
	return ExportResult{File: fileName, Path: path, Rows: len(rows), Bytes: info.Size()}, nil
}

func summaryRows(metrics []model.SummaryMetric) [][]string {
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{m.Metric, m.Value})
	}
	return rows
}

func countRows(counts []model.CategoryCount, limit int) [][]string {
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count), fixed2(c.Share * 100)})
	}
	return rows
}

func salaryRows(groups []model.CategorySalary) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Category,
			strconv.Itoa(g.Count),
			money(g.Mean),
			money(g.Median),
			money(g.P75),
			money(g.StdDev),
		})
	}
	return rows
}

func monthlyRows(monthly []model.MonthlyCount) [][]string {
	rows := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		rows = append(rows, []string{m.Month.Format("2006-01"), strconv.Itoa(m.Count)})
	}
	return rows
}

func forecastRows(forecast *model.Forecast) [][]string {
	rows := make([][]string, 0, len(forecast.Points))
	for _, p := range forecast.Points {
		rows = append(rows, []string{p.Month.Format("2006-01"), fixed2(p.Projected)})
	}
	return rows
}

var sampleHeader = []string{
	"job_title_short", "job_title", "company_name", "job_location",
	"salary_year_avg", "job_posted_date", "job_schedule_type", "job_work_from_home",
}

func sampleRows(records []model.JobRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		salary := ""
		if v, ok := rec.SalaryValue(); ok {
			salary = money(v)
		}
		date := ""
		if !rec.PostedAt.IsZero() {
			date = rec.PostedAt.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			rec.Category, rec.Title, rec.Company, rec.Location,
			salary, date, rec.Schedule, strconv.FormatBool(rec.WorkFromHome),
		})
	}
	return rows
}

// money renders a currency value with fixed 2-decimal precision.
func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func fixed2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
