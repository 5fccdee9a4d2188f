package pipeline

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"jobmarket/internal/model"
	"jobmarket/pkg/utils"
)

// Chart filenames, stable across runs.
const (
	PlotCategories = "job_categories_analysis.png"
	PlotSalaries   = "salary_distribution_analysis.png"
	PlotTimeline   = "job_market_timeline.png"
)

// RenderCharts draws the category, salary and timeline charts into the plots
// directory. A chart whose source table is empty is skipped with a log line;
// a render or write failure is fatal like any other output failure.
func RenderCharts(report *model.Report, records []model.JobRecord, out *utils.OutputManager) error {
	if err := out.EnsureDirs(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportWrite, err)
	}

	if len(report.TopCategories) > 0 {
		if err := renderCategoryBars(report.TopCategories, out.PlotPath(PlotCategories)); err != nil {
			return err
		}
	} else {
		log.Warn("skipping category chart", "reason", "no categories")
	}

	salaries := knownSalaries(records)
	if len(salaries) > 0 && report.Salaries != nil {
		if err := renderSalaryHistogram(salaries, report.Salaries, out.PlotPath(PlotSalaries)); err != nil {
			return err
		}
	} else {
		log.Warn("skipping salary chart", "reason", "no salary data")
	}

	if len(report.MonthlyCounts) > 1 {
		if err := renderTimeline(report.MonthlyCounts, report.MarketForecast, out.PlotPath(PlotTimeline)); err != nil {
			return err
		}
	} else {
		log.Warn("skipping timeline chart", "reason", "not enough dated records")
	}

	return nil
}

func knownSalaries(records []model.JobRecord) []float64 {
	var out []float64
	for _, rec := range records {
		if v, ok := rec.SalaryValue(); ok {
			out = append(out, v)
		}
	}
	return out
}

func renderCategoryBars(categories []model.CategoryCount, path string) error {
	p := plot.New()
	p.Title.Text = "Top Job Categories in Data Market"
	p.Y.Label.Text = "Number of Job Postings"

	values := make(plotter.Values, len(categories))
	labels := make([]string, len(categories))
	for i, c := range categories {
		values[i] = float64(c.Count)
		labels[i] = c.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("%w: category bars: %v", ErrExportWrite, err)
	}
	bars.Color = color.RGBA{R: 0x2e, G: 0x86, B: 0xab, A: 0xff}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -0.9

	return savePlot(p, path)
}

func renderSalaryHistogram(salaries []float64, stats *model.SalaryStats, path string) error {
	p := plot.New()
	p.Title.Text = "Salary Distribution Analysis"
	p.X.Label.Text = "Annual Salary (USD)"
	p.Y.Label.Text = "Number of Job Postings"

	hist, err := plotter.NewHist(plotter.Values(salaries), 50)
	if err != nil {
		return fmt.Errorf("%w: salary histogram: %v", ErrExportWrite, err)
	}
	hist.FillColor = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}
	p.Add(hist)

	peak := 0.0
	for _, bin := range hist.Bins {
		if bin.Weight > peak {
			peak = bin.Weight
		}
	}

	mean, err := verticalRule(stats.Mean, peak, color.RGBA{R: 0xcc, A: 0xff})
	if err != nil {
		return fmt.Errorf("%w: mean rule: %v", ErrExportWrite, err)
	}
	median, err := verticalRule(stats.Median, peak, color.RGBA{G: 0x99, A: 0xff})
	if err != nil {
		return fmt.Errorf("%w: median rule: %v", ErrExportWrite, err)
	}
	p.Add(mean, median)
	p.Legend.Add(fmt.Sprintf("Mean: %s", money(stats.Mean)), mean)
	p.Legend.Add(fmt.Sprintf("Median: %s", money(stats.Median)), median)
	p.Legend.Top = true

	return savePlot(p, path)
}

func renderTimeline(monthly []model.MonthlyCount, forecast *model.Forecast, path string) error {
	p := plot.New()
	p.Title.Text = "Job Market Trends Over Time"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Number of Job Postings"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}

	points := make(plotter.XYs, len(monthly))
	for i, m := range monthly {
		points[i].X = float64(m.Month.Unix())
		points[i].Y = float64(m.Count)
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("%w: timeline: %v", ErrExportWrite, err)
	}
	line.Color = color.RGBA{R: 0x2e, G: 0x86, B: 0xab, A: 0xff}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("Postings per month", line)

	if forecast != nil {
		trend := make(plotter.XYs, len(monthly))
		for i, m := range monthly {
			trend[i].X = float64(m.Month.Unix())
			trend[i].Y = forecast.Intercept + forecast.Slope*float64(i)
		}
		trendLine, err := plotter.NewLine(trend)
		if err != nil {
			return fmt.Errorf("%w: trend line: %v", ErrExportWrite, err)
		}
		trendLine.Color = color.RGBA{R: 0xcc, A: 0xff}
		trendLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(trendLine)
		p.Legend.Add(fmt.Sprintf("Trend (%+.0f jobs/month)", forecast.Slope), trendLine)
	}
	p.Legend.Top = true

	return savePlot(p, path)
}

// verticalRule draws a dashed vertical marker at x spanning the histogram.
func verticalRule(x, height float64, c color.Color) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: height}})
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	line.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	return line, nil
}

func savePlot(p *plot.Plot, path string) error {
	if err := p.Save(12*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrExportWrite, path, err)
	}
	log.Info("chart written", "file", path)
	return nil
}
