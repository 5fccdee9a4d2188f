package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"jobmarket/internal/config"
	"jobmarket/internal/model"
	"jobmarket/internal/store"
	"jobmarket/pkg/utils"
)

// Run executes one analysis: load → clean → aggregate → chart → export.
// Stages run sequentially; every error is fatal to the run and recorded in
// the run history before Run returns it.
func Run(ctx context.Context, runID string, cfg config.Config) (report *model.Report, err error) {
	start := time.Now()
	log.Info("starting analysis run", "run", runID, "source", cfg.Dataset.Source)
	store.UpdateRunStatus(runID, "running")

	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
		}
	}()

	// --- LOAD ---
	stageStart := time.Now()
	store.UpdateRunStatus(runID, "loading")
	records, err := LoadRecords(ctx, cfg.Dataset.Source, cfg.Dataset.CachePath)
	if err != nil {
		return nil, err
	}
	endStage(runID, "load", stageStart, len(records))

	// --- CLEAN ---
	stageStart = time.Now()
	store.UpdateRunStatus(runID, "cleaning")
	records, dropped := Dedupe(records)
	store.SetRunCounts(runID, len(records), dropped)
	endStage(runID, "clean", stageStart, len(records))

	// --- AGGREGATE ---
	stageStart = time.Now()
	store.UpdateRunStatus(runID, "aggregating")
	report, err = Aggregate(records, AggregateOptions{
		TopCategories: cfg.Analysis.TopCategories,
		TopLocations:  cfg.Analysis.TopLocations,
		TopCompanies:  cfg.Analysis.TopCompanies,
		MinGroupSize:  cfg.Analysis.MinGroupSize,
	})
	if err != nil {
		return nil, err
	}
	report.MarketForecast = ForecastMonthly(report.MonthlyCounts, cfg.Analysis.ForecastMonths)
	endStage(runID, "aggregate", stageStart, report.TotalJobs)

	out := utils.NewOutputManager(cfg.Output.ExportDir, cfg.Output.PlotsDir)

	// --- CHARTS ---
	stageStart = time.Now()
	store.UpdateRunStatus(runID, "charting")
	if err := RenderCharts(report, records, out); err != nil {
		return nil, err
	}
	endStage(runID, "charts", stageStart, 0)

	// --- EXPORT ---
	stageStart = time.Now()
	store.UpdateRunStatus(runID, "exporting")
	sample := StratifiedSample(records, cfg.Analysis.SampleSize)
	exporter := &Exporter{Out: out, ExportCap: cfg.Analysis.ExportCap}
	results, err := exporter.ExportReport(report, sample)
	for _, result := range results {
		store.SaveExportFile(runID, result.File, result.Rows, result.Bytes)
	}
	if err != nil {
		return nil, err
	}
	endStage(runID, "export", stageStart, len(results))

	store.UpdateRunStatus(runID, "completed")
	log.Info("analysis run completed", "run", runID,
		"records", report.TotalJobs, "exports", len(results), "took", time.Since(start))
	return report, nil
}

func endStage(runID, stage string, startedAt time.Time, rows int) {
	endedAt := time.Now()
	store.SaveStageProgress(runID, stage, "completed", &startedAt, &endedAt, rows)
	log.Debug("stage completed", "run", runID, "stage", stage,
		"rows", rows, "took", endedAt.Sub(startedAt))
}
