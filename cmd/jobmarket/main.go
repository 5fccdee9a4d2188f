package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"jobmarket/internal/config"
	"jobmarket/internal/pipeline"
	"jobmarket/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults apply when omitted)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("failed to load config", "path", *configPath, "err", err)
		}
		cfg = loaded
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if err := store.InitDB(cfg.Output.DBPath); err != nil {
		log.Fatal("failed to open run history", "path", cfg.Output.DBPath, "err", err)
	}
	defer store.Close()

	runID := uuid.New().String()
	if err := store.SaveRun(runID, cfg.Dataset.Source); err != nil {
		log.Fatal("failed to record run", "err", err)
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " analyzing job market data..."
	s.Start()
	report, err := pipeline.Run(context.Background(), runID, cfg)
	s.Stop()
	if err != nil {
		log.Fatal("analysis failed", "run", runID, "err", err)
	}

	log.Info("market overview",
		"total_jobs", report.TotalJobs,
		"unique_companies", report.UniqueCompanies,
		"unique_locations", report.UniqueLocations,
		"unique_titles", report.UniqueTitles)
	if report.Salaries != nil {
		log.Info("salary intelligence",
			"mean", fmt.Sprintf("$%.0f", report.Salaries.Mean),
			"median", fmt.Sprintf("$%.0f", report.Salaries.Median),
			"p25", fmt.Sprintf("$%.0f", report.Salaries.P25),
			"p75", fmt.Sprintf("$%.0f", report.Salaries.P75))
	} else {
		log.Warn("salary intelligence unavailable", "reason", "no record carries a salary")
	}
	for i, c := range report.TopCategories {
		log.Info("top category", "rank", i+1, "category", c.Label,
			"count", c.Count, "share", fmt.Sprintf("%.1f%%", c.Share*100))
	}
	if f := report.MarketForecast; f != nil {
		trend := "growing"
		if f.Slope < 0 {
			trend = "declining"
		}
		log.Info("market forecast", "trend", trend,
			"slope", fmt.Sprintf("%+.0f jobs/month", f.Slope),
			"r2", fmt.Sprintf("%.3f", f.R2))
	}

	log.Info("outputs ready", "exports", cfg.Output.ExportDir, "plots", cfg.Output.PlotsDir)
}
