package model

import "time"

// SummaryMetric is one row of the overview table: a metric label and its
// value, already formatted for export.
type SummaryMetric struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// CategoryCount is one row of a top-N breakdown for a categorical field.
// Share is the fraction of all records carrying this label, in [0,1].
type CategoryCount struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// SalaryStats describes the distribution of known salaries.
type SalaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// CategorySalary is the salary breakdown for one title category.
type CategorySalary struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	P75      float64 `json:"p75"`
	StdDev   float64 `json:"std_dev"`
}

// MonthlyCount is the number of postings observed in one calendar month.
type MonthlyCount struct {
	Month time.Time `json:"month"` // first day of the month, UTC
	Count int       `json:"count"`
}

// ForecastPoint is a projected posting count for a future month.
type ForecastPoint struct {
	Month     time.Time `json:"month"`
	Projected float64   `json:"projected"`
}

// Forecast is the fitted trend over the monthly counts and its projection.
type Forecast struct {
	Slope     float64         `json:"slope"` // postings per month
	Intercept float64         `json:"intercept"`
	R2        float64         `json:"r2"`
	Points    []ForecastPoint `json:"points"`
}

// Report holds every summary table derived from one record collection.
// All slices are in their final, deterministic export order.
type Report struct {
	TotalJobs       int
	UniqueCompanies int
	UniqueLocations int
	UniqueTitles    int

	Salaries       *SalaryStats // nil when no record carries a salary
	TopCategories  []CategoryCount
	TopLocations   []CategoryCount
	TopCompanies   []CategoryCount
	SalaryByGroup  []CategorySalary
	MonthlyCounts  []MonthlyCount
	MarketForecast *Forecast // nil when the series is too short
}
