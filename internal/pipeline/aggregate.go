package pipeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"jobmarket/internal/model"
	"jobmarket/pkg/utils"
)

// AggregateOptions bounds the size of the ranked tables.
type AggregateOptions struct {
	TopCategories int
	TopLocations  int
	TopCompanies  int
	// MinGroupSize is the number of salaried records a category needs to
	// appear in the per-category salary breakdown.
	MinGroupSize int
}

// Aggregate derives every summary table from the record collection. The
// input order is significant: ties in the ranked tables are broken by first
// appearance, which keeps output stable across runs on the same input.
func Aggregate(records []model.JobRecord, opts AggregateOptions) (*model.Report, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: nothing to aggregate", ErrEmptyInput)
	}

	categories := newLabelCounter()
	locations := newLabelCounter()
	companies := newLabelCounter()
	titles := newLabelCounter()

	var salaries []float64
	byCategory := map[string][]float64{}
	monthly := map[int64]int{}

	for _, rec := range records {
		categories.Add(rec.Category)
		locations.Add(rec.Location)
		companies.Add(rec.Company)
		titles.Add(rec.Title)

		if salary, ok := rec.SalaryValue(); ok {
			salaries = append(salaries, salary)
			if rec.Category != "" {
				byCategory[rec.Category] = append(byCategory[rec.Category], salary)
			}
		}
		if !rec.PostedAt.IsZero() {
			monthly[monthKey(rec.PostedAt)]++
		}
	}

	report := &model.Report{
		TotalJobs:       len(records),
		UniqueCompanies: companies.Distinct(),
		UniqueLocations: locations.Distinct(),
		UniqueTitles:    titles.Distinct(),
		TopCategories:   categories.Top(opts.TopCategories, len(records)),
		TopLocations:    locations.Top(opts.TopLocations, len(records)),
		TopCompanies:    companies.Top(opts.TopCompanies, len(records)),
		MonthlyCounts:   monthlyCounts(monthly),
	}

	if stats, err := SalaryStatsOf(salaries); err == nil {
		report.Salaries = &stats
	}
	report.SalaryByGroup = salaryByCategory(byCategory, categories, opts.MinGroupSize)

	return report, nil
}

// SalaryStatsOf computes the distribution statistics over known salaries.
// An empty set returns ErrNoSalaryData: the statistics are undefined and
// must not be read as zero.
func SalaryStatsOf(values []float64) (model.SalaryStats, error) {
	if len(values) == 0 {
		return model.SalaryStats{}, ErrNoSalaryData
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	stats := model.SalaryStats{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: percentile(sorted, 0.5),
		P25:    percentile(sorted, 0.25),
		P75:    percentile(sorted, 0.75),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		stats.StdDev = stat.StdDev(sorted, nil)
	}
	return stats, nil
}

// percentile returns the p-quantile (0 <= p <= 1) of a sorted sample using
// linear interpolation between order statistics: h = (n-1)p. This matches
// the interpolation the reference analysis used.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

func salaryByCategory(byCategory map[string][]float64, categories *labelCounter, minGroupSize int) []model.CategorySalary {
	if minGroupSize < 1 {
		minGroupSize = 1
	}
	rows := make([]model.CategorySalary, 0, len(byCategory))
	for category, values := range byCategory {
		if len(values) < minGroupSize {
			continue
		}
		stats, err := SalaryStatsOf(values)
		if err != nil {
			continue
		}
		rows = append(rows, model.CategorySalary{
			Category: category,
			Count:    stats.Count,
			Mean:     stats.Mean,
			Median:   stats.Median,
			P75:      stats.P75,
			StdDev:   stats.StdDev,
		})
	}
	// Highest-paying categories first; equal means fall back to the order
	// the categories were first observed in.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Mean != rows[j].Mean {
			return rows[i].Mean > rows[j].Mean
		}
		return categories.FirstSeen(rows[i].Category) < categories.FirstSeen(rows[j].Category)
	})
	return rows
}

func monthlyCounts(monthly map[int64]int) []model.MonthlyCount {
	keys := make([]int64, 0, len(monthly))
	for key := range monthly {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]model.MonthlyCount, 0, len(keys))
	for _, key := range keys {
		out = append(out, model.MonthlyCount{
			Month: monthFromKey(key),
			Count: monthly[key],
		})
	}
	return out
}

// labelCounter counts occurrences per label and remembers the order labels
// were first observed in, which breaks ranking ties deterministically.
type labelCounter struct {
	counts    map[string]int
	firstSeen map[string]int
}

func newLabelCounter() *labelCounter {
	return &labelCounter{
		counts:    map[string]int{},
		firstSeen: map[string]int{},
	}
}

// Add counts one observation of label. Blank labels are not counted: they
// carry no information for a breakdown, though the record itself still
// counts toward the total.
func (c *labelCounter) Add(label string) {
	if label == "" {
		return
	}
	if _, ok := c.firstSeen[label]; !ok {
		c.firstSeen[label] = len(c.firstSeen)
	}
	c.counts[label]++
}

// Distinct returns the number of distinct labels observed.
func (c *labelCounter) Distinct() int {
	return len(c.counts)
}

// FirstSeen returns the first-seen rank of a label, or a rank past every
// observed label when it was never seen.
func (c *labelCounter) FirstSeen(label string) int {
	if rank, ok := c.firstSeen[label]; ok {
		return rank
	}
	return len(c.firstSeen)
}

// Top returns the n highest-count labels, descending by count, ties broken
// by first appearance. Share is each count's fraction of total.
func (c *labelCounter) Top(n, total int) []model.CategoryCount {
	labels := make([]string, 0, len(c.counts))
	for label := range c.counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if c.counts[labels[i]] != c.counts[labels[j]] {
			return c.counts[labels[i]] > c.counts[labels[j]]
		}
		return c.firstSeen[labels[i]] < c.firstSeen[labels[j]]
	})
	if n > 0 && len(labels) > n {
		labels = labels[:n]
	}

	out := make([]model.CategoryCount, 0, len(labels))
	for _, label := range labels {
		count := c.counts[label]
		share := 0.0
		if total > 0 {
			share = float64(count) / float64(total)
		}
		out = append(out, model.CategoryCount{Label: label, Count: count, Share: share})
	}
	return out
}

func monthKey(t time.Time) int64 {
	return utils.MonthOf(t).Unix()
}

func monthFromKey(key int64) time.Time {
	return time.Unix(key, 0).UTC()
}
