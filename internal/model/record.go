package model

import (
	"strconv"
	"time"
)

// JobRecord is a single job-posting observation. Records are immutable once
// loaded; they live for the duration of one analysis run.
type JobRecord struct {
	Category     string    `json:"job_title_short"`
	Title        string    `json:"job_title"`
	Company      string    `json:"company_name"`
	Location     string    `json:"job_location"`
	Salary       *float64  `json:"salary_year_avg"` // annualized, nil when not disclosed
	PostedAt     time.Time `json:"job_posted_date"` // zero when unknown
	Schedule     string    `json:"job_schedule_type"`
	WorkFromHome bool      `json:"job_work_from_home"`
}

// SalaryValue returns the annualized salary and whether one is known.
func (r JobRecord) SalaryValue() (float64, bool) {
	if r.Salary == nil {
		return 0, false
	}
	return *r.Salary, true
}

// Key identifies a record for duplicate detection: two postings with the
// same category, title, company, location, salary and date are one posting.
func (r JobRecord) Key() string {
	salary := ""
	if r.Salary != nil {
		salary = formatSalaryKey(*r.Salary)
	}
	date := ""
	if !r.PostedAt.IsZero() {
		date = r.PostedAt.UTC().Format(time.RFC3339)
	}
	return r.Category + "\x1f" + r.Title + "\x1f" + r.Company + "\x1f" +
		r.Location + "\x1f" + salary + "\x1f" + date
}

func formatSalaryKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
