package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"jobmarket/internal/model"
	"jobmarket/pkg/utils"
)

// Column names the dataset must carry. Optional columns are read when
// present and left zero otherwise.
const (
	colCategory = "job_title_short"
	colTitle    = "job_title"
	colCompany  = "company_name"
	colLocation = "job_location"
	colSalary   = "salary_year_avg"
	colPosted   = "job_posted_date"
	colSchedule = "job_schedule_type"
	colRemote   = "job_work_from_home"
)

var requiredColumns = []string{colCategory, colCompany, colLocation, colSalary, colPosted}

// LoadRecords reads the job-postings dataset from a local CSV path or an
// http(s) URL. When cachePath is set and the source is a URL, the downloaded
// body is stored there and reused by later runs.
func LoadRecords(ctx context.Context, source, cachePath string) ([]model.JobRecord, error) {
	reader, closeFn, err := openSource(ctx, source, cachePath)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	records, err := readCSV(reader)
	if err != nil {
		return nil, err
	}
	log.Info("dataset loaded", "source", source, "records", len(records))
	return records, nil
}

func openSource(ctx context.Context, source, cachePath string) (io.Reader, func() error, error) {
	if !strings.HasPrefix(source, "http") {
		file, err := os.Open(source)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: open %s: %v", ErrInputUnavailable, source, err)
		}
		return file, file.Close, nil
	}

	if cachePath != "" {
		if file, err := os.Open(cachePath); err == nil {
			log.Info("using cached dataset", "path", cachePath)
			return file, file.Close, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: GET %s: %v", ErrInputUnavailable, source, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, nil, fmt.Errorf("%w: GET %s: status %s", ErrInputUnavailable, source, resp.Status)
	}

	if cachePath == "" {
		return resp.Body, resp.Body.Close, nil
	}

	// Download fully into the cache file, then read from it.
	defer resp.Body.Close()
	if err := writeCache(cachePath, resp.Body); err != nil {
		return nil, nil, err
	}
	file, err := os.Open(cachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reopen cache %s: %v", ErrInputUnavailable, cachePath, err)
	}
	log.Info("dataset cached", "path", cachePath)
	return file, file.Close, nil
}

func writeCache(cachePath string, body io.Reader) error {
	tmp := cachePath + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: create cache %s: %v", ErrInputUnavailable, tmp, err)
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: download: %v", ErrInputUnavailable, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close cache: %v", ErrInputUnavailable, err)
	}
	return os.Rename(tmp, cachePath)
}

// readCSV parses the dataset. The header row drives column mapping, so
// column order in the source does not matter.
func readCSV(reader io.Reader) ([]model.JobRecord, error) {
	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read CSV header: %v", ErrInputUnavailable, err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		cleaned := strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
		index[cleaned] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: column %q not in header", ErrMissingField, col)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []model.JobRecord
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: CSV read: %v", ErrInputUnavailable, err)
		}

		rec := model.JobRecord{
			Category:     cell(row, colCategory),
			Title:        cell(row, colTitle),
			Company:      cell(row, colCompany),
			Location:     cell(row, colLocation),
			PostedAt:     utils.ParseDate(cell(row, colPosted)),
			Schedule:     cell(row, colSchedule),
			WorkFromHome: utils.ParseBool(cell(row, colRemote)),
		}
		if salary, ok := utils.ParseFloat(cell(row, colSalary)); ok {
			rec.Salary = &salary
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: dataset has a header but no rows", ErrEmptyInput)
	}
	return records, nil
}
