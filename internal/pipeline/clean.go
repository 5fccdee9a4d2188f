package pipeline

import (
	"github.com/charmbracelet/log"

	"jobmarket/internal/model"
)

// Dedupe drops exact duplicate postings, keeping the first occurrence so
// first-seen order is preserved for downstream tie-breaking. It returns the
// cleaned slice and the number of duplicates dropped.
func Dedupe(records []model.JobRecord) ([]model.JobRecord, int) {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.JobRecord, 0, len(records))
	for _, rec := range records {
		key := rec.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	dropped := len(records) - len(out)
	if dropped > 0 {
		log.Info("duplicates removed", "dropped", dropped, "kept", len(out))
	}
	return out, dropped
}
