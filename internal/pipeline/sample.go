package pipeline

import "jobmarket/internal/model"

// StratifiedSample picks up to size records for the sampled raw export,
// keeping category proportions close to the full collection. Selection is
// deterministic: each category gets a quota proportional to its frequency
// (at least one record), quotas are filled in source order, and any slack is
// topped up with the remaining records in source order. No randomness, so
// re-runs on identical input produce identical files.
func StratifiedSample(records []model.JobRecord, size int) []model.JobRecord {
	if size <= 0 || len(records) <= size {
		return records
	}

	counts := map[string]int{}
	for _, rec := range records {
		counts[rec.Category]++
	}

	quotas := make(map[string]int, len(counts))
	for category, count := range counts {
		quota := size * count / len(records)
		if quota < 1 {
			quota = 1
		}
		quotas[category] = quota
	}

	sample := make([]model.JobRecord, 0, size)
	picked := make([]bool, len(records))
	taken := map[string]int{}
	for i, rec := range records {
		if len(sample) == size {
			return sample
		}
		if taken[rec.Category] < quotas[rec.Category] {
			taken[rec.Category]++
			picked[i] = true
			sample = append(sample, rec)
		}
	}

	// Quotas round down, so there may be slack left; fill it in source order.
	for i, rec := range records {
		if len(sample) == size {
			break
		}
		if !picked[i] {
			sample = append(sample, rec)
		}
	}
	return sample
}
