package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket/internal/model"
)

func TestDedupeDropsExactDuplicates(t *testing.T) {
	records := fixtureRecords()
	doubled := append(append([]model.JobRecord{}, records...), records...)

	cleaned, dropped := Dedupe(doubled)
	assert.Equal(t, len(records), dropped)
	require.Len(t, cleaned, len(records))
	assert.Equal(t, records, cleaned)
}

func TestDedupeKeepsFirstOccurrenceOrder(t *testing.T) {
	records := []model.JobRecord{
		{Category: "B", Company: "x"},
		{Category: "A", Company: "x"},
		{Category: "B", Company: "x"},
	}

	cleaned, dropped := Dedupe(records)
	assert.Equal(t, 1, dropped)
	require.Len(t, cleaned, 2)
	assert.Equal(t, "B", cleaned[0].Category)
	assert.Equal(t, "A", cleaned[1].Category)
}

func TestDedupeDistinguishesSalary(t *testing.T) {
	records := []model.JobRecord{
		{Category: "A", Company: "x", Salary: salary(100000)},
		{Category: "A", Company: "x", Salary: salary(120000)},
		{Category: "A", Company: "x"},
	}

	cleaned, dropped := Dedupe(records)
	assert.Zero(t, dropped)
	assert.Len(t, cleaned, 3)
}
