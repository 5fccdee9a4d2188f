package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket/internal/model"
)

func monthlySeries(start string, counts ...int) []model.MonthlyCount {
	first := day(start)
	out := make([]model.MonthlyCount, 0, len(counts))
	for i, c := range counts {
		out = append(out, model.MonthlyCount{Month: first.AddDate(0, i, 0), Count: c})
	}
	return out
}

func TestForecastPerfectTrend(t *testing.T) {
	monthly := monthlySeries("2023-01-01", 10, 12, 14, 16, 18, 20)

	forecast := ForecastMonthly(monthly, 3)
	require.NotNil(t, forecast)
	assert.InDelta(t, 2.0, forecast.Slope, 1e-9)
	assert.InDelta(t, 10.0, forecast.Intercept, 1e-9)
	assert.InDelta(t, 1.0, forecast.R2, 1e-9)

	require.Len(t, forecast.Points, 3)
	assert.InDelta(t, 22.0, forecast.Points[0].Projected, 1e-9)
	assert.InDelta(t, 24.0, forecast.Points[1].Projected, 1e-9)
	assert.InDelta(t, 26.0, forecast.Points[2].Projected, 1e-9)
	assert.Equal(t, day("2023-07-01"), forecast.Points[0].Month)
	assert.Equal(t, day("2023-09-01"), forecast.Points[2].Month)
}

func TestForecastClampsAtZero(t *testing.T) {
	monthly := monthlySeries("2023-01-01", 10, 8, 6, 4, 2, 1)

	forecast := ForecastMonthly(monthly, 6)
	require.NotNil(t, forecast)
	assert.Negative(t, forecast.Slope)
	for _, p := range forecast.Points {
		assert.GreaterOrEqual(t, p.Projected, 0.0)
	}
	last := forecast.Points[len(forecast.Points)-1]
	assert.Zero(t, last.Projected)
}

func TestForecastShortSeriesSkipped(t *testing.T) {
	assert.Nil(t, ForecastMonthly(monthlySeries("2023-01-01", 10, 12, 14), 6))
	assert.Nil(t, ForecastMonthly(nil, 6))
	assert.Nil(t, ForecastMonthly(monthlySeries("2023-01-01", 10, 12, 14, 16, 18, 20), 0))
}
