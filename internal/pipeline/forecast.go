package pipeline

import (
	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"jobmarket/internal/model"
)

// minForecastPoints is the shortest monthly series worth fitting a trend to.
const minForecastPoints = 6

// ForecastMonthly fits an ordinary least squares line through the monthly
// posting counts and projects it horizon months past the end of the series.
// Returns nil when the series is too short; a thin series is not an error,
// the projection is simply left out of the report.
func ForecastMonthly(monthly []model.MonthlyCount, horizon int) *model.Forecast {
	if len(monthly) < minForecastPoints || horizon <= 0 {
		return nil
	}

	xs := make([]float64, len(monthly))
	ys := make([]float64, len(monthly))
	for i, m := range monthly {
		xs[i] = float64(i)
		ys[i] = float64(m.Count)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)

	points := make([]model.ForecastPoint, 0, horizon)
	last := monthly[len(monthly)-1].Month
	for i := 1; i <= horizon; i++ {
		projected := alpha + beta*float64(len(monthly)-1+i)
		if projected < 0 {
			projected = 0
		}
		points = append(points, model.ForecastPoint{
			Month:     last.AddDate(0, i, 0),
			Projected: projected,
		})
	}

	log.Info("market forecast fitted",
		"months", len(monthly), "slope", beta, "r2", r2)

	return &model.Forecast{
		Slope:     beta,
		Intercept: alpha,
		R2:        r2,
		Points:    points,
	}
}
