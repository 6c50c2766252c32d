package forecasting

import (
	"fmt"
	"time"
)

// ForecastRecord is one predicted future period.
type ForecastRecord struct {
	Date            time.Time `json:"date"`
	ForecastedSales float64   `json:"forecasted_sales"`
}

// Forecast rolls model forward for the given number of periods. The last
// LagWindow actual totals seed the window; after that each prediction is fed
// back as the newest lag, so later steps depend on earlier predictions and
// never on data past the seed.
func Forecast(model Regressor, series DailySeries, periods int, freq Frequency) ([]ForecastRecord, error) {
	if periods < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPeriods, periods)
	}
	if len(series) < LagWindow {
		return nil, fmt.Errorf("forecast: %w: need %d daily observations to seed, have %d", ErrInsufficientData, LagWindow, len(series))
	}

	window := make([]float64, LagWindow, LagWindow+1)
	copy(window, series.Totals()[len(series)-LagWindow:])
	last := series.Last().Date

	out := make([]ForecastRecord, periods)
	for step := 1; step <= periods; step++ {
		next := model.Predict(lagVector(window))
		out[step-1] = ForecastRecord{Date: freq.Add(last, step), ForecastedSales: next}

		window = append(window[1:], next)
	}
	return out, nil
}

// NextWeek forecasts 7 daily periods.
func NextWeek(model Regressor, series DailySeries) ([]ForecastRecord, error) {
	return Forecast(model, series, 7, Daily)
}

// NextMonth forecasts 30 daily periods.
func NextMonth(model Regressor, series DailySeries) ([]ForecastRecord, error) {
	return Forecast(model, series, 30, Daily)
}

// NextYear forecasts 365 daily periods.
func NextYear(model Regressor, series DailySeries) ([]ForecastRecord, error) {
	return Forecast(model, series, 365, Daily)
}
