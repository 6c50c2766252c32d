package forecasting

import (
	"fmt"

	"salescast/tabular"
)

// Pipeline runs preprocessing, training and forecasting for one dataset. It holds
// only its inputs; every method recomputes from them and returns fresh values, so
// a Pipeline has no hidden call-order requirements and shares nothing with
// other pipelines.
type Pipeline struct {
	table    *tabular.Table
	dateCol  string
	salesCol string
	params   Params
}

// NewPipeline prepares a pipeline over table using the named date and sales
// columns.
func NewPipeline(table *tabular.Table, dateCol, salesCol string, params Params) *Pipeline {
	return &Pipeline{table: table, dateCol: dateCol, salesCol: salesCol, params: params}
}

// Preprocess returns the daily sales series.
func (p *Pipeline) Preprocess() (DailySeries, error) {
	return Preprocess(p.table, p.dateCol, p.salesCol)
}

// Evaluate trains on the chronological 80% prefix and reports RMSE on the rest.
func (p *Pipeline) Evaluate() (*Evaluation, error) {
	series, err := p.Preprocess()
	if err != nil {
		return nil, err
	}
	return Evaluate(series, p.params)
}

// Fit trains a model on every lag-feature row of the dataset.
func (p *Pipeline) Fit() (*Booster, DailySeries, error) {
	series, err := p.Preprocess()
	if err != nil {
		return nil, nil, err
	}
	model, err := p.fit(series)
	if err != nil {
		return nil, nil, err
	}
	return model, series, nil
}

func (p *Pipeline) fit(series DailySeries) (*Booster, error) {
	rows := BuildLagFeatures(series)
	if len(rows) == 0 {
		return nil, fmt.Errorf("fit: %w: need at least %d daily observations, have %d", ErrInsufficientData, LagWindow+1, len(series))
	}
	return FitRows(rows, p.params)
}

// Forecast fits a fresh model on the whole dataset and forecasts periods ahead.
// Fitting needs at least one lag-feature row, so datasets with fewer than
// LagWindow+1 (8) distinct days fail with ErrInsufficientData even though the
// bare Forecast function can run from a 7-day seed.
func (p *Pipeline) Forecast(periods int, freq Frequency) ([]ForecastRecord, error) {
	out, err := p.forecast(periods, freq, false)
	if err != nil {
		return nil, err
	}
	return out.Forecast, nil
}

// Outlook is a forecast together with the holdout evaluation of the same
// dataset and the daily history both were computed from.
type Outlook struct {
	History    DailySeries
	Forecast   []ForecastRecord
	Evaluation *Evaluation
}

// Outlook preprocesses the dataset once, then forecasts periods ahead and
// evaluates the model on the chronological holdout. The same minimum of
// LagWindow+1 days applies as for Forecast.
func (p *Pipeline) Outlook(periods int, freq Frequency) (*Outlook, error) {
	return p.forecast(periods, freq, true)
}

func (p *Pipeline) forecast(periods int, freq Frequency, evaluate bool) (*Outlook, error) {
	if periods < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPeriods, periods)
	}
	series, err := p.Preprocess()
	if err != nil {
		return nil, err
	}
	model, err := p.fit(series)
	if err != nil {
		return nil, err
	}
	records, err := Forecast(model, series, periods, freq)
	if err != nil {
		return nil, err
	}

	out := &Outlook{History: series, Forecast: records}
	if evaluate {
		if out.Evaluation, err = Evaluate(series, p.params); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NextWeek forecasts the 7 days after the last observed date.
func (p *Pipeline) NextWeek() ([]ForecastRecord, error) { return p.Forecast(7, Daily) }

// NextMonth forecasts the 30 days after the last observed date.
func (p *Pipeline) NextMonth() ([]ForecastRecord, error) { return p.Forecast(30, Daily) }

// NextYear forecasts the 365 days after the last observed date.
func (p *Pipeline) NextYear() ([]ForecastRecord, error) { return p.Forecast(365, Daily) }
