package forecasting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineNextWeekEightDays(t *testing.T) {
	table := tableOf(t, 10, 12, 11, 13, 9, 14, 15, 16)

	records, err := NewPipeline(table, "date", "sales", DefaultParams()).NextWeek()
	require.NoError(t, err)

	require.Len(t, records, 7)
	for i, r := range records {
		assert.Equal(t, day0.AddDate(0, 0, 8+i), r.Date)
	}
}

func TestPipelineForecastIsIdempotent(t *testing.T) {
	table := tableOf(t, 5, 7, 3, 8, 12, 9, 4, 6, 11, 13, 2, 7, 9, 10, 8, 6, 5, 12)

	a, err := NewPipeline(table, "date", "sales", DefaultParams()).NextMonth()
	require.NoError(t, err)
	b, err := NewPipeline(table, "date", "sales", DefaultParams()).NextMonth()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestPipelineRepeatedCallsAgree(t *testing.T) {
	table := tableOf(t, 5, 7, 3, 8, 12, 9, 4, 6, 11, 13, 2, 7)
	p := NewPipeline(table, "date", "sales", DefaultParams())

	first, err := p.Forecast(10, Weekly)
	require.NoError(t, err)
	_, err = p.Evaluate()
	require.NoError(t, err)
	second, err := p.Forecast(10, Weekly)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPipelineConstantSeries(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 50
	}

	records, err := NewPipeline(tableOf(t, values...), "date", "sales", DefaultParams()).Forecast(12, Daily)
	require.NoError(t, err)
	for _, r := range records {
		assert.Equal(t, 50.0, r.ForecastedSales)
	}
}

func TestPipelineInsufficientData(t *testing.T) {
	p := NewPipeline(tableOf(t, 1, 2, 3, 4, 5, 6, 7), "date", "sales", DefaultParams())

	_, err := p.NextWeek()
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = p.Evaluate()
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPipelineMissingColumn(t *testing.T) {
	p := NewPipeline(tableOf(t, 1, 2, 3), "day", "sales", DefaultParams())

	_, err := p.Evaluate()
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = p.Forecast(3, Daily)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestPipelineEvaluate(t *testing.T) {
	table := tableOf(t, 5, 7, 3, 8, 12, 9, 4, 6, 11, 13, 2, 7, 9, 10, 8, 6, 5, 12)

	eval, err := NewPipeline(table, "date", "sales", DefaultParams()).Evaluate()
	require.NoError(t, err)

	// 18 days -> 11 feature rows -> ceil(11/5) = 3 held out.
	assert.Len(t, eval.Predictions, 3)
	assert.Equal(t, 8, eval.TrainRows)
	assert.GreaterOrEqual(t, eval.RMSE, 0.0)
}

func TestPipelineOutlookMatchesSeparateCalls(t *testing.T) {
	table := tableOf(t, 5, 7, 3, 8, 12, 9, 4, 6, 11, 13, 2, 7, 9, 10, 8, 6, 5, 12)
	p := NewPipeline(table, "date", "sales", DefaultParams())

	outlook, err := p.Outlook(10, Weekly)
	require.NoError(t, err)

	forecast, err := p.Forecast(10, Weekly)
	require.NoError(t, err)
	eval, err := p.Evaluate()
	require.NoError(t, err)
	_, history, err := p.Fit()
	require.NoError(t, err)

	assert.Equal(t, forecast, outlook.Forecast)
	assert.Equal(t, eval, outlook.Evaluation)
	assert.Equal(t, history, outlook.History)
}

func TestPipelineOutlookErrors(t *testing.T) {
	_, err := NewPipeline(tableOf(t, 1, 2, 3, 4, 5, 6, 7, 8), "date", "sales", DefaultParams()).Outlook(0, Daily)
	assert.ErrorIs(t, err, ErrInvalidPeriods)

	_, err = NewPipeline(tableOf(t, 1, 2, 3, 4, 5, 6, 7), "date", "sales", DefaultParams()).Outlook(7, Daily)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPipelineNeedsOneFeatureRowWhereSeedSuffices(t *testing.T) {
	table := tableOf(t, 1, 2, 3, 4, 5, 6, 7)
	p := NewPipeline(table, "date", "sales", DefaultParams())

	_, err := p.NextWeek()
	assert.ErrorIs(t, err, ErrInsufficientData)

	series, err := p.Preprocess()
	require.NoError(t, err)
	constant := regressorFunc(func([LagWindow]float64) float64 { return 4 })
	records, err := NextWeek(constant, series)
	require.NoError(t, err)
	assert.Len(t, records, 7)
}
