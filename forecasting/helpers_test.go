package forecasting

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salescast/tabular"
)

var day0 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func seriesOf(values ...float64) DailySeries {
	s := make(DailySeries, len(values))
	for i, v := range values {
		s[i] = DailySales{Date: day0.AddDate(0, 0, i), TotalSales: v}
	}
	return s
}

func tableOf(t *testing.T, values ...float64) *tabular.Table {
	t.Helper()
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{day0.AddDate(0, 0, i).Format("2006-01-02"), strconv.FormatFloat(v, 'f', -1, 64), "store-1"}
	}
	table, err := tabular.New([]string{"date", "sales", "store"}, rows)
	require.NoError(t, err)
	return table
}

type regressorFunc func(lags [LagWindow]float64) float64

func (f regressorFunc) Predict(lags [LagWindow]float64) float64 { return f(lags) }
