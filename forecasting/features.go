package forecasting

import "time"

// LagWindow is the number of past days used as features.
const LagWindow = 7

// FeatureRow pairs a day's sales with the sales of the LagWindow days before it.
// Lags[0] is lag_1 (the previous day), Lags[6] is lag_7.
type FeatureRow struct {
	Date   time.Time
	Lags   [LagWindow]float64
	Target float64
}

// BuildLagFeatures derives one row per day that has a full window of history.
// A series of LagWindow days or fewer yields no rows.
func BuildLagFeatures(series DailySeries) []FeatureRow {
	if len(series) <= LagWindow {
		return nil
	}

	totals := series.Totals()
	rows := make([]FeatureRow, 0, len(series)-LagWindow)
	for i := LagWindow; i < len(series); i++ {
		rows = append(rows, FeatureRow{
			Date:   series[i].Date,
			Lags:   lagVector(totals[i-LagWindow : i]),
			Target: totals[i],
		})
	}
	return rows
}

// lagVector turns a chronological window (oldest first, most recent last) into
// lag_1..lag_7 order. Training and forecasting both go through here.
func lagVector(window []float64) [LagWindow]float64 {
	var v [LagWindow]float64
	n := len(window)
	for k := 1; k <= LagWindow; k++ {
		v[k-1] = window[n-k]
	}
	return v
}
