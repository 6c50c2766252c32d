package forecasting

import "encoding/json"

// DateLayout is how dates are rendered in JSON output.
const DateLayout = "2006-01-02"

func (d DailySales) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date       string  `json:"date"`
		TotalSales float64 `json:"total_sales"`
	}{d.Date.Format(DateLayout), d.TotalSales})
}

func (r ForecastRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date            string  `json:"date"`
		ForecastedSales float64 `json:"forecasted_sales"`
	}{r.Date.Format(DateLayout), r.ForecastedSales})
}

func (p Prediction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date      string  `json:"date"`
		Actual    float64 `json:"actual"`
		Predicted float64 `json:"predicted"`
	}{p.Date.Format(DateLayout), p.Actual, p.Predicted})
}
