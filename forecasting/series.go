package forecasting

import (
	"fmt"
	"sort"
	"time"

	"salescast/tabular"
	"salescast/utils"
)

// DailySales is the total of all sales recorded on one calendar date.
type DailySales struct {
	Date       time.Time `json:"date"`
	TotalSales float64   `json:"total_sales"`
}

// DailySeries is ordered by strictly increasing Date. Days without sales are
// absent, not zero.
type DailySeries []DailySales

// Last returns the most recent entry. The series must not be empty.
func (s DailySeries) Last() DailySales { return s[len(s)-1] }

// Totals returns the sales values in series order.
func (s DailySeries) Totals() []float64 {
	out := make([]float64, len(s))
	for i, d := range s {
		out[i] = d.TotalSales
	}
	return out
}

// Preprocess groups transaction rows by calendar date and sums their sales.
// Any date or sales cell that cannot be parsed fails the whole call.
func Preprocess(t *tabular.Table, dateCol, salesCol string) (DailySeries, error) {
	dates, err := t.Column(dateCol)
	if err != nil {
		return nil, err
	}
	sales, err := t.Column(salesCol)
	if err != nil {
		return nil, err
	}

	totals := make(map[time.Time]float64)
	for i := range dates {
		ts, err := utils.ParseDate(dates[i])
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d value %q", ErrUnparseableDate, dateCol, i+1, dates[i])
		}
		v, ok := tabular.ParseNumber(sales[i])
		if !ok {
			return nil, fmt.Errorf("%w: column %q row %d value %q", ErrNonNumericSales, salesCol, i+1, sales[i])
		}
		totals[utils.CalendarDay(ts)] += v
	}

	series := make(DailySeries, 0, len(totals))
	for day, total := range totals {
		series = append(series, DailySales{Date: day, TotalSales: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	return series, nil
}
