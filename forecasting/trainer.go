package forecasting

import (
	"fmt"
	"math"
	"time"
)

// Prediction is one held-out day: what happened and what the model said.
type Prediction struct {
	Date      time.Time `json:"date"`
	Actual    float64   `json:"actual"`
	Predicted float64   `json:"predicted"`
}

// Evaluation is the held-out error of a model fitted on the training prefix.
type Evaluation struct {
	RMSE        float64      `json:"rmse"`
	TrainRows   int          `json:"train_rows"`
	Predictions []Prediction `json:"predictions"`
}

// TrainResult is the fitted model together with its evaluation.
type TrainResult struct {
	Model *Booster
	Evaluation
}

// SplitSizes returns the chronological train/test sizes for n feature rows: the
// test suffix is ceil(n/5) rows, the training prefix the rest. For n == 1 the
// prefix is empty; Train then fits on that single row.
func SplitSizes(n int) (train, test int) {
	if n <= 0 {
		return 0, 0
	}
	test = (n + 4) / 5
	return n - test, test
}

// Train fits a model on the oldest 80% of rows and scores it on the newest 20%.
// Rows are never shuffled.
func Train(rows []FeatureRow, p Params) (*TrainResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("train: %w: need at least %d daily observations", ErrInsufficientData, LagWindow+1)
	}

	nTrain, _ := SplitSizes(len(rows))
	train, test := rows[:nTrain], rows[nTrain:]
	if nTrain == 0 {
		train = rows
	}

	model, err := FitRows(train, p)
	if err != nil {
		return nil, err
	}

	preds := make([]Prediction, len(test))
	actual := make([]float64, len(test))
	predicted := make([]float64, len(test))
	for i, r := range test {
		yhat := model.Predict(r.Lags)
		preds[i] = Prediction{Date: r.Date, Actual: r.Target, Predicted: yhat}
		actual[i] = r.Target
		predicted[i] = yhat
	}

	return &TrainResult{
		Model: model,
		Evaluation: Evaluation{
			RMSE:        RMSE(actual, predicted),
			TrainRows:   len(train),
			Predictions: preds,
		},
	}, nil
}

// FitRows fits a booster on every given row.
func FitRows(rows []FeatureRow, p Params) (*Booster, error) {
	x := make([][LagWindow]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Lags
		y[i] = r.Target
	}
	return Fit(x, y, p)
}

// Evaluate builds lag features from the series, trains and scores a model.
func Evaluate(series DailySeries, p Params) (*Evaluation, error) {
	res, err := Train(BuildLagFeatures(series), p)
	if err != nil {
		return nil, err
	}
	return &res.Evaluation, nil
}

// RMSE is the root of the mean squared difference. Empty input yields 0.
func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}
