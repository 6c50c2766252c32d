package models

import "salescast/forecasting"

// DatasetQuery selects a stored dataset and the columns to read from it.
type DatasetQuery struct {
	FileID   string `query:"_id" validate:"required,uuid"`
	DateCol  string `query:"date_col"`
	SalesCol string `query:"sales_col"`
	TimeCol  string `query:"time_col"`
}

// ForecastQuery is the query for GET /api/v1/forecast.
type ForecastQuery struct {
	DatasetQuery
	Periods int    `query:"periods" validate:"required,min=1,max=3650"`
	Freq    string `query:"freq"`
}

// CountPlotQuery is the query for GET /api/v1/eda/countplot.
type CountPlotQuery struct {
	DatasetQuery
	X   string `query:"x" validate:"required"`
	Hue string `query:"hue"`
}

// CrosstabQuery is the query for GET /api/v1/eda/crosstab.
type CrosstabQuery struct {
	DatasetQuery
	Row    string `query:"row" validate:"required"`
	Col    string `query:"col" validate:"required"`
	Values string `query:"values"`
}

// ColumnQuery is the query for single-column EDA endpoints.
type ColumnQuery struct {
	DatasetQuery
	Col string `query:"col" validate:"required"`
}

// AgeBinsQuery is the query for GET /api/v1/eda/age_bins. Bins and labels are
// comma-separated lists; Col defaults to "age".
type AgeBinsQuery struct {
	DatasetQuery
	Col    string `query:"col"`
	Bins   string `query:"bins" validate:"required"`
	Labels string `query:"labels" validate:"required"`
}

// ForecastResponse is the payload of every forecast endpoint.
type ForecastResponse struct {
	FileID    string                       `json:"fileId"`
	Frequency string                       `json:"frequency"`
	Periods   int                          `json:"periods"`
	Forecast  []forecasting.ForecastRecord `json:"forecast"`
}

// EvaluationResponse is the payload of GET /api/v1/forecast/evaluate.
type EvaluationResponse struct {
	FileID string `json:"fileId"`
	*forecasting.Evaluation
}

// ForecastInsight contains the qualitative reading of a forecast from Gemini.
type ForecastInsight struct {
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}

// ForecastInsightResponse pairs a forecast with its narrative.
type ForecastInsightResponse struct {
	ForecastResponse
	RMSE    *float64         `json:"rmse,omitempty"`
	Insight *ForecastInsight `json:"insight"`
}
