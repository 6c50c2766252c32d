package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"salescast/forecasting"
	"salescast/insight"
	"salescast/models"
)

// HandleForecastNextWeek forecasts the 7 days after the last observed date.
// GET /api/v1/forecast/next_week?_id=
func (h *Handler) HandleForecastNextWeek(c *fiber.Ctx) error {
	return h.forecastHorizon(c, 7)
}

// HandleForecastNextMonth forecasts the next 30 days.
// GET /api/v1/forecast/next_month?_id=
func (h *Handler) HandleForecastNextMonth(c *fiber.Ctx) error {
	return h.forecastHorizon(c, 30)
}

// HandleForecastNextYear forecasts the next 365 days.
// GET /api/v1/forecast/next_year?_id=
func (h *Handler) HandleForecastNextYear(c *fiber.Ctx) error {
	return h.forecastHorizon(c, 365)
}

func (h *Handler) forecastHorizon(c *fiber.Ctx, days int) error {
	var q models.DatasetQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "FORECAST", err)
	}
	return h.forecast(c, &q, days, forecasting.Daily)
}

// HandleForecast forecasts an arbitrary number of periods at a given frequency.
// GET /api/v1/forecast?_id=&periods=&freq=
func (h *Handler) HandleForecast(c *fiber.Ctx) error {
	var q models.ForecastQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "FORECAST", err)
	}
	freq, err := forecasting.ParseFrequency(q.Freq)
	if err != nil {
		return respondError(c, "FORECAST", err)
	}
	return h.forecast(c, &q.DatasetQuery, q.Periods, freq)
}

func (h *Handler) forecast(c *fiber.Ctx, q *models.DatasetQuery, periods int, freq forecasting.Frequency) error {
	table, file, err := h.loadDataset(c, q)
	if err != nil {
		return respondError(c, "FORECAST", err)
	}

	log.Info().Str("id", file.ID).Int("periods", periods).Str("freq", freq.String()).Msg("📈 [FORECAST] Request")

	start := time.Now()
	records, err := forecasting.NewPipeline(table, q.DateCol, q.SalesCol, h.params).Forecast(periods, freq)
	if err != nil {
		return respondError(c, "FORECAST", err)
	}
	h.observe("forecast", start)

	log.Info().Str("id", file.ID).Int("records", len(records)).Dur("took", time.Since(start)).Msg("✅ [FORECAST] Done")
	return c.JSON(fiber.Map{"success": true, "data": models.ForecastResponse{
		FileID:    file.ID,
		Frequency: freq.String(),
		Periods:   periods,
		Forecast:  records,
	}})
}

// HandleEvaluate trains on the oldest 80% of lag rows and scores the rest.
// GET /api/v1/forecast/evaluate?_id=
func (h *Handler) HandleEvaluate(c *fiber.Ctx) error {
	var q models.DatasetQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "EVALUATE", err)
	}
	table, file, err := h.loadDataset(c, &q)
	if err != nil {
		return respondError(c, "EVALUATE", err)
	}

	start := time.Now()
	eval, err := forecasting.NewPipeline(table, q.DateCol, q.SalesCol, h.params).Evaluate()
	if err != nil {
		return respondError(c, "EVALUATE", err)
	}
	h.observe("evaluate", start)

	log.Info().Str("id", file.ID).Float64("rmse", eval.RMSE).Int("test_rows", len(eval.Predictions)).Msg("✅ [EVALUATE] Done")
	return c.JSON(fiber.Map{"success": true, "data": models.EvaluationResponse{FileID: file.ID, Evaluation: eval}})
}

// HandleForecastInsight forecasts, evaluates and asks Gemini to explain the
// result.
// GET /api/v1/forecast/insight?_id=&periods=&freq=
func (h *Handler) HandleForecastInsight(c *fiber.Ctx) error {
	if h.summarizer == nil {
		return respondError(c, "INSIGHT", insight.ErrDisabled)
	}

	var q models.ForecastQuery
	if c.Query("periods") == "" {
		q.Periods = 7
	}
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "INSIGHT", err)
	}
	freq, err := forecasting.ParseFrequency(q.Freq)
	if err != nil {
		return respondError(c, "INSIGHT", err)
	}

	table, file, err := h.loadDataset(c, &q.DatasetQuery)
	if err != nil {
		return respondError(c, "INSIGHT", err)
	}

	start := time.Now()
	outlook, err := forecasting.NewPipeline(table, q.DateCol, q.SalesCol, h.params).Outlook(q.Periods, freq)
	if err != nil {
		return respondError(c, "INSIGHT", err)
	}
	h.observe("insight", start)

	rmse := outlook.Evaluation.RMSE
	narrative, err := h.summarizer.Summarize(c.UserContext(), insight.Request{
		DatasetName: file.Name,
		History:     outlook.History,
		Forecast:    outlook.Forecast,
		Frequency:   freq,
		RMSE:        &rmse,
		Today:       time.Now(),
	})
	if err != nil {
		return respondError(c, "INSIGHT", err)
	}

	log.Info().Str("id", file.ID).Msg("🤖 [INSIGHT] Generated")
	return c.JSON(fiber.Map{"success": true, "data": models.ForecastInsightResponse{
		ForecastResponse: models.ForecastResponse{
			FileID:    file.ID,
			Frequency: freq.String(),
			Periods:   q.Periods,
			Forecast:  outlook.Forecast,
		},
		RMSE:    &rmse,
		Insight: narrative,
	}})
}
