package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"salescast/config"
	"salescast/database"
	"salescast/eda"
	"salescast/forecasting"
	"salescast/insight"
	"salescast/middleware"
	"salescast/models"
	"salescast/tabular"
	"salescast/utils"
)

var (
	errEmptyFile       = errors.New("file content is empty")
	errUnreadableTable = errors.New("unreadable table")
)

// Handler serves the HTTP API. It holds only dependencies that are safe to
// share between requests.
type Handler struct {
	store      database.FileStore
	cfg        *config.Config
	summarizer insight.Summarizer
	metrics    *middleware.Metrics
	params     forecasting.Params
}

// New wires a Handler. metrics may be nil.
func New(store database.FileStore, cfg *config.Config, summarizer insight.Summarizer, metrics *middleware.Metrics) *Handler {
	return &Handler{
		store:      store,
		cfg:        cfg,
		summarizer: summarizer,
		metrics:    metrics,
		params:     forecasting.DefaultParams(),
	}
}

// parseQuery fills q from the query string and validates it.
func parseQuery(c *fiber.Ctx, q interface{}) error {
	if err := c.QueryParser(q); err != nil {
		return utils.ValidationErrors{{Field: "query", Message: err.Error()}}
	}
	return utils.ValidateStruct(q)
}

// loadDataset fetches the stored file named by q and parses it into a table.
// Column hints left empty fall back to the configured defaults.
func (h *Handler) loadDataset(c *fiber.Ctx, q *models.DatasetQuery) (*tabular.Table, *models.CSVFile, error) {
	if q.DateCol == "" {
		q.DateCol = h.cfg.DefaultDateColumn
	}
	if q.SalesCol == "" {
		q.SalesCol = h.cfg.DefaultSalesColumn
	}
	if q.TimeCol == "" {
		q.TimeCol = h.cfg.DefaultTimeColumn
	}

	file, err := h.store.FindFile(c.UserContext(), q.FileID)
	if err != nil {
		return nil, nil, err
	}
	if len(file.Data) == 0 {
		return nil, nil, errEmptyFile
	}

	table, err := tabular.Read(file.Data)
	if err != nil {
		if errors.Is(err, tabular.ErrEmptyTable) {
			return nil, nil, errEmptyFile
		}
		return nil, nil, fmt.Errorf("%w: %v", errUnreadableTable, err)
	}
	return table, file, nil
}

func (h *Handler) observe(operation string, start time.Time) {
	if h.metrics != nil {
		h.metrics.ObservePipeline(operation, time.Since(start))
	}
}

// respondError maps an error to a status code and writes the JSON envelope.
func respondError(c *fiber.Ctx, tag string, err error) error {
	var verrs utils.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request", "errors": verrs})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, database.ErrFileNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errEmptyFile),
		errors.Is(err, errUnreadableTable),
		errors.Is(err, tabular.ErrMissingColumn),
		errors.Is(err, forecasting.ErrUnparseableDate),
		errors.Is(err, forecasting.ErrNonNumericSales),
		errors.Is(err, forecasting.ErrInvalidPeriods),
		errors.Is(err, forecasting.ErrUnknownFrequency),
		errors.Is(err, eda.ErrNonNumeric),
		errors.Is(err, eda.ErrInvalidBins):
		status = fiber.StatusBadRequest
	case errors.Is(err, forecasting.ErrInsufficientData):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, insight.ErrDisabled):
		status = fiber.StatusServiceUnavailable
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Msgf("❌ [%s] request failed", tag)
		message := "Internal server error"
		if status == fiber.StatusServiceUnavailable {
			message = err.Error()
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
	}

	log.Warn().Err(err).Int("status", status).Msgf("⚠️  [%s] request rejected", tag)
	return c.Status(status).JSON(fiber.Map{"success": false, "message": err.Error()})
}
