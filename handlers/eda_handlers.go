package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"salescast/eda"
	"salescast/models"
	"salescast/tabular"
)

// HandleHistogramSales sums sales per value of every categorical column.
// GET /api/v1/histogram_sales?_id=
func (h *Handler) HandleHistogramSales(c *fiber.Ctx) error {
	var q models.DatasetQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "EDA", err)
	}
	table, _, err := h.loadDataset(c, &q)
	if err != nil {
		return respondError(c, "EDA", err)
	}
	if !table.Has(q.SalesCol) {
		return respondError(c, "EDA", fmt.Errorf("%w: %q", tabular.ErrMissingColumn, q.SalesCol))
	}

	return h.runEDA(c, "histogram_sales", table, func(a *eda.Analyzer) error {
		return a.HistogramSalesByCategory(table.CategoricalColumns(), q.SalesCol)
	})
}

// HandleSalesOverTime sums sales per value of the time column, as a line graph.
// GET /api/v1/sales_over_time?_id=&time_col=
func (h *Handler) HandleSalesOverTime(c *fiber.Ctx) error {
	return h.timeAggregate(c, "sales_over_time", (*eda.Analyzer).LineGraphSalesOverTime)
}

// HandleHistogramTime sums sales per value of the time column, as a histogram.
// GET /api/v1/eda/histogram_time?_id=&time_col=
func (h *Handler) HandleHistogramTime(c *fiber.Ctx) error {
	return h.timeAggregate(c, "histogram_time", (*eda.Analyzer).HistogramSalesByTime)
}

func (h *Handler) timeAggregate(c *fiber.Ctx, op string, run func(a *eda.Analyzer, timeCol, salesCol string) error) error {
	var q models.DatasetQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "EDA", err)
	}
	table, _, err := h.loadDataset(c, &q)
	if err != nil {
		return respondError(c, "EDA", err)
	}
	for _, col := range []string{q.TimeCol, q.SalesCol} {
		if !table.Has(col) {
			return respondError(c, "EDA", fmt.Errorf("%w: %q", tabular.ErrMissingColumn, col))
		}
	}

	return h.runEDA(c, op, table, func(a *eda.Analyzer) error {
		return run(a, q.TimeCol, q.SalesCol)
	})
}

// HandleCountPlot counts rows per value of x, optionally split by hue.
// GET /api/v1/eda/countplot?_id=&x=&hue=
func (h *Handler) HandleCountPlot(c *fiber.Ctx) error {
	var q models.CountPlotQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "EDA", err)
	}
	table, _, err := h.loadDataset(c, &q.DatasetQuery)
	if err != nil {
		return respondError(c, "EDA", err)
	}
	return h.runEDA(c, "countplot", table, func(a *eda.Analyzer) error {
		return a.CountPlot(q.X, q.Hue)
	})
}

// HandleCrosstab tabulates two columns against each other.
// GET /api/v1/eda/crosstab?_id=&row=&col=&values=
func (h *Handler) HandleCrosstab(c *fiber.Ctx) error {
	var q models.CrosstabQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "EDA", err)
	}
	table, _, err := h.loadDataset(c, &q.DatasetQuery)
	if err != nil {
		return respondError(c, "EDA", err)
	}
	return h.runEDA(c, "crosstab", table, func(a *eda.Analyzer) error {
		return a.Crosstab(q.Row, q.Col, q.Values)
	})
}

// HandleValueCounts reports each value's share of a column.
// GET /api/v1/eda/value_counts?_id=&col=
func (h *Handler) HandleValueCounts(c *fiber.Ctx) error {
	var q models.ColumnQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "EDA", err)
	}
	table, _, err := h.loadDataset(c, &q.DatasetQuery)
	if err != nil {
		return respondError(c, "EDA", err)
	}
	return h.runEDA(c, "value_counts", table, func(a *eda.Analyzer) error {
		return a.ValueCountsNormalized(q.Col)
	})
}

// HandleAgeBins bins a numeric column and reports each bin's share.
// GET /api/v1/eda/age_bins?_id=&col=&bins=0,18,30,45,60,100&labels=0-18,19-30,31-45,46-60,61+
func (h *Handler) HandleAgeBins(c *fiber.Ctx) error {
	var q models.AgeBinsQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, "EDA", err)
	}
	if q.Col == "" {
		q.Col = "age"
	}

	edges, err := parseEdges(q.Bins)
	if err != nil {
		return respondError(c, "EDA", err)
	}
	labels := splitList(q.Labels)

	table, _, err := h.loadDataset(c, &q.DatasetQuery)
	if err != nil {
		return respondError(c, "EDA", err)
	}
	return h.runEDA(c, "age_bins", table, func(a *eda.Analyzer) error {
		return a.AgeBins(q.Col, edges, labels)
	})
}

func (h *Handler) runEDA(c *fiber.Ctx, op string, table *tabular.Table, run func(a *eda.Analyzer) error) error {
	start := time.Now()
	a := eda.New(table)
	if err := run(a); err != nil {
		return respondError(c, "EDA", err)
	}
	h.observe(op, start)

	results := a.Results()
	log.Debug().Str("operation", op).Int("results", len(results)).Msg("📊 [EDA] Computed")
	return c.JSON(fiber.Map{"success": true, "data": results})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseEdges(s string) ([]float64, error) {
	parts := splitList(s)
	edges := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bin edge %q is not a number", eda.ErrInvalidBins, p)
		}
		edges = append(edges, v)
	}
	return edges, nil
}
