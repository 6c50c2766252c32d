package routes

import (
	"salescast/handlers"
	"salescast/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler, jwtSecret []byte, metrics *middleware.Metrics) {
	// --- Operational Routes ---
	app.Get("/health", h.HandleHealth)
	app.Get("/version", handlers.HandleVersion)
	if metrics != nil {
		app.Get("/metrics", metrics.Exposition())
	}

	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", h.HandleLogin)

	authenticated := api.Group("", middleware.Authenticate(jwtSecret))

	// --- Datasets ---
	authenticated.Post("/files", middleware.AdminRequired, h.HandleUploadFile)
	authenticated.Get("/files", h.HandleListFiles)

	// --- Exploratory Analysis ---
	authenticated.Get("/histogram_sales", h.HandleHistogramSales)
	authenticated.Get("/sales_over_time", h.HandleSalesOverTime)

	edaGroup := authenticated.Group("/eda")
	edaGroup.Get("/countplot", h.HandleCountPlot)
	edaGroup.Get("/crosstab", h.HandleCrosstab)
	edaGroup.Get("/value_counts", h.HandleValueCounts)
	edaGroup.Get("/age_bins", h.HandleAgeBins)
	edaGroup.Get("/histogram_time", h.HandleHistogramTime)

	// --- Forecasting ---
	forecast := authenticated.Group("/forecast")
	forecast.Get("/next_week", h.HandleForecastNextWeek)
	forecast.Get("/next_month", h.HandleForecastNextMonth)
	forecast.Get("/next_year", h.HandleForecastNextYear)
	forecast.Get("/evaluate", h.HandleEvaluate)
	forecast.Get("/insight", h.HandleForecastInsight)
	authenticated.Get("/forecast", h.HandleForecast)
}
