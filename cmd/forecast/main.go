package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"salescast/database"
	"salescast/forecasting"
	"salescast/tabular"
	"salescast/utils"
)

type output struct {
	Frequency  string                       `json:"frequency"`
	Forecast   []forecasting.ForecastRecord `json:"forecast"`
	Evaluation *forecasting.Evaluation      `json:"evaluation,omitempty"`
}

func main() {
	file := flag.String("file", "", "CSV or XLSX dataset to read")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "document store URL, used with -id instead of -file")
	id := flag.String("id", "", "stored dataset id")
	dateCol := flag.String("date-col", "date", "date column")
	salesCol := flag.String("sales-col", "sales", "sales column")
	periods := flag.Int("periods", 7, "number of periods to forecast")
	freq := flag.String("freq", "D", "forecast frequency: D, W, M or Y")
	evaluate := flag.Bool("evaluate", false, "also report RMSE on the most recent 20% of days")
	quiet := flag.Bool("q", false, "no progress bar")
	flag.Parse()

	utils.InitLogger("info", true)

	if *file == "" && *id == "" {
		log.Fatal().Msg("Usage: forecast -file sales.csv [-periods 7] [-freq D] [-evaluate]  or  forecast -dsn URL -id UUID ...")
	}

	data, err := load(*file, *dsn, *id)
	if err != nil {
		log.Fatal().Err(err).Msg("load dataset")
	}
	table, err := tabular.Read(data)
	if err != nil {
		log.Fatal().Err(err).Msg("parse dataset")
	}
	f, err := forecasting.ParseFrequency(*freq)
	if err != nil {
		log.Fatal().Err(err).Msg("frequency")
	}

	params := forecasting.DefaultParams()
	if !*quiet {
		var bar *progressbar.ProgressBar
		params.OnRound = func(round, total int) {
			if round == 1 {
				bar = progressbar.Default(int64(total), "training")
			}
			_ = bar.Add(1)
		}
	}

	start := time.Now()
	pipeline := forecasting.NewPipeline(table, *dateCol, *salesCol, params)

	out := output{Frequency: f.String()}
	if *evaluate {
		if out.Evaluation, err = pipeline.Evaluate(); err != nil {
			log.Fatal().Err(err).Msg("evaluate")
		}
		log.Info().Float64("rmse", out.Evaluation.RMSE).Int("test_rows", len(out.Evaluation.Predictions)).Msg("[EVALUATE] done")
	}
	if out.Forecast, err = pipeline.Forecast(*periods, f); err != nil {
		log.Fatal().Err(err).Msg("forecast")
	}
	log.Info().Int("records", len(out.Forecast)).Dur("took", time.Since(start)).Msg("[FORECAST] done")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("write output")
	}
}

func load(path, dsn, id string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	if dsn == "" {
		return nil, fmt.Errorf("-dsn (or DATABASE_URL) is required with -id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	f, err := store.FindFile(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.Data, nil
}
