package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tidyserve/internal/api"
	"tidyserve/internal/charts"
	"tidyserve/internal/config"
	"tidyserve/internal/engine"
	"tidyserve/internal/models"
	"tidyserve/internal/table"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	// 1. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// 2. Initialize Handler with NIL data
	// The API is live immediately but answers 503 until the ETL lands
	h := api.NewHandler(logger)
	h.RegisterRoutes(e)

	// 3. Launch ETL in Background
	go func() {
		logger.Info("starting ETL pipeline", "data_file", cfg.DataFile)
		t0 := time.Now()

		dataset, err := buildDataset(cfg)
		if err != nil {
			logger.Error("ETL failed, API stays in loading state", "error", err)
			return
		}

		h.SetData(dataset)
		logger.Info("ETL complete, API fully ready", "elapsed", time.Since(t0))
	}()

	// 4. Start Server (This happens immediately, <2ms)
	logger.Info("server ready, data loading in background", "addr", cfg.Addr)
	e.Logger.Fatal(e.Start(cfg.Addr))
}

// buildDataset runs the pipeline: wide CSV -> melt -> encoded store ->
// grouped summary + chart configs. Everything downstream of Melt keys
// on the schema's field labels.
func buildDataset(cfg *config.Config) (*api.Dataset, error) {
	start := time.Now()

	schema, err := config.LoadSchema(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}

	wide, err := engine.LoadWide(cfg.DataFile)
	if err != nil {
		return nil, err
	}

	long, err := table.Melt(wide, schema.Labels, schema.Rename)
	if err != nil {
		return nil, err
	}

	store := engine.NewLongStore(long)

	return &api.Dataset{
		Info: models.DatasetInfo{
			ID:           uuid.NewString(),
			Source:       cfg.DataFile,
			Labels:       long.Labels,
			Rows:         wide.NumRows(),
			Variables:    wide.NumColumns(),
			Observations: long.Len(),
			LoadedAt:     time.Now(),
			LoadMillis:   time.Since(start).Milliseconds(),
		},
		Long:    long,
		Summary: store.Summarize(),
		Box:     charts.BuildBox(store, "Distribution by "+long.Labels.Variable),
		Point:   charts.BuildPoint(store, "Mean "+long.Labels.Value+" by "+long.Labels.Variable),
		Swarm:   charts.BuildSwarm(store, "Observations by "+long.Labels.Variable),
	}, nil
}
