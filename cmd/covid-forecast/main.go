package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paulirish/covid-data-model/internal/config"
	logpkg "github.com/paulirish/covid-data-model/internal/logger"
	"github.com/paulirish/covid-data-model/internal/models"
	"github.com/paulirish/covid-data-model/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	province := flag.String("province", cfg.Forecast.ProvinceState, "Province/State of the region to forecast (empty for country-level rows)")
	country := flag.String("country", cfg.Forecast.CountryRegion, "Country/Region of the region to forecast")
	iterations := flag.Int("iterations", cfg.Forecast.Iterations, "Number of forecast steps")
	out := flag.String("out", cfg.Report.OutputPath, "Output path (.csv or .xlsx)")
	today := flag.String("today", cfg.Forecast.Today, "Last date with published data, YYYY-MM-DD (default: now minus the data lag)")
	flag.Parse()

	cfg.Report.OutputPath = *out

	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "covid-forecast")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Debug("No .env file loaded, using environment variables", zap.Error(envErr))
	}

	svc, err := service.NewForecastService(cfg, log)
	if err != nil {
		log.Error("Failed to create forecast service", zap.Error(err))
		os.Exit(1)
	}

	if err := run(svc, log, models.Region{ProvinceState: *province, CountryRegion: *country}, *iterations, *today); err != nil {
		log.Error("Forecast failed", zap.Error(err))
		svc.Close()
		log.Sync()
		os.Exit(1)
	}

	if err := svc.Close(); err != nil {
		log.Error("Error closing service", zap.Error(err))
	}
}

func run(svc *service.ForecastService, log *zap.Logger, region models.Region, iterations int, todayFlag string) error {
	today, err := svc.Today(todayFlag)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		_, err := svc.Run(ctx, region, iterations, today)
		errChan <- err
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
		return <-errChan
	case err := <-errChan:
		return err
	}
}
