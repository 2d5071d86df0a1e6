package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/loan-amortization/internal/config"
	"github.com/iwvelando/loan-amortization/internal/logging"
	"github.com/iwvelando/loan-amortization/internal/schedule"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/output"
	"github.com/iwvelando/loan-amortization/pkg/store"
	"github.com/iwvelando/loan-amortization/pkg/validation"
	"go.uber.org/zap"
)

const storeTimeout = 10 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	save := flag.Bool("save", false, "persist the inputs and schedule to the configured storage")
	saveKey := flag.String("key", "", "storage key override used with -save")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.OutputFormat()
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	result, err := schedule.GetSchedule(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute amortization schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range result.Warnings {
		logger.Warn(warning, zap.String("op", "main"))
	}

	if *save {
		key := conf.Storage.DefaultKey()
		if *saveKey != "" {
			key = *saveKey
		}
		if err := persist(logger, conf, key, result); err != nil {
			logger.Fatal("failed to save state",
				zap.String("op", "main"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	if err := output.Write(os.Stdout, outputFormat, result, conf.Currency); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func persist(logger *zap.Logger, conf *config.Configuration, key string, result schedule.Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	s, err := store.New(ctx, conf.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("failed to close store", zap.String("op", "main.persist"), zap.Error(err))
		}
	}()

	saved, err := store.SaveState(ctx, s, key, store.State{
		Inputs:    conf.Loan,
		Overrides: conf.Overrides,
		StartDate: conf.StartDate,
		Rows:      result.Schedule.Rows,
		Summary:   result.Summary,
	})
	if err != nil {
		return err
	}

	logger.Info("state saved",
		zap.String("op", "main.persist"),
		zap.String("key", key),
		zap.Time("savedAt", saved.SavedAt),
	)
	return nil
}
