// Command etl builds the sparkify data lake: it reads the song and activity
// log datasets, reshapes them into a five-table star schema, and writes the
// result as columnar files, fully overwriting any prior run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jittakal/sparkifylake/internal/config"
	"github.com/jittakal/sparkifylake/internal/lake"
	"github.com/jittakal/sparkifylake/internal/observability"
	"github.com/jittakal/sparkifylake/internal/source"
	intstorage "github.com/jittakal/sparkifylake/internal/storage"
	"github.com/jittakal/sparkifylake/pkg/schema"
	"github.com/jittakal/sparkifylake/pkg/storage"
)

// The two fixed location pairs. Local mode resolves relative to the working
// directory; remote mode reads and writes the udacity-dend bucket.
const (
	localInputData  = "data/"
	localOutputData = "sparkify_data_lake/"

	remoteInputData  = "s3a://udacity-dend/"
	remoteOutputData = "s3a://udacity-dend/sparkify_data_lake/"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run() error {
	localData := flag.Bool("local", true, "read and write local directories instead of S3")
	credentialsPath := flag.String("config", "dl.cfg", "path to the credentials file")
	appConfigPath := flag.String("app-config", "", "path to optional application configuration")
	flag.Parse()

	loader := config.NewLoader()
	cfg, err := loader.Load(*appConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Credentials are required in both modes; a missing file or key is fatal.
	creds, err := config.LoadCredentials(*credentialsPath)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	}).With("run_id", uuid.NewString())

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	if cfg.Observability.Metrics.Enabled {
		addr := fmt.Sprintf(":%d", cfg.Observability.Metrics.Port)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
		logger.Info("metrics server started", "addr", addr)
	}

	ctx := context.Background()

	var (
		src     storage.Source
		sink    storage.Sink
		backend string
	)
	if *localData {
		src = source.NewFileSource(localInputData, logger)
		sink, err = intstorage.NewFileSink(localOutputData, logger, metrics)
		if err != nil {
			return err
		}
		backend = "file"
	} else {
		client, err := intstorage.NewS3Client(ctx, cfg.AWS.Region, creds.AccessKeyID, creds.SecretAccessKey)
		if err != nil {
			return err
		}
		inBucket, inPrefix, err := intstorage.ParseS3URL(remoteInputData)
		if err != nil {
			return err
		}
		outBucket, outPrefix, err := intstorage.ParseS3URL(remoteOutputData)
		if err != nil {
			return err
		}
		src = source.NewS3Source(client, inBucket, inPrefix, logger)
		sink = intstorage.NewS3Sink(client, outBucket, outPrefix, logger, metrics)
		backend = "s3"
	}
	defer sink.Close()

	logger.Info("starting sparkify data lake etl",
		"version", cfg.Application.Version,
		"environment", cfg.Application.Environment,
		"backend", backend,
		"format", cfg.Storage.Format,
	)

	job := lake.NewJob(
		src,
		sink,
		backend,
		schema.FileFormat(cfg.Storage.Format),
		cfg.Storage.Compression,
		logger,
		metrics,
	)
	if err := job.Run(ctx); err != nil {
		return err
	}

	logger.Info("etl run complete")
	return nil
}
