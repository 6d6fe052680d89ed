// Command datagen writes a fake sparkify dataset for local-mode ETL runs:
// a nested song_data/ catalog tree and daily log_data/ activity files.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/jittakal/sparkifylake/internal/datagen"
	"github.com/jittakal/sparkifylake/internal/observability"
)

func main() {
	out := flag.String("out", "data", "output directory for the generated dataset")
	songs := flag.Int("songs", 100, "number of catalog songs to generate")
	events := flag.Int("events", 2000, "number of log events to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	start := flag.String("start", "2018-11-01T00:00:00Z", "timestamp of the first event (RFC 3339)")
	flag.Parse()

	logger := observability.NewLogger(observability.LoggingConfig{Level: "info", Format: "text"})

	firstEvent, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		log.Fatalf("invalid -start value: %v", err)
	}

	generator := datagen.NewGenerator(*seed, logger)
	catalog := generator.Songs(*songs)
	logs := generator.Events(catalog, *events, firstEvent)

	if err := generator.WriteDataset(*out, catalog, logs); err != nil {
		log.Fatalf("failed to write dataset: %v", err)
	}
}
