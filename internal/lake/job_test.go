package lake

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jittakal/sparkifylake/internal/observability"
	"github.com/jittakal/sparkifylake/internal/source"
	intstorage "github.com/jittakal/sparkifylake/internal/storage"
	"github.com/jittakal/sparkifylake/pkg/schema"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func writeNDJSON(t *testing.T, path string, records []map[string]interface{}) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
}

func playRecord(page, userID, firstName, level string, session int64, ts interface{}, song, artist interface{}) map[string]interface{} {
	return map[string]interface{}{
		"artist":        artist,
		"auth":          "Logged In",
		"firstName":     firstName,
		"gender":        "F",
		"itemInSession": 0,
		"lastName":      "Doe",
		"length":        200.0,
		"level":         level,
		"location":      "Memphis, TN",
		"method":        "PUT",
		"page":          page,
		"registration":  1.540344794796e12,
		"sessionId":     session,
		"song":          song,
		"status":        200,
		"ts":            ts,
		"userAgent":     "Mozilla/5.0",
		"userId":        userID,
	}
}

// writeFixtures lays out the input dataset the way a real run sees it: one
// JSON object per song file three levels deep, newline-delimited log events.
func writeFixtures(t *testing.T, inputDir string) {
	t.Helper()

	one := int64(1)
	lat := 35.1
	lon := -90.0
	writeJSON(t, filepath.Join(inputDir, "song_data", "A", "B", "C", "SOAAAAA.json"), schema.Song{
		NumSongs: &one, ArtistID: "E1", ArtistLatitude: &lat, ArtistLongitude: &lon,
		ArtistLocation: "Memphis", ArtistName: "Band A",
		SongID: "S1", Title: "Song A", Duration: 200.0, Year: 2000,
	})
	writeJSON(t, filepath.Join(inputDir, "song_data", "A", "B", "D", "SOBBBBB.json"), schema.Song{
		NumSongs: &one, ArtistID: "E2",
		ArtistLocation: "", ArtistName: "Band B",
		SongID: "S2", Title: "Song B", Duration: 150.5, Year: 0,
	})

	// Five events: two matched plays with timestamps, one matched play with a
	// null timestamp, one unmatched play, one non-play page view.
	writeNDJSON(t, filepath.Join(inputDir, "log_data", "2018-11-05-events.json"), []map[string]interface{}{
		playRecord("NextSong", "7", "Jo", "free", 100, int64(1541439200999), "Song A", "Band A"),
		playRecord("NextSong", "8", "Al", "paid", 101, int64(1541439260000), "Song B", "Band B"),
		playRecord("NextSong", "7", "Jo", "free", 100, nil, "Song A", "Band A"),
		playRecord("NextSong", "9", "Vi", "free", 102, int64(1541439320000), "Unknown Song", "Nobody"),
		playRecord("Home", "7", "Jo", "free", 100, int64(1541439380000), nil, nil),
	})
}

func newTestJob(t *testing.T, inputDir, outputDir string) *Job {
	t.Helper()

	logger := testLogger()
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	src := source.NewFileSource(inputDir, logger)
	sink, err := intstorage.NewFileSink(outputDir, logger, metrics)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	t.Cleanup(func() { sink.Close() })

	return NewJob(src, sink, "file", schema.FormatParquet, "", logger, metrics)
}

func readTable[T any](t *testing.T, outputDir, pattern string) []T {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(outputDir, pattern))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}

	var rows []T
	for _, match := range matches {
		part, err := parquet.ReadFile[T](match)
		if err != nil {
			t.Fatalf("ReadFile %s: %v", match, err)
		}
		rows = append(rows, part...)
	}
	return rows
}

func TestJob_Run(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFixtures(t, inputDir)

	job := newTestJob(t, inputDir, outputDir)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	songs := readTable[schema.SongRow](t, outputDir, "songs_tables/year=*/artist_id=*/part_*.parquet")
	if len(songs) != 2 {
		t.Errorf("songs rows = %d, want 2", len(songs))
	}
	for _, pattern := range []string{
		"songs_tables/year=2000/artist_id=E1/part_*.parquet",
		"songs_tables/year=0/artist_id=E2/part_*.parquet",
	} {
		if matches, _ := filepath.Glob(filepath.Join(outputDir, pattern)); len(matches) != 1 {
			t.Errorf("partition %s: %d part files, want 1", pattern, len(matches))
		}
	}

	artists := readTable[schema.ArtistRow](t, outputDir, "artists_tables/part_*.parquet")
	if len(artists) != 2 {
		t.Errorf("artists rows = %d, want 2", len(artists))
	}

	users := readTable[schema.UserRow](t, outputDir, "users_tables/part_*.parquet")
	if len(users) != 3 {
		t.Errorf("users rows = %d, want 3", len(users))
	}

	// The null-timestamp play and the Home view drop out of the time table.
	times := readTable[schema.TimeRow](t, outputDir, "time_tables/part_*.parquet")
	if len(times) != 3 {
		t.Fatalf("time rows = %d, want 3", len(times))
	}
	want := time.Date(2018, 11, 5, 17, 33, 20, 0, time.UTC)
	if !times[0].StartTime.Equal(want) {
		t.Errorf("times[0].StartTime = %v, want %v", times[0].StartTime, want)
	}
	if times[0].Weekday != times[0].Day {
		t.Errorf("times[0].Weekday = %d, Day = %d, want equal", times[0].Weekday, times[0].Day)
	}

	// The unmatched play drops out of songplays; the null-timestamp matched
	// play stays, with a null start_time.
	songplays := readTable[schema.SongplayRow](t, outputDir, "songplays_tables/part_*.parquet")
	if len(songplays) != 3 {
		t.Fatalf("songplays rows = %d, want 3", len(songplays))
	}
	for i, row := range songplays {
		if row.SongplayID != int64(i) {
			t.Errorf("songplays[%d].SongplayID = %d, want %d", i, row.SongplayID, i)
		}
	}
	if songplays[0].SongID != "S1" || songplays[0].ArtistID != "E1" {
		t.Errorf("songplays[0] = %+v, want join to S1/E1", songplays[0])
	}
	if songplays[1].SongID != "S2" {
		t.Errorf("songplays[1].SongID = %q, want S2", songplays[1].SongID)
	}
	if songplays[2].StartTime != nil {
		t.Errorf("songplays[2].StartTime = %v, want nil", songplays[2].StartTime)
	}
	for _, row := range songplays {
		if row.SongID == "" {
			t.Error("unmatched play leaked into songplays")
		}
	}
}

func TestJob_RerunOverwrites(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFixtures(t, inputDir)

	job := newTestJob(t, inputDir, outputDir)
	ctx := context.Background()
	if err := job.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	// Each unpartitioned table must hold exactly one part file after the
	// second run; the overwrite replaces, it does not append.
	for _, table := range []string{"artists_tables", "users_tables", "time_tables", "songplays_tables"} {
		matches, err := filepath.Glob(filepath.Join(outputDir, table, "part_*.parquet"))
		if err != nil {
			t.Fatalf("Glob: %v", err)
		}
		if len(matches) != 1 {
			t.Errorf("%s: %d part files after rerun, want 1", table, len(matches))
		}
	}

	users := readTable[schema.UserRow](t, outputDir, "users_tables/part_*.parquet")
	if len(users) != 3 {
		t.Errorf("users rows after rerun = %d, want 3", len(users))
	}
}

func TestJob_EmptyInput(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	job := newTestJob(t, inputDir, outputDir)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Empty inputs still produce schema-only part files for the unpartitioned
	// tables and nothing under songs_tables.
	users := readTable[schema.UserRow](t, outputDir, "users_tables/part_*.parquet")
	if len(users) != 0 {
		t.Errorf("users rows = %d, want 0", len(users))
	}
	matches, err := filepath.Glob(filepath.Join(outputDir, "users_tables", "part_*.parquet"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("users_tables part files = %d, want 1", len(matches))
	}

	songParts, err := filepath.Glob(filepath.Join(outputDir, "songs_tables", "year=*"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(songParts) != 0 {
		t.Errorf("songs_tables partitions = %d, want 0", len(songParts))
	}
}

func TestJob_AvroFormat(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFixtures(t, inputDir)

	logger := testLogger()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	src := source.NewFileSource(inputDir, logger)
	sink, err := intstorage.NewFileSink(outputDir, logger, metrics)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer sink.Close()

	job := NewJob(src, sink, "file", schema.FormatAvro, "uncompressed", logger, metrics)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(outputDir, "users_tables", "part_*.avro"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("users_tables avro part files = %d, want 1", len(matches))
	}
}
