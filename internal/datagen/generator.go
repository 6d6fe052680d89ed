// Package datagen generates fake song and activity-log datasets for
// local-mode runs.
package datagen

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jaswdr/faker"

	"github.com/jittakal/sparkifylake/pkg/schema"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var userAgents = []string{
	`"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_4) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/36.0.1985.125 Safari/537.36"`,
	`"Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/36.0.1985.143 Safari/537.36"`,
	`Mozilla/5.0 (Windows NT 6.1; rv:31.0) Gecko/20100101 Firefox/31.0`,
	`"Mozilla/5.0 (iPhone; CPU iPhone OS 7_1_2 like Mac OS X) AppleWebKit/537.51.2 (KHTML, like Gecko) Version/7.0 Mobile/11D257 Safari/9537.53"`,
	`Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/36.0.1985.125 Safari/537.36`,
}

var otherPages = []string{"Home", "Roll Advert", "Logout", "Login", "Downgrade"}

// Generator generates fake sparkify datasets. The same seed reproduces the
// same dataset.
type Generator struct {
	faker  faker.Faker
	rand   *rand.Rand
	logger *slog.Logger
}

// NewGenerator creates a new dataset generator.
func NewGenerator(seed int64, logger *slog.Logger) *Generator {
	return &Generator{
		faker:  faker.NewWithSeed(rand.NewSource(seed)),
		rand:   rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Songs generates n catalog records.
func (g *Generator) Songs(n int) []schema.Song {
	songs := make([]schema.Song, 0, n)
	for i := 0; i < n; i++ {
		one := int64(1)
		song := schema.Song{
			NumSongs:       &one,
			ArtistID:       g.id("AR"),
			ArtistLocation: g.faker.Address().City(),
			ArtistName:     g.faker.Person().Name(),
			SongID:         g.id("SO"),
			Title:          g.faker.Lorem().Sentence(3),
			Duration:       50 + g.rand.Float64()*400,
			Year:           int32(1960 + g.rand.Intn(60)),
		}
		// Roughly a third of artists carry no coordinates, like the real
		// dataset.
		if g.rand.Intn(3) > 0 {
			lat := g.rand.Float64()*180 - 90
			lon := g.rand.Float64()*360 - 180
			song.ArtistLatitude = &lat
			song.ArtistLongitude = &lon
		}
		songs = append(songs, song)
	}
	return songs
}

// Events generates n activity-log records. Most are NextSong plays, and most
// plays reference a generated catalog song so the fact-table join produces
// rows; the rest reference unknown titles and drop out of the join.
func (g *Generator) Events(songs []schema.Song, n int, start time.Time) []schema.PlayEvent {
	users := g.users(1 + n/20)

	events := make([]schema.PlayEvent, 0, n)
	ts := start
	for i := 0; i < n; i++ {
		ts = ts.Add(time.Duration(10+g.rand.Intn(240)) * time.Second)
		user := users[g.rand.Intn(len(users))]

		millis := ts.UnixMilli()
		event := schema.PlayEvent{
			Auth:          "Logged In",
			FirstName:     &user.FirstName,
			Gender:        &user.Gender,
			ItemInSession: int64(g.rand.Intn(50)),
			LastName:      &user.LastName,
			Level:         user.Level,
			Method:        "PUT",
			Page:          schema.NextSongPage,
			SessionID:     int64(g.rand.Intn(1000)),
			Status:        200,
			TS:            &millis,
			UserAgent:     &userAgents[g.rand.Intn(len(userAgents))],
			UserID:        user.UserID,
		}

		if g.rand.Intn(10) < 7 {
			if g.rand.Intn(10) < 8 && len(songs) > 0 {
				song := songs[g.rand.Intn(len(songs))]
				event.Song = &song.Title
				event.Artist = &song.ArtistName
				event.Length = &song.Duration
			} else {
				title := g.faker.Lorem().Sentence(2)
				artist := g.faker.Person().Name()
				length := 50 + g.rand.Float64()*400
				event.Song = &title
				event.Artist = &artist
				event.Length = &length
			}
		} else {
			event.Page = otherPages[g.rand.Intn(len(otherPages))]
			event.Method = "GET"
		}

		events = append(events, event)
	}
	return events
}

// WriteDataset writes songs and events under dir in the layout the ETL job
// reads: song_data/<a>/<b>/<c>/<id>.json and log_data/<date>-events.json.
func (g *Generator) WriteDataset(dir string, songs []schema.Song, events []schema.PlayEvent) error {
	for _, song := range songs {
		id := song.SongID
		path := filepath.Join(dir, "song_data",
			id[2:3], id[3:4], id[4:5], id+".json")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create song directory: %w", err)
		}
		data, err := json.Marshal(song)
		if err != nil {
			return fmt.Errorf("failed to marshal song %s: %w", id, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write song file: %w", err)
		}
	}

	logDir := filepath.Join(dir, "log_data")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// One file per calendar day, like the real dataset.
	byDay := make(map[string][]schema.PlayEvent)
	var days []string
	for _, event := range events {
		day := "unknown"
		if start, ok := event.StartTime(); ok {
			day = start.Format("2006-01-02")
		}
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], event)
	}

	for _, day := range days {
		path := filepath.Join(logDir, day+"-events.json")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		enc := json.NewEncoder(file)
		for _, event := range byDay[day] {
			if err := enc.Encode(event); err != nil {
				file.Close()
				return fmt.Errorf("failed to write log record: %w", err)
			}
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
	}

	g.logger.Info("wrote dataset",
		"dir", dir,
		"songs", len(songs),
		"events", len(events),
	)
	return nil
}

type fakeUser struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

func (g *Generator) users(n int) []fakeUser {
	users := make([]fakeUser, 0, n)
	for i := 0; i < n; i++ {
		gender := "F"
		if g.rand.Intn(2) == 0 {
			gender = "M"
		}
		level := "free"
		if g.rand.Intn(4) == 0 {
			level = "paid"
		}
		users = append(users, fakeUser{
			UserID:    fmt.Sprintf("%d", 1+g.rand.Intn(500)),
			FirstName: g.faker.Person().FirstName(),
			LastName:  g.faker.Person().LastName(),
			Gender:    gender,
			Level:     level,
		})
	}
	return users
}

// id builds a catalog identifier: a two-letter prefix and sixteen characters
// from the track-id alphabet.
func (g *Generator) id(prefix string) string {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = idAlphabet[g.rand.Intn(len(idAlphabet))]
	}
	return prefix + string(buf)
}
