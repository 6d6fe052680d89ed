// Package transform implements the relational core of the ETL job: distinct
// projections over the raw datasets, the time derivation, and the
// song/artist join that produces the fact table.
//
// The inputs are small enough to hold in memory, so the operations are plain
// slice transformations rather than calls into a query engine.
package transform

import (
	"strconv"
	"strings"
	"time"

	"github.com/jittakal/sparkifylake/pkg/schema"
)

// Distinct keys join column renderings with a NUL separator; nil fields get
// a sentinel so null and empty string stay distinguishable.
const (
	keySep  = "\x00"
	nullKey = "\x01"
)

// FilterPageViews returns the events whose page tag is exactly the NextSong
// value. Every other action type is discarded before any further processing.
func FilterPageViews(events []schema.PlayEvent) []schema.PlayEvent {
	filtered := make([]schema.PlayEvent, 0, len(events))
	for _, event := range events {
		if event.Page == schema.NextSongPage {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// Songs projects the songs dimension. Deduplication is by full-row
// distinctness; two records sharing a song_id but differing elsewhere both
// survive.
func Songs(songs []schema.Song) []schema.SongRow {
	seen := make(map[string]struct{}, len(songs))
	rows := make([]schema.SongRow, 0, len(songs))
	for _, song := range songs {
		row := schema.SongRow{
			SongID:   song.SongID,
			Title:    song.Title,
			ArtistID: song.ArtistID,
			Year:     song.Year,
			Duration: song.Duration,
		}
		key := strings.Join([]string{
			row.SongID,
			row.Title,
			row.ArtistID,
			strconv.FormatInt(int64(row.Year), 10),
			strconv.FormatFloat(row.Duration, 'g', -1, 64),
		}, keySep)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	return rows
}

// Artists projects the artists dimension with the same full-row
// deduplication caveat as Songs.
func Artists(songs []schema.Song) []schema.ArtistRow {
	seen := make(map[string]struct{}, len(songs))
	rows := make([]schema.ArtistRow, 0, len(songs))
	for _, song := range songs {
		row := schema.ArtistRow{
			ArtistID:  song.ArtistID,
			Name:      song.ArtistName,
			Location:  song.ArtistLocation,
			Latitude:  song.ArtistLatitude,
			Longitude: song.ArtistLongitude,
		}
		key := strings.Join([]string{
			row.ArtistID,
			row.Name,
			row.Location,
			floatKey(row.Latitude),
			floatKey(row.Longitude),
		}, keySep)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	return rows
}

// Users projects the users dimension from filtered events. Distinctness is
// over the full row: a user whose level changed across events keeps one row
// per level.
func Users(events []schema.PlayEvent) []schema.UserRow {
	seen := make(map[schema.UserRow]struct{}, len(events))
	rows := make([]schema.UserRow, 0, len(events))
	for _, event := range events {
		row := schema.UserRow{
			UserID:    event.UserID,
			FirstName: stringValue(event.FirstName),
			LastName:  stringValue(event.LastName),
			Gender:    stringValue(event.Gender),
			Level:     event.Level,
		}
		if _, ok := seen[row]; ok {
			continue
		}
		seen[row] = struct{}{}
		rows = append(rows, row)
	}
	return rows
}

// Times derives the time dimension from filtered events. Events with no
// timestamp are dropped; everything else produces one row per event, with no
// deduplication. Weekday duplicates Day.
func Times(events []schema.PlayEvent) []schema.TimeRow {
	rows := make([]schema.TimeRow, 0, len(events))
	for _, event := range events {
		start, ok := event.StartTime()
		if !ok {
			continue
		}
		_, week := start.ISOWeek()
		day := dayOfWeek(start)
		rows = append(rows, schema.TimeRow{
			StartTime: start,
			Hour:      int32(start.Hour()),
			Day:       day,
			Week:      int32(week),
			Month:     int32(start.Month()),
			Year:      int32(start.Year()),
			Weekday:   day,
		})
	}
	return rows
}

// Songplays produces the fact table: an inner join of filtered events against
// the song catalog on (song title, artist name), with a monotonically
// increasing identifier assigned per output row. Events with no catalog match
// produce no row.
func Songplays(events []schema.PlayEvent, songs []schema.Song) []schema.SongplayRow {
	type joinKey struct {
		title  string
		artist string
	}

	catalog := make(map[joinKey][]schema.Song, len(songs))
	for _, song := range songs {
		key := joinKey{title: song.Title, artist: song.ArtistName}
		catalog[key] = append(catalog[key], song)
	}

	var rows []schema.SongplayRow
	var nextID int64
	for _, event := range events {
		if event.Song == nil || event.Artist == nil {
			continue
		}
		matches := catalog[joinKey{title: *event.Song, artist: *event.Artist}]
		for _, song := range matches {
			var startTime *time.Time
			if start, ok := event.StartTime(); ok {
				startTime = &start
			}
			rows = append(rows, schema.SongplayRow{
				SongplayID: nextID,
				StartTime:  startTime,
				UserID:     event.UserID,
				Level:      event.Level,
				SongID:     song.SongID,
				ArtistID:   song.ArtistID,
				SessionID:  event.SessionID,
				Location:   song.ArtistLocation,
				UserAgent:  stringValue(event.UserAgent),
			})
			nextID++
		}
	}
	return rows
}

// dayOfWeek returns the Spark dayofweek numbering: 1=Sunday .. 7=Saturday.
func dayOfWeek(t time.Time) int32 {
	return int32(t.Weekday()) + 1
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatKey(f *float64) string {
	if f == nil {
		return nullKey
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}
