// Package schema defines the input records and star-schema tables of the
// sparkify data lake.
package schema

import "time"

// NextSongPage is the single page value that marks a song play. Every other
// page (Home, Login, Logout, ...) is discarded before any transformation.
const NextSongPage = "NextSong"

// FileFormat represents the output file format.
type FileFormat string

const (
	FormatParquet FileFormat = "parquet"
	FormatAvro    FileFormat = "avro"
)

// Song is one record of the song dataset, one JSON object per file.
// Pointer fields tolerate records where a field is absent or null; schema
// presence is not validated beyond what decoding implies.
type Song struct {
	NumSongs        *int64   `json:"num_songs"`
	ArtistID        string   `json:"artist_id"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	ArtistLocation  string   `json:"artist_location"`
	ArtistName      string   `json:"artist_name"`
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	Duration        float64  `json:"duration"`
	Year            int32    `json:"year"`
}

// PlayEvent is one record of the activity log dataset, newline-delimited JSON.
type PlayEvent struct {
	Artist        *string  `json:"artist"`
	Auth          string   `json:"auth"`
	FirstName     *string  `json:"firstName"`
	Gender        *string  `json:"gender"`
	ItemInSession int64    `json:"itemInSession"`
	LastName      *string  `json:"lastName"`
	Length        *float64 `json:"length"`
	Level         string   `json:"level"`
	Location      *string  `json:"location"`
	Method        string   `json:"method"`
	Page          string   `json:"page"`
	Registration  *float64 `json:"registration"`
	SessionID     int64    `json:"sessionId"`
	Song          *string  `json:"song"`
	Status        int64    `json:"status"`
	TS            *int64   `json:"ts"`
	UserAgent     *string  `json:"userAgent"`
	UserID        string   `json:"userId"`
}

// StartTime converts the millisecond epoch timestamp to a UTC timestamp,
// truncating sub-second precision. Returns false when ts is absent.
func (e *PlayEvent) StartTime() (time.Time, bool) {
	if e.TS == nil {
		return time.Time{}, false
	}
	return time.Unix(*e.TS/1000, 0).UTC(), true
}

// SongRow is one row of the songs dimension table.
type SongRow struct {
	SongID   string  `parquet:"song_id,dict"`
	Title    string  `parquet:"title,dict"`
	ArtistID string  `parquet:"artist_id,dict"`
	Year     int32   `parquet:"year"`
	Duration float64 `parquet:"duration"`
}

// ArtistRow is one row of the artists dimension table. Latitude and longitude
// are optional; many artists carry no coordinates.
type ArtistRow struct {
	ArtistID  string   `parquet:"artist_id,dict"`
	Name      string   `parquet:"artist_name,dict"`
	Location  string   `parquet:"artist_location,dict"`
	Latitude  *float64 `parquet:"artist_latitude,optional"`
	Longitude *float64 `parquet:"artist_longitude,optional"`
}

// UserRow is one row of the users dimension table. Distinctness is over the
// full row, so a user whose level changed mid-log produces one row per level.
type UserRow struct {
	UserID    string `parquet:"userId,dict"`
	FirstName string `parquet:"firstName,dict"`
	LastName  string `parquet:"lastName,dict"`
	Gender    string `parquet:"gender,dict"`
	Level     string `parquet:"level,dict"`
}

// TimeRow is one row of the time dimension table. Weekday duplicates Day;
// downstream consumers depend on the duplicated column, so it stays.
type TimeRow struct {
	StartTime time.Time `parquet:"start_time,timestamp(microsecond)"`
	Hour      int32     `parquet:"hour"`
	Day       int32     `parquet:"day"`
	Week      int32     `parquet:"week"`
	Month     int32     `parquet:"month"`
	Year      int32     `parquet:"year"`
	Weekday   int32     `parquet:"weekday"`
}

// SongplayRow is one row of the songplays fact table. SongplayID is assigned
// by row numbering over the join result and is unique only within a run.
// StartTime is null when the source event carried no timestamp; only the time
// table drops such rows.
type SongplayRow struct {
	SongplayID int64      `parquet:"songplay_id"`
	StartTime  *time.Time `parquet:"start_time,timestamp(microsecond),optional"`
	UserID     string     `parquet:"userId,dict"`
	Level      string     `parquet:"level,dict"`
	SongID     string     `parquet:"song_id,dict"`
	ArtistID   string     `parquet:"artist_id,dict"`
	SessionID  int64      `parquet:"sessionId"`
	Location   string     `parquet:"artist_location,dict"`
	UserAgent  string     `parquet:"userAgent,dict"`
}
