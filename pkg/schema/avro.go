package schema

import "time"

// AvroRow is implemented by every output table row so the Avro encoder can
// build an OCF file without reflection. Nullable fields use the goavro union
// representation (a single-entry map keyed by the member type name).
type AvroRow interface {
	// AvroSchema returns the Avro record schema as JSON.
	AvroSchema() string

	// AvroNative returns the row in goavro native form.
	AvroNative() map[string]any
}

func (r SongRow) AvroSchema() string {
	return `{
		"type": "record",
		"name": "Song",
		"namespace": "com.sparkify.lake",
		"fields": [
			{"name": "song_id", "type": "string"},
			{"name": "title", "type": "string"},
			{"name": "artist_id", "type": "string"},
			{"name": "year", "type": "int"},
			{"name": "duration", "type": "double"}
		]
	}`
}

func (r SongRow) AvroNative() map[string]any {
	return map[string]any{
		"song_id":   r.SongID,
		"title":     r.Title,
		"artist_id": r.ArtistID,
		"year":      r.Year,
		"duration":  r.Duration,
	}
}

func (r ArtistRow) AvroSchema() string {
	return `{
		"type": "record",
		"name": "Artist",
		"namespace": "com.sparkify.lake",
		"fields": [
			{"name": "artist_id", "type": "string"},
			{"name": "artist_name", "type": "string"},
			{"name": "artist_location", "type": "string"},
			{"name": "artist_latitude", "type": ["null", "double"], "default": null},
			{"name": "artist_longitude", "type": ["null", "double"], "default": null}
		]
	}`
}

func (r ArtistRow) AvroNative() map[string]any {
	native := map[string]any{
		"artist_id":        r.ArtistID,
		"artist_name":      r.Name,
		"artist_location":  r.Location,
		"artist_latitude":  nil,
		"artist_longitude": nil,
	}
	if r.Latitude != nil {
		native["artist_latitude"] = map[string]any{"double": *r.Latitude}
	}
	if r.Longitude != nil {
		native["artist_longitude"] = map[string]any{"double": *r.Longitude}
	}
	return native
}

func (r UserRow) AvroSchema() string {
	return `{
		"type": "record",
		"name": "User",
		"namespace": "com.sparkify.lake",
		"fields": [
			{"name": "userId", "type": "string"},
			{"name": "firstName", "type": "string"},
			{"name": "lastName", "type": "string"},
			{"name": "gender", "type": "string"},
			{"name": "level", "type": "string"}
		]
	}`
}

func (r UserRow) AvroNative() map[string]any {
	return map[string]any{
		"userId":    r.UserID,
		"firstName": r.FirstName,
		"lastName":  r.LastName,
		"gender":    r.Gender,
		"level":     r.Level,
	}
}

func (r TimeRow) AvroSchema() string {
	return `{
		"type": "record",
		"name": "Time",
		"namespace": "com.sparkify.lake",
		"fields": [
			{"name": "start_time", "type": "string"},
			{"name": "hour", "type": "int"},
			{"name": "day", "type": "int"},
			{"name": "week", "type": "int"},
			{"name": "month", "type": "int"},
			{"name": "year", "type": "int"},
			{"name": "weekday", "type": "int"}
		]
	}`
}

func (r TimeRow) AvroNative() map[string]any {
	return map[string]any{
		"start_time": r.StartTime.Format(time.RFC3339Nano),
		"hour":       r.Hour,
		"day":        r.Day,
		"week":       r.Week,
		"month":      r.Month,
		"year":       r.Year,
		"weekday":    r.Weekday,
	}
}

func (r SongplayRow) AvroSchema() string {
	return `{
		"type": "record",
		"name": "Songplay",
		"namespace": "com.sparkify.lake",
		"fields": [
			{"name": "songplay_id", "type": "long"},
			{"name": "start_time", "type": ["null", "string"], "default": null},
			{"name": "userId", "type": "string"},
			{"name": "level", "type": "string"},
			{"name": "song_id", "type": "string"},
			{"name": "artist_id", "type": "string"},
			{"name": "sessionId", "type": "long"},
			{"name": "artist_location", "type": "string"},
			{"name": "userAgent", "type": "string"}
		]
	}`
}

func (r SongplayRow) AvroNative() map[string]any {
	var startTime any
	if r.StartTime != nil {
		startTime = map[string]any{"string": r.StartTime.Format(time.RFC3339Nano)}
	}
	return map[string]any{
		"songplay_id":     r.SongplayID,
		"start_time":      startTime,
		"userId":          r.UserID,
		"level":           r.Level,
		"song_id":         r.SongID,
		"artist_id":       r.ArtistID,
		"sessionId":       r.SessionID,
		"artist_location": r.Location,
		"userAgent":       r.UserAgent,
	}
}
