// Package schema defines the data model of the sparkify data lake.
//
// The lake is a small star schema derived from two semi-structured datasets:
// a song catalog (one JSON object per file, nested three directory levels
// deep) and user activity logs (newline-delimited JSON, one file per day).
//
// # Input Records
//
// Song and PlayEvent mirror the raw JSON field names. Optional fields use
// pointers so records with absent or null fields decode without error:
//
//	var song schema.Song
//	if err := json.Unmarshal(data, &song); err != nil { ... }
//
// # Output Tables
//
// Five flat relations, written fresh every run:
//
//	SongRow      // songs dimension, partitioned by year and artist_id
//	ArtistRow    // artists dimension
//	UserRow      // users dimension
//	TimeRow      // time dimension derived from the event timestamp
//	SongplayRow  // songplays fact table
//
// Each row type carries parquet struct tags for the columnar writer and
// implements AvroRow for the alternate Avro output format.
//
// # Timestamps
//
// Event timestamps arrive as millisecond epochs. PlayEvent.StartTime performs
// the truncating conversion used throughout the lake:
//
//	if start, ok := event.StartTime(); ok {
//	    // start is UTC with second precision
//	}
package schema
