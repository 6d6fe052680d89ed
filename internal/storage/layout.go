// Package storage implements storage sinks and the fixed lake output layout.
package storage

import (
	"fmt"
	"path"
	"time"
)

// Fixed output subpaths under the output root, one per table.
const (
	SongsTable     = "songs_tables"
	ArtistsTable   = "artists_tables"
	UsersTable     = "users_tables"
	TimeTable      = "time_tables"
	SongplaysTable = "songplays_tables"
)

// hiveDefaultPartition is the partition directory name used when a partition
// column value is empty, matching the Hive convention.
const hiveDefaultPartition = "__HIVE_DEFAULT_PARTITION__"

// Partition is a single Hive-style partition column, rendered as key=value.
type Partition struct {
	Key   string
	Value string
}

// Layout builds storage keys for table part files. Partitioned tables get
// nested key=value directories; every file gets a timestamped part name with
// a sequence suffix to disambiguate files created in the same second.
type Layout struct {
	fileSequence  int
	lastTimestamp string
}

// NewLayout creates a new layout.
func NewLayout() *Layout {
	return &Layout{}
}

// Prefix returns the directory prefix of a table, the unit of overwrite.
func (l *Layout) Prefix(table string) string {
	return table + "/"
}

// Key returns the storage key for the next part file of a table.
// Format: table/key=value/.../part_YYYYMMDD_HHMMSS_NNN<ext>
func (l *Layout) Key(table, ext string, partitions ...Partition) string {
	segments := make([]string, 0, len(partitions)+2)
	segments = append(segments, table)
	for _, partition := range partitions {
		value := partition.Value
		if value == "" {
			value = hiveDefaultPartition
		}
		segments = append(segments, partition.Key+"="+value)
	}

	timestamp := time.Now().Format("20060102_150405")
	if timestamp == l.lastTimestamp {
		l.fileSequence++
	} else {
		l.fileSequence = 1
		l.lastTimestamp = timestamp
	}

	segments = append(segments, fmt.Sprintf("part_%s_%03d%s", timestamp, l.fileSequence, ext))
	return path.Join(segments...)
}
