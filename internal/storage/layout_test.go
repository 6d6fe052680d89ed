package storage

import (
	"regexp"
	"strings"
	"testing"
)

func TestLayout_Prefix(t *testing.T) {
	layout := NewLayout()

	if got := layout.Prefix(SongsTable); got != "songs_tables/" {
		t.Errorf("Prefix = %q, want songs_tables/", got)
	}
}

func TestLayout_Key_Unpartitioned(t *testing.T) {
	layout := NewLayout()

	key := layout.Key(UsersTable, ".parquet")

	pattern := regexp.MustCompile(`^users_tables/part_\d{8}_\d{6}_\d{3}\.parquet$`)
	if !pattern.MatchString(key) {
		t.Errorf("Key = %q, want match for %q", key, pattern)
	}
}

func TestLayout_Key_Partitioned(t *testing.T) {
	layout := NewLayout()

	key := layout.Key(SongsTable, ".parquet",
		Partition{Key: "year", Value: "2000"},
		Partition{Key: "artist_id", Value: "E1"},
	)

	if !strings.HasPrefix(key, "songs_tables/year=2000/artist_id=E1/part_") {
		t.Errorf("Key = %q, want year=2000/artist_id=E1 directories", key)
	}
}

func TestLayout_Key_EmptyPartitionValue(t *testing.T) {
	layout := NewLayout()

	key := layout.Key(SongsTable, ".parquet",
		Partition{Key: "year", Value: "0"},
		Partition{Key: "artist_id", Value: ""},
	)

	if !strings.Contains(key, "artist_id=__HIVE_DEFAULT_PARTITION__") {
		t.Errorf("Key = %q, want hive default partition directory", key)
	}
}

func TestLayout_Key_SequenceWithinSameSecond(t *testing.T) {
	layout := NewLayout()

	first := layout.Key(TimeTable, ".parquet")
	second := layout.Key(TimeTable, ".parquet")

	if first == second {
		t.Errorf("consecutive keys collide: %q", first)
	}
}
