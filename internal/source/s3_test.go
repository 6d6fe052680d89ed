package source

import (
	"path"
	"testing"
)

func TestLiteralPrefix(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"song_data/*/*/*/*.json", "song_data/"},
		{"log_data/*.json", "log_data/"},
		{"log_data/2018-11-01-events.json", "log_data/2018-11-01-events.json"},
		{"*.json", ""},
		{"data/file[0-9].json", "data/file"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := literalPrefix(tt.pattern); got != tt.want {
				t.Errorf("literalPrefix(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestGlobPatternMatchesKeys(t *testing.T) {
	pattern := "song_data/*/*/*/*.json"

	tests := []struct {
		key  string
		want bool
	}{
		{"song_data/A/B/C/TRAAAAA.json", true},
		{"song_data/A/B/TRAAAAA.json", false},
		{"song_data/A/B/C/D/TRAAAAA.json", false},
		{"song_data/A/B/C/notes.txt", false},
		{"log_data/2018-11-01-events.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := path.Match(pattern, tt.key)
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", pattern, tt.key, got, tt.want)
			}
		})
	}
}
