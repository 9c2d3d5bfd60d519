package coerce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateStrict(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"dd.MM.yyyy", "02.01.2006"},
		{"yyyy-MM-dd'T'HH:mm:ss", "2006-01-02T15:04:05"},
		{"d/M/yy", "2/1/06"},
		{"dd MMM yyyy", "02 Jan 2006"},
		{"hh:mm a", "03:04 PM"},
		{"HH:mm:ss.SSS", "15:04:05.000"},
		{"yyyy-MM-dd'T'HH:mm:ssXXX", "2006-01-02T15:04:05Z07:00"},
		{"'o''clock' HH", "o'clock 15"},
		{"02.01.2006", "02.01.2006"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			strict, _ := translate(tt.pattern)
			assert.Equal(t, tt.want, strict)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		patterns []string
		ok       bool
	}{
		{"Pattern", "31.12.2024", []string{"dd.MM.yyyy"}, true},
		{"Second pattern", "12/31/2024", []string{"dd.MM.yyyy", "MM/dd/yyyy"}, true},
		{"ISO fallback", "2024-12-31", []string{"dd.MM.yyyy"}, true},
		{"Go layout", "31 Dec 2024", []string{"02 Jan 2006"}, true},
		{"Invalid day", "32.12.2024", []string{"dd.MM.yyyy"}, false},
		{"Garbage", "tomorrow", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, tt.patterns)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, want.Equal(got), "got %v", got)
			}
		})
	}

	t.Run("Single digit day and month", func(t *testing.T) {
		got, ok := ParseDate("1.2.2024", []string{"dd.MM.yyyy"})
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got)
	})
}

func TestParseDate_RoundTrip(t *testing.T) {
	for _, pattern := range []string{"dd.MM.yyyy", "yyyy-MM-dd", "MM/dd/yyyy", "dd MMM yyyy"} {
		t.Run(pattern, func(t *testing.T) {
			original := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
			text := formatDate(original, pattern)

			parsed, ok := ParseDate(text, []string{pattern})
			require.True(t, ok, text)
			assert.True(t, original.Equal(parsed))
		})
	}

	parsed, ok := ParseDate("31.12.2024", []string{"dd.MM.yyyy"})
	require.True(t, ok)
	assert.Equal(t, "31.12.2024", formatDate(parsed, "dd.MM.yyyy"))
}

func TestParseDateTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name     string
		raw      string
		patterns []string
		want     time.Time
		ok       bool
	}{
		{"Pattern in location", "31.12.2024 23:30", []string{"dd.MM.yyyy HH:mm"}, time.Date(2024, 12, 31, 22, 30, 0, 0, time.UTC), true},
		{"RFC3339 keeps offset", "2024-06-01T08:00:00+02:00", nil, time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC), true},
		{"ISO local", "2024-06-01 08:00:00", nil, time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC), true},
		{"Date only", "2024-01-15", nil, time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), true},
		{"Garbage", "noon", nil, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateTime(tt.raw, tt.patterns, berlin)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}

	t.Run("Nil location is UTC", func(t *testing.T) {
		got, ok := ParseDateTime("2024-06-01 08:00:00", nil, nil)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), got)
	})
}

// formatDate renders t with the given pattern.
func formatDate(t time.Time, pattern string) string {
	layout, _ := translate(pattern)
	return t.Format(layout)
}
