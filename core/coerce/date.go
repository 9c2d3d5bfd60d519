package coerce

import (
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// dateTimeFallbacks are tried after the configured patterns.
var dateTimeFallbacks = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	isoDate,
}

// javaTokens maps date pattern letters (dd.MM.yyyy style) to Go layout
// elements. Longer runs are matched first. The second layout is the lenient
// variant used for parsing single-digit days and months.
var javaTokens = []struct {
	token   string
	layout  string
	lenient string
}{
	{"yyyy", "2006", "2006"},
	{"yy", "06", "06"},
	{"MMMM", "January", "January"},
	{"MMM", "Jan", "Jan"},
	{"MM", "01", "1"},
	{"M", "1", "1"},
	{"dd", "02", "2"},
	{"d", "2", "2"},
	{"EEEE", "Monday", "Monday"},
	{"EEE", "Mon", "Mon"},
	{"HH", "15", "15"},
	{"H", "15", "15"},
	{"hh", "03", "3"},
	{"h", "3", "3"},
	{"mm", "04", "04"},
	{"m", "4", "4"},
	{"ss", "05", "05"},
	{"s", "5", "5"},
	{"SSS", "000", "000"},
	{"a", "PM", "PM"},
	{"XXX", "Z07:00", "Z07:00"},
	{"X", "Z07", "Z07"},
	{"Z", "-0700", "-0700"},
}

// translate converts a date pattern to Go time layouts: a strict one with
// zero-padded fields and a lenient one accepting single digits. Patterns that
// already are Go layouts (containing 2006, 15:04 or Jan) are returned unchanged.
func translate(pattern string) (strict, lenient string) {
	if isGoLayout(pattern) {
		return pattern, pattern
	}

	var s, l strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			lit, n := quoted(pattern[i:])
			s.WriteString(lit)
			l.WriteString(lit)
			i += n
			continue
		}

		matched := false
		for _, tok := range javaTokens {
			if strings.HasPrefix(pattern[i:], tok.token) {
				s.WriteString(tok.layout)
				l.WriteString(tok.lenient)
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			s.WriteByte(c)
			l.WriteByte(c)
			i++
		}
	}
	return s.String(), l.String()
}

// quoted reads a quoted literal at the start of p and returns its text and
// the number of bytes consumed. "''" stands for a single quote, inside or
// outside a literal.
func quoted(p string) (string, int) {
	if strings.HasPrefix(p, "''") {
		return "'", 2
	}
	var b strings.Builder
	i := 1
	for i < len(p) {
		if p[i] == '\'' {
			if i+1 < len(p) && p[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			return b.String(), i + 1
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String(), i
}

func isGoLayout(pattern string) bool {
	return strings.Contains(pattern, "2006") || strings.Contains(pattern, "15:04") || strings.Contains(pattern, "Jan")
}

// ParseDate tries each pattern, then ISO 2006-01-02. The result is the
// calendar day at UTC midnight.
func ParseDate(raw string, patterns []string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, p := range patterns {
		strict, lenient := translate(p)
		for _, layout := range uniq(strict, lenient) {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return midnight(t), true
			}
		}
	}
	if t, err := time.ParseInLocation(isoDate, s, time.UTC); err == nil {
		return midnight(t), true
	}
	return time.Time{}, false
}

// ParseDateTime tries each pattern in loc, then the ISO fallbacks. Values
// without an explicit offset are read in loc; the result is in UTC.
func ParseDateTime(raw string, patterns []string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(raw)
	for _, p := range patterns {
		strict, lenient := translate(p)
		for _, layout := range uniq(strict, lenient) {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t.UTC(), true
			}
		}
	}
	for _, layout := range dateTimeFallbacks {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func uniq(a, b string) []string {
	if a == b {
		return []string{a}
	}
	return []string{a, b}
}
