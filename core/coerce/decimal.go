package coerce

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Style is a decimal notation: which rune separates the fraction and which
// groups thousands.
type Style struct {
	Decimal  rune
	Grouping rune
}

var (
	// Comma is the continental notation: 1.234,56
	Comma = Style{Decimal: ',', Grouping: '.'}
	// Point is the anglo notation: 1,234.56
	Point = Style{Decimal: '.', Grouping: ','}
)

// Format keywords accepted in a decimal format list.
const (
	KeywordComma = "comma"
	KeywordPoint = "point"
)

// Patterns returns the format patterns prepended to a column's format list
// once the style was detected.
func (s Style) Patterns() []string {
	if s == Comma {
		return []string{"#.##0,00"}
	}
	return []string{"#,##0.00"}
}

func (s Style) String() string {
	switch s {
	case Comma:
		return KeywordComma
	case Point:
		return KeywordPoint
	}
	return fmt.Sprintf("decimal=%q grouping=%q", s.Decimal, s.Grouping)
}

// StyleOf derives the notation from a format. Keywords map directly. In a
// pattern holding both separators the rightmost one is the decimal separator.
// A lone separator is grouping when it follows '#' and precedes at least
// three digit placeholders ("#,##0"), otherwise it is the decimal separator
// ("0,00"). A pattern without separators uses Point.
func StyleOf(format string) Style {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case KeywordComma:
		return Comma
	case KeywordPoint:
		return Point
	}

	lastComma := strings.LastIndexByte(format, ',')
	lastPoint := strings.LastIndexByte(format, '.')
	switch {
	case lastComma >= 0 && lastPoint >= 0:
		if lastComma > lastPoint {
			return Comma
		}
		return Point
	case lastComma >= 0:
		if isGroupingAt(format, lastComma) {
			return Point
		}
		return Comma
	case lastPoint >= 0:
		if isGroupingAt(format, lastPoint) {
			return Comma
		}
		return Point
	}
	return Point
}

func isGroupingAt(format string, idx int) bool {
	if idx == 0 || format[idx-1] != '#' {
		return false
	}
	digits := 0
	for _, c := range format[idx+1:] {
		if c != '#' && c != '0' {
			break
		}
		digits++
	}
	return digits >= 3
}

var (
	commaPattern = compileStyle(Comma)
	pointPattern = compileStyle(Point)
)

// compileStyle builds the validator for a compacted number: optional sign,
// either plain digits or digits grouped strictly in threes, optional fraction.
func compileStyle(s Style) *regexp.Regexp {
	g := regexp.QuoteMeta(string(s.Grouping))
	d := regexp.QuoteMeta(string(s.Decimal))
	return regexp.MustCompile(`^[+-]?(?:(?:\d{1,3}(?:` + g + `\d{3})+|\d+)(?:` + d + `\d*)?|` + d + `\d+)$`)
}

func styleRegexp(s Style) *regexp.Regexp {
	switch s {
	case Comma:
		return commaPattern
	case Point:
		return pointPattern
	}
	return compileStyle(s)
}

// currencySymbols are dropped from decimal cells before parsing.
const currencySymbols = "€$£¥₣₤₹"

// compact strips whitespace and currency symbols and turns accounting
// parentheses and trailing signs into a leading sign.
func compact(raw string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, raw)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		s = s[1 : len(s)-1]
		negative = true
	}
	if strings.HasSuffix(s, "-") && len(s) > 1 {
		s = s[:len(s)-1]
		negative = !negative
	}
	if negative {
		if strings.HasPrefix(s, "-") {
			s = s[1:]
		} else {
			s = "-" + strings.TrimPrefix(s, "+")
		}
	}
	return s
}

// Consistent reports whether raw is a well-formed number in style s.
func Consistent(raw string, s Style) bool {
	return styleRegexp(s).MatchString(compact(raw))
}

// ParseWithStyle parses raw in the given notation.
func ParseWithStyle(raw string, s Style) (decimal.Decimal, error) {
	c := compact(raw)
	if !styleRegexp(s).MatchString(c) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not %s notation", ErrNoMatchingFormat, raw, s)
	}
	c = strings.ReplaceAll(c, string(s.Grouping), "")
	c = strings.Replace(c, string(s.Decimal), ".", 1)
	c = strings.TrimSuffix(strings.TrimPrefix(c, "+"), ".")
	if strings.HasPrefix(c, ".") {
		c = "0" + c
	} else if strings.HasPrefix(c, "-.") {
		c = "-0" + c[1:]
	}
	return decimal.NewFromString(c)
}

// ParseDecimal tries each format in order and returns the first success.
func ParseDecimal(raw string, formats []string) (decimal.Decimal, error) {
	if len(formats) == 0 {
		return decimal.Decimal{}, ErrNoMatchingFormat
	}
	var lastErr error
	for _, f := range formats {
		d, err := ParseWithStyle(raw, StyleOf(f))
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return decimal.Decimal{}, lastErr
}
