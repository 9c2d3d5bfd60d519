package coerce

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// defaultTruePrefixes apply to every boolean property in addition to the
// configured formats.
var defaultTruePrefixes = []string{"y", "j", "1", "true"}

// Coerce converts a raw cell into the Go value for kind:
//
//	String, Unknown  string (as given)
//	Date             time.Time at UTC midnight
//	DateTime         time.Time in UTC
//	Decimal          decimal.Decimal
//	Int / Long       int / int64
//	Bool             bool
//
// Blank cells and unparsable dates yield a nil value without error. A
// decimal with no configured formats is not parsed: deferred reports that
// the caller must collect it for column-wide style detection.
func Coerce(kind Kind, raw string, formats []string, loc *time.Location) (value any, deferred bool, err error) {
	if kind == String || kind == Unknown {
		return raw, false, nil
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false, nil
	}

	switch kind {
	case Date:
		if t, ok := ParseDate(s, formats); ok {
			return t, false, nil
		}
		return nil, false, nil
	case DateTime:
		if t, ok := ParseDateTime(s, formats, loc); ok {
			return t, false, nil
		}
		return nil, false, nil
	case Decimal:
		if len(formats) == 0 {
			return nil, true, nil
		}
		d, err := ParseDecimal(s, formats)
		if err != nil {
			return nil, false, &CellError{Kind: kind, Raw: raw, Err: err}
		}
		return d, false, nil
	case Int:
		n, err := parseInteger(s, formats, strconv.IntSize)
		if err != nil {
			return nil, false, &CellError{Kind: kind, Raw: raw, Err: err}
		}
		return int(n), false, nil
	case Long:
		n, err := parseInteger(s, formats, 64)
		if err != nil {
			return nil, false, &CellError{Kind: kind, Raw: raw, Err: err}
		}
		return n, false, nil
	case Bool:
		return ParseBool(s, formats), false, nil
	}
	return raw, false, nil
}

// ParseBool reports whether the lower-cased value starts with one of the
// configured prefixes or y, j, 1, true.
func ParseBool(raw string, prefixes []string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, set := range [][]string{prefixes, defaultTruePrefixes} {
		for _, p := range set {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" && strings.HasPrefix(s, p) {
				return true
			}
		}
	}
	return false
}

// parseInteger accepts plain digits, or grouped digits when decimal formats
// are configured ("12.500" with "#.##0").
func parseInteger(s string, formats []string, bits int) (int64, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	n, err := strconv.ParseInt(compact, 10, bits)
	if err == nil || len(formats) == 0 {
		return n, err
	}

	d, derr := ParseDecimal(compact, formats)
	if derr != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(d.String(), 10, bits)
}
