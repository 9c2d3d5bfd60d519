package coerce

import "strings"

// DetectDecimalStyle picks one notation for a whole column. Blank values are
// ignored. If every value fits exactly one of the styles that style wins;
// if every value fits both (or there are none) Point is used. When no style
// fits every value the result is Point and ok is false so the caller can
// warn about the ambiguous column.
func DetectDecimalStyle(raws []string) (style Style, ok bool) {
	commaAll, pointAll := true, true
	for _, raw := range raws {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if commaAll && !Consistent(raw, Comma) {
			commaAll = false
		}
		if pointAll && !Consistent(raw, Point) {
			pointAll = false
		}
		if !commaAll && !pointAll {
			break
		}
	}

	switch {
	case commaAll && !pointAll:
		return Comma, true
	case pointAll:
		return Point, true
	default:
		return Point, false
	}
}
