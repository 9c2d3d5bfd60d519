package reconcile

import (
	"reflect"
	"strings"
	"time"

	"data-importer/core/entity"

	"github.com/shopspring/decimal"
)

// Compare diffs incoming against baseline over the schema's comparison
// surface and returns the differing properties valued by the baseline side.
// ok is false when the diff cannot be determined: the schema declares no
// properties, or a comparable name has neither a comparator nor a getter.
func Compare[T any](schema *entity.Schema[T], incoming, baseline *T) (diff map[string]any, ok bool) {
	names := schema.Comparable
	if names == nil {
		for _, p := range schema.Properties {
			if p.Get != nil {
				names = append(names, p.Name)
			}
		}
	}
	if len(names) == 0 {
		return nil, false
	}

	diff = make(map[string]any)
	for _, name := range names {
		prop, hasProp := schema.Property(name)
		hasGetter := hasProp && prop.Get != nil

		if cmp, custom := schema.Comparators[name]; custom && cmp != nil {
			if !cmp(incoming, baseline) {
				var old any
				if hasGetter {
					old = prop.Get(baseline)
				}
				diff[name] = old
			}
			continue
		}

		if !hasGetter {
			return nil, false
		}
		oldValue := prop.Get(baseline)
		if !Equal(prop.Get(incoming), oldValue) {
			diff[name] = oldValue
		}
	}
	return diff, true
}

// Equal compares two property values: decimals by numeric value, strings
// after trimming, times by instant, everything else structurally. A nil
// decimal or time equals its zero value.
func Equal(a, b any) bool {
	a, b = deref(a), deref(b)

	switch av := a.(type) {
	case decimal.Decimal:
		bv, ok := asDecimal(b)
		return ok && av.Equal(bv)
	case string:
		bv, ok := b.(string)
		if b == nil {
			bv, ok = "", true
		}
		return ok && strings.TrimSpace(av) == strings.TrimSpace(bv)
	case time.Time:
		bv, ok := b.(time.Time)
		if b == nil {
			return av.IsZero()
		}
		return ok && av.Equal(bv)
	case nil:
		switch bv := b.(type) {
		case nil:
			return true
		case decimal.Decimal:
			return bv.IsZero()
		case string:
			return strings.TrimSpace(bv) == ""
		case time.Time:
			return bv.IsZero()
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch d := v.(type) {
	case decimal.Decimal:
		return d, true
	case nil:
		return decimal.Zero, true
	}
	return decimal.Decimal{}, false
}

// deref unwraps typed pointers to the value types Equal understands.
func deref(v any) any {
	switch p := v.(type) {
	case *decimal.Decimal:
		if p == nil {
			return nil
		}
		return *p
	case *time.Time:
		if p == nil {
			return nil
		}
		return *p
	case *string:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}
