package entity

import (
	"fmt"
	"time"

	"data-importer/core/coerce"

	"github.com/shopspring/decimal"
)

// field builds a property over a plain value field; nil resets it to zero.
func field[T any, V any](name, label string, kind coerce.Kind, ref func(*T) *V) Property[T] {
	return Property[T]{
		Name:  name,
		Label: label,
		Kind:  kind,
		Get: func(e *T) any {
			return *ref(e)
		},
		Set: func(e *T, value any) error {
			if value == nil {
				var zero V
				*ref(e) = zero
				return nil
			}
			v, ok := value.(V)
			if !ok {
				return fmt.Errorf("%w: %s wants %T, got %T", ErrTypeMismatch, name, *new(V), value)
			}
			*ref(e) = v
			return nil
		},
	}
}

// String declares a text property.
func String[T any](name, label string, ref func(*T) *string) Property[T] {
	return field(name, label, coerce.String, ref)
}

// Decimal declares a fixed-point property.
func Decimal[T any](name, label string, ref func(*T) *decimal.Decimal) Property[T] {
	return field(name, label, coerce.Decimal, ref)
}

// Int declares an int property.
func Int[T any](name, label string, ref func(*T) *int) Property[T] {
	return field(name, label, coerce.Int, ref)
}

// Long declares an int64 property.
func Long[T any](name, label string, ref func(*T) *int64) Property[T] {
	return field(name, label, coerce.Long, ref)
}

// Bool declares a boolean property.
func Bool[T any](name, label string, ref func(*T) *bool) Property[T] {
	return field(name, label, coerce.Bool, ref)
}

// Date declares an optional calendar day stored as *time.Time.
func Date[T any](name, label string, ref func(*T) **time.Time) Property[T] {
	return optionalTime(name, label, coerce.Date, ref)
}

// DateTime declares an optional instant stored as *time.Time.
func DateTime[T any](name, label string, ref func(*T) **time.Time) Property[T] {
	return optionalTime(name, label, coerce.DateTime, ref)
}

func optionalTime[T any](name, label string, kind coerce.Kind, ref func(*T) **time.Time) Property[T] {
	return Property[T]{
		Name:  name,
		Label: label,
		Kind:  kind,
		Get: func(e *T) any {
			if p := *ref(e); p != nil {
				return *p
			}
			return nil
		},
		Set: func(e *T, value any) error {
			switch v := value.(type) {
			case nil:
				*ref(e) = nil
			case time.Time:
				*ref(e) = &v
			case *time.Time:
				*ref(e) = v
			default:
				return fmt.Errorf("%w: %s wants time.Time, got %T", ErrTypeMismatch, name, value)
			}
			return nil
		},
	}
}
