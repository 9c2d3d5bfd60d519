package entity

import (
	"errors"
	"fmt"

	"data-importer/core/coerce"
	"data-importer/core/utils"
)

var (
	// ErrTypeMismatch is returned by a setter given a value of the wrong type.
	ErrTypeMismatch = errors.New("value type does not match property")
	// ErrUnknownProperty is returned when a name is not declared on the schema.
	ErrUnknownProperty = errors.New("unknown property")
)

// Property declares one settable, comparable attribute of T.
type Property[T any] struct {
	Name  string
	Label string
	Kind  coerce.Kind
	// Get returns the current value, nil when unset.
	Get func(*T) any
	// Set stores a coerced value; nil clears the property.
	Set func(*T, any) error
}

// Schema describes an import type: how to build an entity, how to identify
// it, which properties it carries and which of them take part in the diff.
type Schema[T any] struct {
	Name string
	// New returns an empty entity for one parsed row.
	New func() *T
	// Key returns the identity used to pair incoming and baseline records.
	Key func(*T) string
	// Properties in declaration order.
	Properties []Property[T]
	// Comparable lists the property names compared by the diff. When nil,
	// every property with a getter is compared.
	Comparable []string
	// Comparators override equality for single properties.
	Comparators map[string]func(a, b *T) bool
}

// Property returns the declared property with the given name.
func (s *Schema[T]) Property(name string) (Property[T], bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property[T]{}, false
}

// Validate checks that the schema can drive an import.
func (s *Schema[T]) Validate() error {
	if s.New == nil {
		return fmt.Errorf("schema %s: New is required", s.Name)
	}
	if s.Key == nil {
		return fmt.Errorf("schema %s: Key is required", s.Name)
	}
	seen := make(map[string]struct{}, len(s.Properties))
	for _, p := range s.Properties {
		if p.Name == "" {
			return fmt.Errorf("schema %s: property without name", s.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("schema %s: duplicate property %s", s.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Set assigns value to the named property.
func (s *Schema[T]) Set(e *T, name string, value any) error {
	p, ok := s.Property(name)
	if !ok || p.Set == nil {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	return p.Set(e, value)
}

// Get reads the named property.
func (s *Schema[T]) Get(e *T, name string) (any, error) {
	p, ok := s.Property(name)
	if !ok || p.Get == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	return p.Get(e), nil
}

// Values renders every readable property of e as text, keyed by name.
// A nil entity yields nil.
func (s *Schema[T]) Values(e *T) map[string]string {
	if e == nil {
		return nil
	}
	out := make(map[string]string, len(s.Properties))
	for _, p := range s.Properties {
		if p.Get == nil {
			continue
		}
		out[p.Name] = utils.ToString(p.Get(e))
	}
	return out
}
