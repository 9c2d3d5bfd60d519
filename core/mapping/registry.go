package mapping

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	// ErrDuplicateProperty is returned when a property is registered twice.
	ErrDuplicateProperty = errors.New("duplicate property")
	// ErrEmptyProperty is returned when a mapping has no property name.
	ErrEmptyProperty = errors.New("empty property name")
)

// FieldMapping binds one entity property to the header texts it may appear
// under and the parse formats used to coerce its cells.
type FieldMapping struct {
	Property string   `json:"property"`
	Label    string   `json:"label"`
	Aliases  []string `json:"aliases"`
	Formats  []string `json:"formats"`
}

func (m FieldMapping) clone() FieldMapping {
	m.Aliases = append([]string(nil), m.Aliases...)
	m.Formats = append([]string(nil), m.Formats...)
	return m
}

type entry struct {
	mapping  FieldMapping
	patterns []*regexp.Regexp
}

// Registry is an ordered set of field mappings. Resolution tests mappings in
// registration order and the first match wins. Alias patterns are compiled
// once when a mapping is registered or its aliases change.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	index   map[string]*entry
}

// NewRegistry builds a registry from mappings, in order.
func NewRegistry(mappings ...FieldMapping) (*Registry, error) {
	r := &Registry{index: make(map[string]*entry)}
	for _, m := range mappings {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends a mapping. Property names are unique (case-insensitive).
func (r *Registry) Register(m FieldMapping) error {
	if strings.TrimSpace(m.Property) == "" {
		return ErrEmptyProperty
	}

	patterns, err := compileAliases(m.Aliases)
	if err != nil {
		return fmt.Errorf("property %s: %w", m.Property, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(m.Property)
	if _, exists := r.index[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProperty, m.Property)
	}

	e := &entry{mapping: m.clone(), patterns: patterns}
	r.entries = append(r.entries, e)
	r.index[key] = e
	return nil
}

// Resolve returns a snapshot of the first mapping whose aliases match the
// trimmed header. A mapping without aliases matches its property name or
// label exactly, ignoring case.
func (r *Registry) Resolve(header string) (FieldMapping, bool) {
	h := strings.TrimSpace(header)
	if h == "" {
		return FieldMapping{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if len(e.patterns) == 0 {
			if strings.EqualFold(h, e.mapping.Property) || (e.mapping.Label != "" && strings.EqualFold(h, e.mapping.Label)) {
				return e.mapping.clone(), true
			}
			continue
		}
		for _, p := range e.patterns {
			if p.MatchString(h) {
				return e.mapping.clone(), true
			}
		}
	}
	return FieldMapping{}, false
}

// Lookup returns a snapshot of the mapping registered for property.
func (r *Registry) Lookup(property string) (FieldMapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.index[strings.ToLower(property)]
	if !ok {
		return FieldMapping{}, false
	}
	return e.mapping.clone(), true
}

// Formats returns a copy of the property's current format list.
func (r *Registry) Formats(property string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.index[strings.ToLower(property)]
	if !ok {
		return nil
	}
	return append([]string(nil), e.mapping.Formats...)
}

// PrependFormats puts formats in front of the property's format list, skipping
// ones already present. Unknown properties are ignored.
func (r *Registry) PrependFormats(property string, formats ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.index[strings.ToLower(property)]
	if !ok {
		return
	}

	merged := make([]string, 0, len(formats)+len(e.mapping.Formats))
	seen := make(map[string]struct{}, cap(merged))
	for _, f := range append(append([]string(nil), formats...), e.mapping.Formats...) {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		merged = append(merged, f)
	}
	e.mapping.Formats = merged
}

// Mappings returns snapshots of all mappings in registration order.
func (r *Registry) Mappings() []FieldMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]FieldMapping, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.mapping.clone())
	}
	return out
}

// Len returns the number of registered mappings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clone returns an independent registry with the same mappings. Compiled
// patterns are immutable and shared.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := &Registry{
		entries: make([]*entry, 0, len(r.entries)),
		index:   make(map[string]*entry, len(r.index)),
	}
	for _, e := range r.entries {
		ce := &entry{mapping: e.mapping.clone(), patterns: e.patterns}
		c.entries = append(c.entries, ce)
		c.index[strings.ToLower(ce.mapping.Property)] = ce
	}
	return c
}

// update replaces the aliases and/or formats of an existing mapping; a nil
// slice leaves that part untouched.
func (r *Registry) update(property string, aliases, formats []string) error {
	var patterns []*regexp.Regexp
	if aliases != nil {
		var err error
		if patterns, err = compileAliases(aliases); err != nil {
			return fmt.Errorf("property %s: %w", property, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.index[strings.ToLower(property)]
	if !ok {
		return fmt.Errorf("unknown property %s", property)
	}
	if aliases != nil {
		e.mapping.Aliases = append([]string(nil), aliases...)
		e.patterns = patterns
	}
	if formats != nil {
		e.mapping.Formats = append([]string(nil), formats...)
	}
	return nil
}

func compileAliases(aliases []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(aliases))
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		re, err := regexp.Compile(WildcardToRegexp(alias))
		if err != nil {
			return nil, fmt.Errorf("invalid alias %q: %w", alias, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

// WildcardToRegexp translates a header alias into an anchored,
// case-insensitive regular expression: '*' matches any run of characters,
// '?' exactly one, everything else literally.
func WildcardToRegexp(alias string) string {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range alias {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}
