package mapping

import (
	"bufio"
	"fmt"
	"strings"
	"sync"
	"time"

	"data-importer/core/charset"
)

// Reserved settings blob keys.
const (
	KeyEncoding = "encoding"
	KeyTimezone = "timezone"
)

// formatSentinel marks a blob entry as a parse format instead of an alias.
const formatSentinel = ":"

// Settings is the per import type configuration shared by its sessions: the
// mapping registry, an optional declared charset and the location used to
// normalize date-time cells.
type Settings struct {
	Registry *Registry

	mu       sync.RWMutex
	encoding string
	location *time.Location
}

// NewSettings wraps a registry; a nil registry starts empty.
func NewSettings(reg *Registry) *Settings {
	if reg == nil {
		reg, _ = NewRegistry()
	}
	return &Settings{Registry: reg}
}

// ParseSettingsBlob builds settings from a key=value blob over an empty registry.
func ParseSettingsBlob(text string) (*Settings, error) {
	s := NewSettings(nil)
	if err := s.Apply(text); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply overlays a settings blob.
//
//	# comment
//	encoding=iso-8859-1
//	timezone=Europe/Berlin
//	price=price*|preis*|:#.##0,00
//
// Values split on '|'. Entries starting with ':' are formats, the rest are
// aliases. For a known property only the parts present on the line are
// replaced. Unknown keys register a new mapping.
func (s *Settings) Apply(text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("settings line %d: expected key=value, got %q", lineNo, line)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case KeyEncoding:
			if err := s.SetEncoding(value); err != nil {
				return fmt.Errorf("settings line %d: %w", lineNo, err)
			}
			continue
		case KeyTimezone:
			if err := s.SetTimezone(value); err != nil {
				return fmt.Errorf("settings line %d: %w", lineNo, err)
			}
			continue
		}

		aliases, formats := splitEntries(value)
		if _, known := s.Registry.Lookup(key); known {
			if err := s.Registry.update(key, aliases, formats); err != nil {
				return fmt.Errorf("settings line %d: %w", lineNo, err)
			}
			continue
		}

		if err := s.Registry.Register(FieldMapping{Property: key, Label: key, Aliases: aliases, Formats: formats}); err != nil {
			return fmt.Errorf("settings line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

// splitEntries separates aliases from ':'-prefixed formats. A part with no
// entries is returned as nil so callers can tell "absent" from "empty".
func splitEntries(value string) (aliases, formats []string) {
	for _, part := range strings.Split(value, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, formatSentinel) {
			if f := strings.TrimPrefix(part, formatSentinel); f != "" {
				formats = append(formats, f)
			}
			continue
		}
		aliases = append(aliases, part)
	}
	return aliases, formats
}

// SetEncoding declares the charset used when detection is inconclusive.
// An empty name clears it.
func (s *Settings) SetEncoding(name string) error {
	enc := ""
	if name != "" {
		var err error
		if enc, err = charset.Canonical(name); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.encoding = enc
	s.mu.Unlock()
	return nil
}

// Encoding returns the declared charset, or "".
func (s *Settings) Encoding() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encoding
}

// SetTimezone sets the location used for date-time cells.
func (s *Settings) SetTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	s.mu.Lock()
	s.location = loc
	s.mu.Unlock()
	return nil
}

// Location returns the date-time location, UTC when none is set.
func (s *Settings) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location == nil {
		return time.UTC
	}
	return s.location
}

// Clone returns settings with an independent registry, so a session can
// apply overrides without touching the shared defaults.
func (s *Settings) Clone() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Settings{
		Registry: s.Registry.Clone(),
		encoding: s.encoding,
		location: s.location,
	}
}

// Blob renders the settings back into the key=value format.
func (s *Settings) Blob() string {
	var b strings.Builder
	if enc := s.Encoding(); enc != "" {
		fmt.Fprintf(&b, "%s=%s\n", KeyEncoding, enc)
	}
	s.mu.RLock()
	loc := s.location
	s.mu.RUnlock()
	if loc != nil {
		fmt.Fprintf(&b, "%s=%s\n", KeyTimezone, loc.String())
	}
	for _, m := range s.Registry.Mappings() {
		parts := append([]string(nil), m.Aliases...)
		for _, f := range m.Formats {
			parts = append(parts, formatSentinel+f)
		}
		fmt.Fprintf(&b, "%s=%s\n", m.Property, strings.Join(parts, "|"))
	}
	return b.String()
}
