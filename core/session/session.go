package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"data-importer/core/entity"
	"data-importer/core/extract"
	"data-importer/core/mapping"
	"data-importer/core/reconcile"
	"data-importer/core/utils"

	"go.uber.org/zap"
)

var (
	// ErrNotReconciled is returned when pairs are requested before Reconcile.
	ErrNotReconciled = errors.New("session has not been reconciled")
	// ErrUnknownEntry is returned by Select for ids never handed out.
	ErrUnknownEntry = errors.New("unknown entry id")
)

// Options configures a session.
type Options struct {
	// DetectDeleted reports baseline records missing from the file.
	DetectDeleted bool
	Logger        *zap.Logger
}

// Session aggregates everything one upload produces: the committed rows,
// the reconciled pairs, column bookkeeping and the user-facing error and
// warning lists. All state is guarded by one mutex; a session may be read
// from request handlers while a job runs on its pairs.
type Session[T any] struct {
	schema   *entity.Schema[T]
	settings *mapping.Settings
	opts     Options
	log      *zap.Logger

	mu         sync.Mutex
	records    []reconcile.Record[T]
	pairs      []*reconcile.Pair[T]
	reconciled bool
	source     reconcile.BaselineSource[T]
	detected   []Column
	unknown    []string
	errs       []string
	warnings   []string
	overrides  map[string]string
	nextID     int
	byID       map[int]*reconcile.Pair[T]
}

// New creates a session working on a private copy of settings, so formats
// detected in this upload never leak into other sessions.
func New[T any](schema *entity.Schema[T], settings *mapping.Settings, opts Options) *Session[T] {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if settings == nil {
		settings = mapping.NewSettings(nil)
	}
	return &Session[T]{
		schema:    schema,
		settings:  settings.Clone(),
		opts:      opts,
		log:       log,
		overrides: make(map[string]string),
		byID:      make(map[int]*reconcile.Pair[T]),
	}
}

// Schema returns the import type's schema.
func (s *Session[T]) Schema() *entity.Schema[T] {
	return s.schema
}

// Settings implements extract.Sink.
func (s *Session[T]) Settings() *mapping.Settings {
	return s.settings
}

// SetOverride fixes the raw value of property for every row parsed
// afterwards. An empty raw value removes the override.
func (s *Session[T]) SetOverride(property, raw string) error {
	if _, ok := s.schema.Property(property); !ok {
		return fmt.Errorf("%w: %s", entity.ErrUnknownProperty, property)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw == "" {
		delete(s.overrides, property)
		return nil
	}
	s.overrides[property] = raw
	return nil
}

// OverrideField implements extract.Sink by substituting the override
// configured for the property. Coercion, decimal detection included, then
// treats it like any other cell of the column.
func (s *Session[T]) OverrideField(_ *T, property, raw string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.overrides[property]; ok {
		return v, false, nil
	}
	return raw, false, nil
}

// AddDetected implements extract.Sink.
func (s *Session[T]) AddDetected(header string, m mapping.FieldMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detected = append(s.detected, Column{Header: header, Property: m.Property, Label: m.Label})
}

// AddUnknown implements extract.Sink.
func (s *Session[T]) AddUnknown(header string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unknown = append(s.unknown, header)
}

// Commit implements extract.Sink.
func (s *Session[T]) Commit(row extract.Row[T]) error {
	if row.Entity == nil {
		return errors.New("row without entity")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, reconcile.Record[T]{
		Entity: row.Entity,
		Line:   row.Line,
		Errors: append([]string(nil), row.Errors...),
	})
	return nil
}

// Warn implements extract.Sink.
func (s *Session[T]) Warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, msg)
}

// AddError records a session-level error.
func (s *Session[T]) AddError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, msg)
}

// Errors returns a copy of the session-level errors.
func (s *Session[T]) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errs...)
}

// Warnings returns a copy of the warnings.
func (s *Session[T]) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// DetectedColumns returns the headers that resolved to a mapping.
func (s *Session[T]) DetectedColumns() []Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Column(nil), s.detected...)
}

// UnknownColumns returns the headers no mapping matched.
func (s *Session[T]) UnknownColumns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.unknown...)
}

// Rows returns the number of committed rows.
func (s *Session[T]) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Reconcile pairs the committed rows with the baseline loaded from source.
// The source is remembered for ReconcileImportStorage.
func (s *Session[T]) Reconcile(ctx context.Context, source reconcile.BaselineSource[T]) error {
	s.mu.Lock()
	s.source = source
	s.mu.Unlock()
	return s.reconcile(ctx, source)
}

// ReconcileImportStorage re-runs the reconciliation against the remembered
// source, which may be nil. With reread, a caching source is invalidated
// first so external changes become visible. The new pairs get fresh display
// ids; ids handed out before are no longer selectable.
func (s *Session[T]) ReconcileImportStorage(ctx context.Context, reread bool) error {
	s.mu.Lock()
	source, done := s.source, s.reconciled
	s.mu.Unlock()
	if !done {
		return ErrNotReconciled
	}

	if inv, ok := source.(interface{ Invalidate() }); ok && reread {
		inv.Invalidate()
	}
	return s.reconcile(ctx, source)
}

func (s *Session[T]) reconcile(ctx context.Context, source reconcile.BaselineSource[T]) error {
	var baseline map[string]*T
	if source != nil {
		var err error
		baseline, err = source.LoadBaseline(ctx)
		if err != nil {
			return fmt.Errorf("failed to load baseline: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs = reconcile.Reconcile(s.schema, s.records, baseline, reconcile.Options{
		DetectDeleted: s.opts.DetectDeleted && source != nil,
	})
	s.reconciled = true
	// ids of replaced pairs are retired; the counter keeps counting
	s.byID = make(map[int]*reconcile.Pair[T], len(s.pairs))

	s.log.Debug("Session reconciled",
		zap.String("type", s.schema.Name),
		zap.Int("records", len(s.records)),
		zap.Int("pairs", len(s.pairs)),
	)
	return nil
}

// Reconciled reports whether pairs are available.
func (s *Session[T]) Reconciled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciled
}

// Pairs returns the pairs in reconciliation order.
func (s *Session[T]) Pairs() []*reconcile.Pair[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*reconcile.Pair[T](nil), s.pairs...)
}

// EntryID returns the display id of pair, assigning the next one on first
// request.
func (s *Session[T]) EntryID(pair *reconcile.Pair[T]) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryID(pair)
}

func (s *Session[T]) entryID(pair *reconcile.Pair[T]) int {
	id := pair.EnsureID(func() int {
		s.nextID++
		return s.nextID
	})
	s.byID[id] = pair
	return id
}

// Counts tallies the pairs per status. It is recomputed on every call so
// errors added after reconciliation are reflected.
func (s *Session[T]) Counts() map[reconcile.Status]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reconcile.Count(s.schema, s.pairs)
}

// CreateEntries returns the display entries of every pair the filter lets
// through, assigning ids on the way.
func (s *Session[T]) CreateEntries(filter Filter) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.pairs))
	for _, p := range s.pairs {
		status := p.Status(s.schema)
		if !filter.Allows(status) {
			continue
		}

		e := Entry{
			ID:       s.entryID(p),
			Key:      p.Key(s.schema),
			Line:     p.Line,
			Status:   status,
			Incoming: s.schema.Values(p.Incoming),
			Baseline: s.schema.Values(p.Baseline),
			Errors:   p.Errors(),
		}
		if diff := p.Diff(s.schema); len(diff) > 0 {
			e.Diff = make(map[string]string, len(diff))
			for k, v := range diff {
				e.Diff[k] = utils.ToString(v)
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// Select returns the pairs with the given display ids, in id order of the
// request. Unknown ids are reported together.
func (s *Session[T]) Select(ids []int) ([]*reconcile.Pair[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reconciled {
		return nil, ErrNotReconciled
	}

	out := make([]*reconcile.Pair[T], 0, len(ids))
	var missing []int
	for _, id := range ids {
		p, ok := s.byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, p)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownEntry, missing)
	}
	return out, nil
}

// SelectByStatus returns every pair whose status is one of statuses.
func (s *Session[T]) SelectByStatus(statuses ...reconcile.Status) ([]*reconcile.Pair[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reconciled {
		return nil, ErrNotReconciled
	}

	want := make(map[reconcile.Status]struct{}, len(statuses))
	for _, st := range statuses {
		want[st] = struct{}{}
	}
	out := make([]*reconcile.Pair[T], 0)
	for _, p := range s.pairs {
		if _, ok := want[p.Status(s.schema)]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
