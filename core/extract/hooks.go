package extract

import "data-importer/core/mapping"

// Row carries one parsed entity, its 1-based source line and the row-level
// errors raised by hooks. A row with errors reconciles as FAULTY.
type Row[T any] struct {
	Entity *T
	Line   int
	Errors []string
}

// AddError records a row-level error.
func (r *Row[T]) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Hooks are the extension points an import type can override. Embed
// NopHooks[T] and override only what is needed.
type Hooks[T any] interface {
	// RewriteHeaders may rename or reorder the cleaned header cells.
	RewriteHeaders(headers []string) []string
	// CustomField may take over a cell. Returning true skips the standard
	// coercion for it. Otherwise rest replaces the raw text for the
	// following steps, which lets a hook strip decoration from a value and
	// still leave the number to the column-wide decimal detection.
	CustomField(e *T, property, raw string) (rest string, handled bool, err error)
	// PostProcessRow runs after all cells of a row were set and returns
	// row-level errors.
	PostProcessRow(row *Row[T]) []string
	// Finalize runs once over all rows for cross-row checks.
	Finalize(rows []*Row[T])
}

// NopHooks implements Hooks without changing anything.
type NopHooks[T any] struct{}

func (NopHooks[T]) RewriteHeaders(headers []string) []string { return headers }

func (NopHooks[T]) CustomField(_ *T, _, raw string) (string, bool, error) { return raw, false, nil }

func (NopHooks[T]) PostProcessRow(*Row[T]) []string { return nil }

func (NopHooks[T]) Finalize([]*Row[T]) {}

// Sink receives what the pipeline extracts. The import session implements it.
type Sink[T any] interface {
	// Settings returns the mapping registry, declared charset and location.
	Settings() *mapping.Settings
	// OverrideField may replace a cell with a session-level value. It runs
	// after Hooks.CustomField and before coercion, with the same contract.
	OverrideField(e *T, property, raw string) (rest string, handled bool, err error)
	// AddDetected records a header that resolved to a mapping.
	AddDetected(header string, m mapping.FieldMapping)
	// AddUnknown records a header that matched no mapping.
	AddUnknown(header string)
	// Commit hands over a finished row.
	Commit(row Row[T]) error
	// Warn records a non-fatal problem for the user.
	Warn(msg string)
}
