package reconcile

import (
	"errors"
	"sync"

	"data-importer/core/entity"
)

// Status classifies a reconciled pair.
type Status string

const (
	StatusNew                 Status = "NEW"
	StatusDeleted             Status = "DELETED"
	StatusModified            Status = "MODIFIED"
	StatusUnmodified          Status = "UNMODIFIED"
	StatusUnknownModification Status = "UNKNOWN_MODIFICATION"
	StatusFaulty              Status = "FAULTY"
	StatusUnknown             Status = "UNKNOWN"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusNew,
	StatusModified,
	StatusUnmodified,
	StatusDeleted,
	StatusFaulty,
	StatusUnknownModification,
	StatusUnknown,
}

// ParseStatus resolves a status name case-sensitively.
func ParseStatus(name string) (Status, bool) {
	for _, s := range Statuses {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// ErrEmptyPair is returned by NewPair when both sides are nil.
var ErrEmptyPair = errors.New("pair needs an incoming or a baseline record")

// Pair joins an incoming record with its baseline counterpart. Either side
// may be nil, not both. Status and diff are computed on first request and
// memoized; recording an error invalidates the memo.
type Pair[T any] struct {
	Incoming *T
	Baseline *T
	// Line is the source line of the incoming record, 0 for deletions.
	Line int

	mu       sync.Mutex
	errs     []string
	computed bool
	status   Status
	diff     map[string]any
	id       int
}

// NewPair creates a pair carrying the given row errors.
func NewPair[T any](incoming, baseline *T, errs ...string) (*Pair[T], error) {
	if incoming == nil && baseline == nil {
		return nil, ErrEmptyPair
	}
	return &Pair[T]{
		Incoming: incoming,
		Baseline: baseline,
		errs:     append([]string(nil), errs...),
	}, nil
}

// AddError records an error; the pair becomes FAULTY.
func (p *Pair[T]) AddError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, msg)
	p.computed = false
}

// Errors returns a copy of the recorded errors.
func (p *Pair[T]) Errors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.errs...)
}

// Status classifies the pair:
//
//	errors recorded           FAULTY
//	both sides nil            UNKNOWN
//	no incoming record        DELETED
//	no baseline record        NEW
//	diff indeterminate        UNKNOWN_MODIFICATION
//	diff not empty            MODIFIED
//	otherwise                 UNMODIFIED
func (p *Pair[T]) Status(schema *entity.Schema[T]) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.compute(schema)
	return p.status
}

// Diff returns the properties that differ, valued by the baseline's value.
// It is empty unless both sides are present.
func (p *Pair[T]) Diff(schema *entity.Schema[T]) map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.compute(schema)

	out := make(map[string]any, len(p.diff))
	for k, v := range p.diff {
		out[k] = v
	}
	return out
}

// Key returns the identity of whichever side is present, incoming first.
func (p *Pair[T]) Key(schema *entity.Schema[T]) string {
	if p.Incoming != nil {
		return schema.Key(p.Incoming)
	}
	if p.Baseline != nil {
		return schema.Key(p.Baseline)
	}
	return ""
}

// EnsureID returns the pair's display id, taking one from next on first use.
func (p *Pair[T]) EnsureID(next func() int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.id == 0 {
		p.id = next()
	}
	return p.id
}

// ID returns the display id, 0 when none was assigned yet.
func (p *Pair[T]) ID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

func (p *Pair[T]) compute(schema *entity.Schema[T]) {
	if p.computed {
		return
	}
	p.diff = nil

	switch {
	case len(p.errs) > 0:
		p.status = StatusFaulty
	case p.Incoming == nil && p.Baseline == nil:
		p.status = StatusUnknown
	case p.Incoming == nil:
		p.status = StatusDeleted
	case p.Baseline == nil:
		p.status = StatusNew
	default:
		diff, ok := Compare(schema, p.Incoming, p.Baseline)
		switch {
		case !ok:
			p.status = StatusUnknownModification
		case len(diff) > 0:
			p.status = StatusModified
			p.diff = diff
		default:
			p.status = StatusUnmodified
		}
	}
	p.computed = true
}
