package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"data-importer/core/entity"
	"data-importer/core/reconcile"

	"go.uber.org/zap"
)

// State of a job.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateTimedOut  State = "timed_out"
)

// Done reports whether the state is final.
func (s State) Done() bool {
	return s == StateCompleted || s == StateCancelled || s == StateTimedOut
}

// ErrAlreadyStarted is returned when Run is called twice.
var ErrAlreadyStarted = errors.New("job already started")

// Persister writes applied pairs to the target store.
type Persister[T any] interface {
	Insert(ctx context.Context, incoming *T) error
	Update(ctx context.Context, incoming, baseline *T) error
	Delete(ctx context.Context, baseline *T) error
}

// Counts are the per action totals of a job.
type Counts struct {
	Inserted   int `json:"inserted"`
	Updated    int `json:"updated"`
	Deleted    int `json:"deleted"`
	Unmodified int `json:"unmodified"`
	Skipped    int `json:"skipped"`
}

// Total sums every counter.
func (c Counts) Total() int {
	return c.Inserted + c.Updated + c.Deleted + c.Unmodified + c.Skipped
}

// Expected converts session status counts into the totals a job should reach.
func Expected(counts map[reconcile.Status]int) Counts {
	return Counts{
		Inserted:   counts[reconcile.StatusNew],
		Updated:    counts[reconcile.StatusModified],
		Deleted:    counts[reconcile.StatusDeleted],
		Unmodified: counts[reconcile.StatusUnmodified],
		Skipped: counts[reconcile.StatusFaulty] +
			counts[reconcile.StatusUnknown] +
			counts[reconcile.StatusUnknownModification],
	}
}

// Options controls a job.
type Options struct {
	// Timeout bounds the run; zero means no deadline.
	Timeout time.Duration
	// DryRun counts the actions without calling the persister.
	DryRun bool
	Logger *zap.Logger
}

// Status is a snapshot for polling callers.
type Status struct {
	State   State  `json:"state"`
	Percent int    `json:"percent"`
	Text    string `json:"text"`
}

// Job applies selected pairs to the target store. It is cancellable
// between items and stops at its deadline.
type Job[T any] struct {
	id       string
	schema   *entity.Schema[T]
	expected Counts
	opts     Options
	log      *zap.Logger

	cancelled atomic.Bool

	mu       sync.Mutex
	state    State
	total    int
	done     int
	achieved Counts
	errs     []string
	started  time.Time
	finished time.Time
}

// New creates a pending job. expected is the snapshot of the session totals
// at selection time.
func New[T any](id string, schema *entity.Schema[T], expected Counts, opts Options) *Job[T] {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Job[T]{
		id:       id,
		schema:   schema,
		expected: expected,
		opts:     opts,
		log:      log.With(zap.String("job_id", id)),
		state:    StatePending,
	}
}

// ID returns the job id.
func (j *Job[T]) ID() string {
	return j.id
}

// Cancel asks the job to stop before its next item. Items already applied
// stay applied.
func (j *Job[T]) Cancel() {
	j.cancelled.Store(true)
}

// Run applies pairs in order: NEW inserts, MODIFIED updates, DELETED
// deletes and UNMODIFIED is only counted. Other statuses and persister
// failures are recorded as errors and do not stop the run.
func (j *Job[T]) Run(ctx context.Context, pairs []*reconcile.Pair[T], persister Persister[T]) (Result, error) {
	j.mu.Lock()
	if j.state != StatePending {
		j.mu.Unlock()
		return Result{}, ErrAlreadyStarted
	}
	j.state = StateRunning
	j.total = len(pairs)
	j.started = time.Now()
	j.mu.Unlock()

	var deadline time.Time
	if j.opts.Timeout > 0 {
		deadline = j.started.Add(j.opts.Timeout)
	}

	j.log.Info("Job started",
		zap.Int("items", len(pairs)),
		zap.Bool("dry_run", j.opts.DryRun),
		zap.Duration("timeout", j.opts.Timeout),
	)

	final := StateCompleted
	for _, p := range pairs {
		if j.cancelled.Load() || errors.Is(ctx.Err(), context.Canceled) {
			final = StateCancelled
			break
		}
		if (!deadline.IsZero() && !time.Now().Before(deadline)) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			final = StateTimedOut
			break
		}
		j.apply(ctx, p, persister)
	}

	j.mu.Lock()
	j.state = final
	j.finished = time.Now()
	j.mu.Unlock()

	res := j.Result()
	j.log.Info("Job finished",
		zap.String("state", string(final)),
		zap.Int("applied", res.Achieved.Total()),
		zap.Int("errors", len(res.Errors)),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func (j *Job[T]) apply(ctx context.Context, p *reconcile.Pair[T], persister Persister[T]) {
	status := p.Status(j.schema)
	var (
		err    error
		action string
		count  func(*Counts)
	)

	switch status {
	case reconcile.StatusNew:
		action, count = "insert", func(c *Counts) { c.Inserted++ }
		if !j.opts.DryRun {
			err = persister.Insert(ctx, p.Incoming)
		}
	case reconcile.StatusModified:
		action, count = "update", func(c *Counts) { c.Updated++ }
		if !j.opts.DryRun {
			err = persister.Update(ctx, p.Incoming, p.Baseline)
		}
	case reconcile.StatusDeleted:
		action, count = "delete", func(c *Counts) { c.Deleted++ }
		if !j.opts.DryRun {
			err = persister.Delete(ctx, p.Baseline)
		}
	case reconcile.StatusUnmodified:
		count = func(c *Counts) { c.Unmodified++ }
	default:
		err = fmt.Errorf("status %s cannot be applied", status)
		count = func(c *Counts) { c.Skipped++ }
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.done++

	if err != nil {
		msg := fmt.Sprintf("%s: %v", describe(j.schema, p), err)
		if action != "" {
			msg = fmt.Sprintf("%s: %s failed: %v", describe(j.schema, p), action, err)
			p.AddError(msg)
			j.log.Warn("Job item failed", zap.String("key", p.Key(j.schema)), zap.Error(err))
		} else {
			j.achieved.Skipped++
		}
		j.errs = append(j.errs, msg)
		return
	}
	count(&j.achieved)
}

func describe[T any](schema *entity.Schema[T], p *reconcile.Pair[T]) string {
	if p.Line > 0 {
		return fmt.Sprintf("entry %s (line %d)", p.Key(schema), p.Line)
	}
	return fmt.Sprintf("entry %s", p.Key(schema))
}

// Status returns the state and progress.
func (j *Job[T]) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	percent := 0
	switch {
	case j.state == StateCompleted:
		percent = 100
	case j.total > 0:
		percent = j.done * 100 / j.total
	}
	return Status{
		State:   j.state,
		Percent: percent,
		Text:    fmt.Sprintf("%d of %d entries processed", j.done, j.total),
	}
}

// Result returns the outcome so far.
func (j *Job[T]) Result() Result {
	j.mu.Lock()
	defer j.mu.Unlock()

	end := j.finished
	if end.IsZero() && !j.started.IsZero() {
		end = time.Now()
	}
	var d time.Duration
	if !j.started.IsZero() {
		d = end.Sub(j.started)
	}
	return Result{
		ID:        j.id,
		State:     j.state,
		DryRun:    j.opts.DryRun,
		Expected:  j.expected,
		Achieved:  j.achieved,
		Processed: j.done,
		Total:     j.total,
		Errors:    append([]string(nil), j.errs...),
		Duration:  d,
	}
}
