package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"data-importer/core/entity"
	"data-importer/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown or purged job ids.
var ErrNotFound = errors.New("job not found")

// Tracked is what the monitor needs from a job regardless of its type.
type Tracked interface {
	ID() string
	Status() Status
	Result() Result
	Cancel()
}

type tracked struct {
	job  Tracked
	done chan struct{}
}

// Monitor runs jobs in the background and answers status queries until a
// finished job's retention expires.
type Monitor struct {
	retention time.Duration
	log       *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*tracked
}

// NewMonitor creates a monitor. A zero retention keeps finished jobs until
// Remove is called.
func NewMonitor(retention time.Duration, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		retention: retention,
		log:       log,
		jobs:      make(map[string]*tracked),
	}
}

// Start creates a job with a new id, runs it on its own goroutine and
// returns the id immediately. onDone, when set, receives the final result
// after the job finished.
func Start[T any](
	ctx context.Context,
	m *Monitor,
	schema *entity.Schema[T],
	pairs []*reconcile.Pair[T],
	expected Counts,
	persister Persister[T],
	opts Options,
	onDone func(Result),
) string {
	id := uuid.NewString()
	if opts.Logger == nil {
		opts.Logger = m.log
	}
	j := New(id, schema, expected, opts)
	t := &tracked{job: j, done: make(chan struct{})}

	m.mu.Lock()
	m.jobs[id] = t
	m.mu.Unlock()

	// the request that started the job may end long before the job does
	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(t.done)
		res, err := j.Run(runCtx, pairs, persister)
		if err != nil {
			m.log.Error("Job could not run", zap.String("job_id", id), zap.Error(err))
			return
		}
		if onDone != nil {
			onDone(res)
		}
		if m.retention > 0 {
			time.AfterFunc(m.retention, func() { m.Remove(id) })
		}
	}()
	return id
}

func (m *Monitor) get(id string) (*tracked, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// Status returns the progress of a job.
func (m *Monitor) Status(id string) (Status, error) {
	t, err := m.get(id)
	if err != nil {
		return Status{}, err
	}
	return t.job.Status(), nil
}

// Result returns the result of a job, partial while it runs.
func (m *Monitor) Result(id string) (Result, error) {
	t, err := m.get(id)
	if err != nil {
		return Result{}, err
	}
	return t.job.Result(), nil
}

// Cancel asks a job to stop.
func (m *Monitor) Cancel(id string) error {
	t, err := m.get(id)
	if err != nil {
		return err
	}
	t.job.Cancel()
	return nil
}

// Wait blocks until the job finished or ctx is done.
func (m *Monitor) Wait(ctx context.Context, id string) (Result, error) {
	t, err := m.get(id)
	if err != nil {
		return Result{}, err
	}
	select {
	case <-t.done:
		return t.job.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Remove forgets a job. Running jobs are cancelled first.
func (m *Monitor) Remove(id string) {
	m.mu.Lock()
	t, ok := m.jobs[id]
	delete(m.jobs, id)
	m.mu.Unlock()

	if ok && !t.job.Status().State.Done() {
		t.job.Cancel()
	}
}

// Len returns the number of tracked jobs.
func (m *Monitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}
