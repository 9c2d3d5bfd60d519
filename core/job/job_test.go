package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"data-importer/core/entity"
	"data-importer/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type record struct {
	Key  string
	Name string
}

func recordSchema() *entity.Schema[record] {
	return &entity.Schema[record]{
		Name: "record",
		New:  func() *record { return &record{} },
		Key:  func(r *record) string { return r.Key },
		Properties: []entity.Property[record]{
			entity.String("key", "Key", func(r *record) *string { return &r.Key }),
			entity.String("name", "Name", func(r *record) *string { return &r.Name }),
		},
	}
}

func pair(t *testing.T, incoming, baseline *record, errs ...string) *reconcile.Pair[record] {
	t.Helper()
	p, err := reconcile.NewPair(incoming, baseline, errs...)
	require.NoError(t, err)
	return p
}

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) Insert(ctx context.Context, r *record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockPersister) Update(ctx context.Context, incoming, baseline *record) error {
	return m.Called(ctx, incoming, baseline).Error(0)
}

func (m *mockPersister) Delete(ctx context.Context, r *record) error {
	return m.Called(ctx, r).Error(0)
}

// countingPersister applies everything and runs onInsert after each insert.
type countingPersister struct {
	mu       sync.Mutex
	inserted int
	onInsert func(n int)
	delay    time.Duration
}

func (c *countingPersister) Insert(context.Context, *record) error {
	time.Sleep(c.delay)
	c.mu.Lock()
	c.inserted++
	n := c.inserted
	c.mu.Unlock()
	if c.onInsert != nil {
		c.onInsert(n)
	}
	return nil
}

func (c *countingPersister) Update(context.Context, *record, *record) error { return nil }

func (c *countingPersister) Delete(context.Context, *record) error { return nil }

func (c *countingPersister) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inserted
}

func newPairs(t *testing.T, n int) []*reconcile.Pair[record] {
	pairs := make([]*reconcile.Pair[record], 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, pair(t, &record{Key: fmt.Sprintf("K%04d", i), Name: "n"}, nil))
	}
	return pairs
}

func TestRunAppliesByStatus(t *testing.T) {
	schema := recordSchema()
	newRec := &record{Key: "N", Name: "new"}
	modIn, modBase := &record{Key: "M", Name: "after"}, &record{Key: "M", Name: "before"}
	delRec := &record{Key: "D", Name: "gone"}

	pairs := []*reconcile.Pair[record]{
		pair(t, newRec, nil),
		pair(t, modIn, modBase),
		pair(t, delRec, nil),
		pair(t, nil, delRec),
		pair(t, &record{Key: "U", Name: "same"}, &record{Key: "U", Name: "same"}),
		pair(t, &record{Key: "F"}, nil, "missing name"),
	}
	pairs[2] = pair(t, &record{Key: "X", Name: "fails"}, nil)
	pairs[2].Line = 4

	p := new(mockPersister)
	p.On("Insert", mock.Anything, newRec).Return(nil)
	p.On("Insert", mock.Anything, pairs[2].Incoming).Return(errors.New("duplicate entry"))
	p.On("Update", mock.Anything, modIn, modBase).Return(nil)
	p.On("Delete", mock.Anything, delRec).Return(nil)

	statuses := map[reconcile.Status]int{}
	for _, pr := range pairs {
		statuses[pr.Status(schema)]++
	}
	j := New("job-1", schema, Expected(statuses), Options{})
	res, err := j.Run(context.Background(), pairs, p)
	require.NoError(t, err)
	p.AssertExpectations(t)

	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, Counts{Inserted: 1, Updated: 1, Deleted: 1, Unmodified: 1, Skipped: 1}, res.Achieved)
	assert.Equal(t, Counts{Inserted: 2, Updated: 1, Deleted: 1, Unmodified: 1, Skipped: 1}, res.Expected)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "entry X (line 4): insert failed: duplicate entry", res.Errors[0])
	assert.Contains(t, res.Errors[1], "status FAULTY cannot be applied")
	assert.Equal(t, reconcile.StatusFaulty, pairs[2].Status(schema), "failed item is marked on the pair")

	st := j.Status()
	assert.Equal(t, 100, st.Percent)
	assert.Equal(t, "6 of 6 entries processed", st.Text)

	_, err = j.Run(context.Background(), pairs, p)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestRunDryRun(t *testing.T) {
	p := new(mockPersister)
	j := New("dry", recordSchema(), Counts{}, Options{DryRun: true})

	res, err := j.Run(context.Background(), newPairs(t, 3), p)
	require.NoError(t, err)
	p.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assert.Equal(t, 3, res.Achieved.Inserted)
	assert.True(t, res.DryRun)
}

func TestRunCancelAfterTenOfThousand(t *testing.T) {
	j := New("cancel", recordSchema(), Counts{Inserted: 1000}, Options{})
	p := &countingPersister{onInsert: func(n int) {
		if n == 10 {
			j.Cancel()
		}
	}}

	res, err := j.Run(context.Background(), newPairs(t, 1000), p)
	require.NoError(t, err)

	assert.Equal(t, StateCancelled, res.State)
	assert.Equal(t, 10, p.count())
	assert.Equal(t, 10, res.Achieved.Inserted)
	assert.Equal(t, 10, res.Processed)
	assert.Equal(t, 1, j.Status().Percent)
}

func TestRunTimeout(t *testing.T) {
	j := New("slow", recordSchema(), Counts{}, Options{Timeout: 30 * time.Millisecond})
	p := &countingPersister{delay: 10 * time.Millisecond}

	res, err := j.Run(context.Background(), newPairs(t, 100), p)
	require.NoError(t, err)

	assert.Equal(t, StateTimedOut, res.State)
	assert.Less(t, p.count(), 100)
	assert.Equal(t, p.count(), res.Achieved.Inserted)
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j := New("ctx", recordSchema(), Counts{}, Options{})
	res, err := j.Run(ctx, newPairs(t, 5), &countingPersister{})
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, res.State)
	assert.Zero(t, res.Processed)
}

func TestResultMarkdown(t *testing.T) {
	res := Result{
		ID:        "abc",
		State:     StateCompleted,
		Expected:  Counts{Inserted: 2},
		Achieved:  Counts{Inserted: 1},
		Processed: 2,
		Total:     2,
		Errors:    []string{"entry A: insert failed: boom"},
	}

	md := res.Markdown()
	assert.Contains(t, md, "# Import result")
	assert.Contains(t, md, "- State: **completed**")
	assert.Contains(t, md, "| Inserted | 2 | 1 |")
	assert.Contains(t, md, "1. entry A: insert failed: boom")

	res.Errors = nil
	res.DryRun = true
	md = res.Markdown()
	assert.Contains(t, md, "(dry run)")
	assert.Contains(t, md, "No errors.")
}
