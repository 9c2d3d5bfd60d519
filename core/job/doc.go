// Package job applies a selection of reconciled pairs to the target store.
//
// A Job walks its pairs once and dispatches on the pair status:
//
//	NEW         Persister.Insert
//	MODIFIED    Persister.Update
//	DELETED     Persister.Delete
//	UNMODIFIED  counted only
//	other       recorded as skipped with an error
//
// Item failures are recorded and the run continues. Before every item the
// job checks its cancel flag and its deadline, so Cancel and Options.Timeout
// take effect between items and never roll back what was applied.
//
// Monitor runs jobs on their own goroutine:
//
//	id := job.Start(ctx, monitor, schema, pairs, job.Expected(s.Counts()), store, job.Options{Timeout: time.Minute}, nil)
//	st, _ := monitor.Status(id)
//	_ = monitor.Cancel(id)
package job
