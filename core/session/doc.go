// Package session holds the state of one upload between parsing and commit.
//
// A Session is the extract.Sink of a parse: it collects rows, resolved and
// unknown headers, and warnings. Reconcile then pairs the rows with a
// baseline and the session answers display queries (CreateEntries, Counts)
// and selections for a job (Select, SelectByStatus).
//
// Display ids are assigned the first time a pair is shown and stay stable
// until the next reconciliation.
//
//	s := session.New(schema, settings, session.Options{DetectDeleted: true})
//	stats, err := pipeline.Parse(ctx, file, s)
//	err = s.Reconcile(ctx, baselineCache)
//	entries := s.CreateEntries(session.FilterOf(reconcile.StatusModified))
package session
