// Package extract is the row extraction pipeline.
//
// Parse walks Idle -> HeadersRead -> RowParsed* -> Finalized:
//
//  1. detect and decode the charset, detect the delimiter, read the header
//  2. resolve headers through the mapping registry (unknown headers are
//     reported and their cells ignored)
//  3. build one entity per data line up to the row cap; every mapped cell
//     passes Hooks.CustomField, Sink.OverrideField, then coercion; either
//     hook may hand a rewritten value on instead of taking the cell over
//  4. decide the decimal notation of deferred columns and set their values
//  5. Hooks.Finalize for cross-row checks
//  6. Sink.Commit for every row
//
// A bad cell never aborts the import: it is logged, reported to the sink and
// the property stays unset.
package extract
