// Package reconcile pairs parsed records with the records already stored and
// classifies every pair.
//
// # Pairing
//
// Reconcile joins records and baseline by the schema's key. Records whose key
// is empty or already taken by an earlier line become FAULTY and are never
// matched. With DetectDeleted, baseline entries that no record names become
// DELETED pairs, appended after the file's records in key order.
//
// # Classification
//
// A Pair computes its Status and Diff lazily and keeps them until AddError is
// called. The diff compares the schema's Comparable properties, or every
// property with a getter when Comparable is nil. Comparators override
// equality per property. When the comparison surface cannot be resolved the
// pair is UNKNOWN_MODIFICATION rather than guessed.
//
// # Baseline cache
//
// BaselineCache wraps a BaselineSource with a TTL and collapses concurrent
// loads with singleflight:
//
//	cache := reconcile.NewBaselineCache[models.Product](store, time.Minute)
//	baseline, err := cache.LoadBaseline(ctx)
//	pairs := reconcile.Reconcile(schema, records, baseline, reconcile.Options{DetectDeleted: true})
package reconcile
