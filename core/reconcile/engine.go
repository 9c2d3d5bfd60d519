package reconcile

import (
	"fmt"
	"sort"

	"data-importer/core/entity"
)

// Record is one parsed row handed to Reconcile.
type Record[T any] struct {
	Entity *T
	Line   int
	Errors []string
}

// Options controls pairing.
type Options struct {
	// DetectDeleted turns baseline records missing from the file into
	// DELETED pairs.
	DetectDeleted bool
}

// Reconcile pairs every record with the baseline entry of the same key.
// A record with an empty key, or with a key already used by an earlier
// record, gets an error and is not matched. Output order is file order
// followed by deletions sorted by key. Neither records nor baseline
// entries are modified.
func Reconcile[T any](schema *entity.Schema[T], records []Record[T], baseline map[string]*T, opts Options) []*Pair[T] {
	pairs := make([]*Pair[T], 0, len(records))
	firstLine := make(map[string]int, len(records))

	for _, rec := range records {
		if rec.Entity == nil {
			continue
		}
		key := schema.Key(rec.Entity)
		errs := append([]string(nil), rec.Errors...)

		var base *T
		switch line, dup := firstLine[key]; {
		case key == "":
			errs = append(errs, "missing identity")
		case dup:
			errs = append(errs, fmt.Sprintf("duplicate identity %s, first seen on line %d", key, line))
		default:
			firstLine[key] = rec.Line
			base = baseline[key]
		}

		pair, _ := NewPair(rec.Entity, base, errs...)
		pair.Line = rec.Line
		pairs = append(pairs, pair)
	}

	if !opts.DetectDeleted {
		return pairs
	}

	missing := make([]string, 0)
	for key, b := range baseline {
		if b == nil {
			continue
		}
		if _, seen := firstLine[key]; !seen {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	for _, key := range missing {
		pair, _ := NewPair(nil, baseline[key])
		pairs = append(pairs, pair)
	}
	return pairs
}

// Count tallies pairs per status.
func Count[T any](schema *entity.Schema[T], pairs []*Pair[T]) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, p := range pairs {
		counts[p.Status(schema)]++
	}
	return counts
}
