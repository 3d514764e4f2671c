// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package aggregate

import "context"

// Repository defines the data access contract for aggregate counters.
type Repository interface {
	// List returns a page of counters ordered by count descending (name as
	// tiebreak) and the total number of counters of that kind.
	List(ctx context.Context, kind Kind, limit, offset int) ([]*Aggregate, int, error)

	// All returns every counter of the kind, keyed by document id.
	All(ctx context.Context, kind Kind) (map[string]*Aggregate, error)

	// SourceValues returns, per catalog entry, the name list the kind counts
	// (tags or cast). Entries without the field contribute an empty list.
	SourceValues(ctx context.Context, kind Kind) ([][]string, error)

	// NewWriter returns a batched writer for counter mutations. Writes are
	// chunked and committed atomically per chunk; Flush commits the tail.
	NewWriter() Writer
}

// Writer applies counter mutations through the store's batch discipline.
type Writer interface {
	Set(ctx context.Context, kind Kind, counter *Aggregate) error
	Delete(ctx context.Context, kind Kind, id string) error
	Flush(ctx context.Context) error

	// Commits reports how many batch commits have been issued.
	Commits() int
}
