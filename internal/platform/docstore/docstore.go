// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

/*
Package docstore exposes the catalog's storage as an opaque document store:
named collections of JSON documents with predicate queries and an atomic,
size-capped batch write primitive.

Architecture:

  - Store: an explicitly constructed, injected handle. No package-level
    singleton; every engine receives its Store through its constructor.
  - Query: a composable predicate list. Engines state WHAT filters apply;
    a single execution path per implementation assembles the final query,
    so adding a filter never forks the storage code.
  - Batches: one commit applies at most [MaxBatchOps] writes atomically.
    The cap is a hard contract, not tuning — exceeding it fails the whole
    commit. [BatchQueue] handles the chunk-and-flush discipline.

Two implementations ship: postgres (JSONB, production) and memory (tests).
*/
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// MaxBatchOps is the hard per-commit write limit of the store.
const MaxBatchOps = 500

// ErrNotFound is returned by Get when no document has the requested id.
var ErrNotFound = errors.New("docstore: document not found")

// Document is one stored record: an id plus its raw JSON body.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Decode unmarshals the document body into target.
func (d Document) Decode(target any) error {
	if err := json.Unmarshal(d.Data, target); err != nil {
		return fmt.Errorf("docstore: decode document %s: %w", d.ID, err)
	}
	return nil
}

// Encode marshals a domain value into a document body.
func Encode(value any) (json.RawMessage, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode document: %w", err)
	}
	return data, nil
}

// # Queries

// Op is a query predicate operator.
type Op string

const (
	// OpEqual matches a string field exactly.
	OpEqual Op = "=="
	// OpGreaterEqual and OpLessEqual compare string fields lexically
	// (ISO dates order correctly under lexical comparison).
	OpGreaterEqual Op = ">="
	OpLessEqual    Op = "<="
	// OpArrayContains matches when a string-array field contains the value.
	OpArrayContains Op = "array-contains"
)

// Predicate is one filter condition on a document field.
type Predicate struct {
	Field string
	Op    Op
	Value string
}

// Query is an immutable-by-convention predicate list with optional ordering,
// cursor, and limit. The zero value matches every document.
type Query struct {
	Predicates   []Predicate
	OrderField   string
	Descending   bool
	StartAfterID string
	MaxResults   int
}

// Where appends a predicate and returns the query for chaining.
func (q Query) Where(field string, op Op, value string) Query {
	q.Predicates = append(q.Predicates, Predicate{Field: field, Op: op, Value: value})
	return q
}

// OrderBy sets the ordering field and direction.
func (q Query) OrderBy(field string, descending bool) Query {
	q.OrderField = field
	q.Descending = descending
	return q
}

// StartAfter resumes the result set strictly after the document with the
// given id in the query's order. The id is the one returned on the previous
// page; an unknown id yields an empty page.
func (q Query) StartAfter(id string) Query {
	q.StartAfterID = id
	return q
}

// Limit caps the number of returned documents. Zero means no cap.
func (q Query) Limit(n int) Query {
	q.MaxResults = n
	return q
}

// # Store Contract

// Collection is one named set of documents.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Get fetches one document by id. Returns [ErrNotFound] if absent.
	Get(ctx context.Context, id string) (Document, error)

	// All fetches every document, ordered by id for determinism.
	All(ctx context.Context) ([]Document, error)

	// Find fetches the documents matching the query.
	Find(ctx context.Context, query Query) ([]Document, error)

	// Create stores a new document under a store-assigned id and returns it.
	Create(ctx context.Context, data json.RawMessage) (string, error)

	// Set stores a document under the given id, overwriting any existing one.
	Set(ctx context.Context, id string, data json.RawMessage) error

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

// WriteKind discriminates batched write operations.
type WriteKind int

const (
	// WriteSet creates or overwrites a document.
	WriteSet WriteKind = iota
	// WriteDelete removes a document.
	WriteDelete
)

// Write is one pending operation inside a batch commit.
type Write struct {
	Collection string
	ID         string
	Kind       WriteKind
	Data       json.RawMessage
}

// Store is the injected document-store handle.
type Store interface {
	// Collection returns the named collection.
	Collection(name string) Collection

	// Commit atomically applies up to [MaxBatchOps] writes. Either every
	// write in the chunk applies or none does; a failed commit leaves
	// earlier commits untouched.
	Commit(ctx context.Context, writes []Write) error
}
