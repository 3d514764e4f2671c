// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory [Store] for tests. It evaluates the same
// query semantics as the Postgres implementation and records the size of
// every commit so tests can assert on batch chunking behavior.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]json.RawMessage

	// CommitSizes holds the write count of each commit, in order.
	CommitSizes []int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]json.RawMessage),
	}
}

// Collection returns the named collection, creating it on first use.
func (store *MemoryStore) Collection(name string) Collection {
	return &memoryCollection{store: store, name: name}
}

// Commit applies the writes atomically under the store lock.
func (store *MemoryStore) Commit(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	if len(writes) > MaxBatchOps {
		return fmt.Errorf("docstore: commit of %d writes exceeds the %d-op limit", len(writes), MaxBatchOps)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	for _, write := range writes {
		documents := store.documentsLocked(write.Collection)
		switch write.Kind {
		case WriteSet:
			documents[write.ID] = append(json.RawMessage(nil), write.Data...)
		case WriteDelete:
			delete(documents, write.ID)
		default:
			return fmt.Errorf("docstore: unknown write kind %d", write.Kind)
		}
	}

	store.CommitSizes = append(store.CommitSizes, len(writes))
	return nil
}

func (store *MemoryStore) documentsLocked(name string) map[string]json.RawMessage {
	documents, ok := store.collections[name]
	if !ok {
		documents = make(map[string]json.RawMessage)
		store.collections[name] = documents
	}
	return documents
}

type memoryCollection struct {
	store *MemoryStore
	name  string
}

func (collection *memoryCollection) Name() string {
	return collection.name
}

func (collection *memoryCollection) Get(ctx context.Context, id string) (Document, error) {
	collection.store.mu.Lock()
	defer collection.store.mu.Unlock()

	data, ok := collection.store.documentsLocked(collection.name)[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: append(json.RawMessage(nil), data...)}, nil
}

func (collection *memoryCollection) All(ctx context.Context) ([]Document, error) {
	collection.store.mu.Lock()
	defer collection.store.mu.Unlock()

	documents := make([]Document, 0)
	for id, data := range collection.store.documentsLocked(collection.name) {
		documents = append(documents, Document{ID: id, Data: append(json.RawMessage(nil), data...)})
	}
	sort.Slice(documents, func(i, j int) bool { return documents[i].ID < documents[j].ID })
	return documents, nil
}

func (collection *memoryCollection) Find(ctx context.Context, query Query) ([]Document, error) {
	all, err := collection.All(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]Document, 0, len(all))
	decoded := make(map[string]map[string]any, len(all))

	for _, document := range all {
		var fields map[string]any
		if err := json.Unmarshal(document.Data, &fields); err != nil {
			return nil, fmt.Errorf("docstore: decode %s/%s: %w", collection.name, document.ID, err)
		}

		ok, err := matchesAll(fields, query.Predicates)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, document)
			decoded[document.ID] = fields
		}
	}

	if query.OrderField != "" {
		// The id tiebreak follows the sort direction, mirroring the total
		// order the Postgres implementation paginates over.
		sort.SliceStable(matched, func(i, j int) bool {
			valueI := decoded[matched[i].ID][query.OrderField]
			valueJ := decoded[matched[j].ID][query.OrderField]
			if !equalField(valueI, valueJ) {
				if query.Descending {
					return lessField(valueJ, valueI)
				}
				return lessField(valueI, valueJ)
			}
			if query.Descending {
				return matched[i].ID > matched[j].ID
			}
			return matched[i].ID < matched[j].ID
		})
	}

	if query.StartAfterID != "" {
		matched, err = collection.afterCursor(ctx, matched, decoded, query)
		if err != nil {
			return nil, err
		}
	}

	if query.MaxResults > 0 && len(matched) > query.MaxResults {
		matched = matched[:query.MaxResults]
	}

	return matched, nil
}

// afterCursor drops every document at or before the cursor document in the
// query's order. An unknown cursor id yields an empty page, matching the
// Postgres row-value comparison against a missing row.
func (collection *memoryCollection) afterCursor(ctx context.Context, matched []Document, decoded map[string]map[string]any, query Query) ([]Document, error) {
	cursor, err := collection.Get(ctx, query.StartAfterID)
	if errors.Is(err, ErrNotFound) {
		return []Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cursorValue any
	if query.OrderField != "" {
		var fields map[string]any
		if err := json.Unmarshal(cursor.Data, &fields); err != nil {
			return nil, fmt.Errorf("docstore: decode %s/%s: %w", collection.name, cursor.ID, err)
		}
		cursorValue = fields[query.OrderField]
	}

	kept := make([]Document, 0, len(matched))
	for _, document := range matched {
		var after bool
		if query.OrderField == "" {
			after = document.ID > cursor.ID
		} else {
			value := decoded[document.ID][query.OrderField]
			switch {
			case !equalField(value, cursorValue):
				if query.Descending {
					after = lessField(value, cursorValue)
				} else {
					after = lessField(cursorValue, value)
				}
			case query.Descending:
				after = document.ID < cursor.ID
			default:
				after = document.ID > cursor.ID
			}
		}
		if after {
			kept = append(kept, document)
		}
	}
	return kept, nil
}

func (collection *memoryCollection) Create(ctx context.Context, data json.RawMessage) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("docstore: generate id: %w", err)
	}
	if err := collection.Set(ctx, id.String(), data); err != nil {
		return "", err
	}
	return id.String(), nil
}

func (collection *memoryCollection) Set(ctx context.Context, id string, data json.RawMessage) error {
	collection.store.mu.Lock()
	defer collection.store.mu.Unlock()

	collection.store.documentsLocked(collection.name)[id] = append(json.RawMessage(nil), data...)
	return nil
}

func (collection *memoryCollection) Delete(ctx context.Context, id string) error {
	collection.store.mu.Lock()
	defer collection.store.mu.Unlock()

	delete(collection.store.documentsLocked(collection.name), id)
	return nil
}

func matchesAll(fields map[string]any, predicates []Predicate) (bool, error) {
	for _, predicate := range predicates {
		value := fields[predicate.Field]

		switch predicate.Op {
		case OpEqual:
			text, ok := value.(string)
			if !ok || text != predicate.Value {
				return false, nil
			}
		case OpGreaterEqual:
			text, ok := value.(string)
			if !ok || text < predicate.Value {
				return false, nil
			}
		case OpLessEqual:
			text, ok := value.(string)
			if !ok || text > predicate.Value {
				return false, nil
			}
		case OpArrayContains:
			items, ok := value.([]any)
			if !ok {
				return false, nil
			}
			found := false
			for _, item := range items {
				if text, ok := item.(string); ok && text == predicate.Value {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		default:
			return false, fmt.Errorf("docstore: unknown predicate op %q", predicate.Op)
		}
	}
	return true, nil
}

// lessField compares two decoded JSON values the way JSONB ordering does
// for the types the catalog stores: numbers numerically, strings lexically.
func lessField(a, b any) bool {
	numberA, okA := a.(float64)
	numberB, okB := b.(float64)
	if okA && okB {
		return numberA < numberB
	}

	textA, _ := a.(string)
	textB, _ := b.(string)
	return textA < textB
}

func equalField(a, b any) bool {
	return !lessField(a, b) && !lessField(b, a)
}
