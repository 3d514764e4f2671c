// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package aggregate

import (
	"context"
	"fmt"
	"sort"

	"github.com/sohayama/kikira/internal/platform/constants"
	"github.com/sohayama/kikira/internal/platform/docstore"
)

// docstoreRepository implements [Repository] over the tags and actors
// collections, reading source values straight from the products collection.
type docstoreRepository struct {
	store docstore.Store
}

// NewRepository creates the docstore-backed aggregate repository.
func NewRepository(store docstore.Store) Repository {
	return &docstoreRepository{store: store}
}

// collectionName maps a kind to its collection. Unknown kinds panic: the
// service validates kinds at its boundary, so this is a programming error.
func collectionName(kind Kind) string {
	switch kind {
	case KindTags:
		return constants.CollectionTags
	case KindActors:
		return constants.CollectionActors
	}
	panic(fmt.Sprintf("aggregate: unknown kind %q", kind))
}

// sourceField maps a kind to the catalog entry field it counts.
func sourceField(kind Kind) string {
	if kind == KindActors {
		return "cast"
	}
	return "tags"
}

func (repo *docstoreRepository) List(ctx context.Context, kind Kind, limit, offset int) ([]*Aggregate, int, error) {
	query := docstore.Query{}.OrderBy("count", true)

	documents, err := repo.store.Collection(collectionName(kind)).Find(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	counters := make([]*Aggregate, 0, len(documents))
	for _, document := range documents {
		counter, err := decodeCounter(document)
		if err != nil {
			return nil, 0, err
		}
		counters = append(counters, counter)
	}

	// The store orders by count; equal counts list alphabetically.
	sort.SliceStable(counters, func(i, j int) bool {
		if counters[i].Count != counters[j].Count {
			return counters[i].Count > counters[j].Count
		}
		return counters[i].Name < counters[j].Name
	})

	total := len(counters)

	if offset >= len(counters) {
		return []*Aggregate{}, total, nil
	}
	counters = counters[offset:]
	if limit > 0 && len(counters) > limit {
		counters = counters[:limit]
	}

	return counters, total, nil
}

func (repo *docstoreRepository) All(ctx context.Context, kind Kind) (map[string]*Aggregate, error) {
	documents, err := repo.store.Collection(collectionName(kind)).All(ctx)
	if err != nil {
		return nil, err
	}

	counters := make(map[string]*Aggregate, len(documents))
	for _, document := range documents {
		counter, err := decodeCounter(document)
		if err != nil {
			return nil, err
		}
		counters[counter.ID] = counter
	}

	return counters, nil
}

func (repo *docstoreRepository) SourceValues(ctx context.Context, kind Kind) ([][]string, error) {
	documents, err := repo.store.Collection(constants.CollectionProducts).All(ctx)
	if err != nil {
		return nil, err
	}

	field := sourceField(kind)
	values := make([][]string, 0, len(documents))

	for _, document := range documents {
		var entry struct {
			Tags []string `json:"tags"`
			Cast []string `json:"cast"`
		}
		if err := document.Decode(&entry); err != nil {
			return nil, err
		}

		if field == "cast" {
			values = append(values, entry.Cast)
		} else {
			values = append(values, entry.Tags)
		}
	}

	return values, nil
}

func (repo *docstoreRepository) NewWriter() Writer {
	return &docstoreWriter{queue: docstore.NewBatchQueue(repo.store)}
}

type docstoreWriter struct {
	queue *docstore.BatchQueue
}

func (writer *docstoreWriter) Set(ctx context.Context, kind Kind, counter *Aggregate) error {
	return writer.queue.Set(ctx, collectionName(kind), counter.ID, counter)
}

func (writer *docstoreWriter) Delete(ctx context.Context, kind Kind, id string) error {
	return writer.queue.Delete(ctx, collectionName(kind), id)
}

func (writer *docstoreWriter) Flush(ctx context.Context) error {
	return writer.queue.Flush(ctx)
}

func (writer *docstoreWriter) Commits() int {
	return writer.queue.Commits()
}

func decodeCounter(document docstore.Document) (*Aggregate, error) {
	var counter Aggregate
	if err := document.Decode(&counter); err != nil {
		return nil, err
	}
	counter.ID = document.ID
	return &counter, nil
}
