// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package docstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohayama/kikira/internal/platform/docstore"
)

type testDoc struct {
	Title       string   `json:"title"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Count       int      `json:"count,omitempty"`
}

func mustSet(t *testing.T, store docstore.Store, collection string, id string, doc testDoc) {
	t.Helper()
	data, err := docstore.Encode(doc)
	require.NoError(t, err)
	require.NoError(t, store.Collection(collection).Set(context.Background(), id, data))
}

/* TestMemoryStore_GetSetDelete */
func TestMemoryStore_GetSetDelete(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()

	mustSet(t, store, "products", "p1", testDoc{Title: "蛇香のライラ"})

	document, err := store.Collection("products").Get(ctx, "p1")
	require.NoError(t, err)

	var decoded testDoc
	require.NoError(t, document.Decode(&decoded))
	assert.Equal(t, "蛇香のライラ", decoded.Title)

	require.NoError(t, store.Collection("products").Delete(ctx, "p1"))

	_, err = store.Collection("products").Get(ctx, "p1")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	// Deleting again must stay silent.
	assert.NoError(t, store.Collection("products").Delete(ctx, "p1"))
}

/* TestMemoryStore_FindPredicates */
func TestMemoryStore_FindPredicates(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()

	mustSet(t, store, "products", "p1", testDoc{Title: "a", ReleaseDate: "2023-04-01", Tags: []string{"乙女", "学園"}})
	mustSet(t, store, "products", "p2", testDoc{Title: "b", ReleaseDate: "2024-06-15", Tags: []string{"乙女"}})
	mustSet(t, store, "products", "p3", testDoc{Title: "c", ReleaseDate: "2024-12-24", Tags: []string{"執事"}})

	testCases := []struct {
		name    string
		query   docstore.Query
		wantIDs []string
	}{
		{
			name:    "array contains narrows to tagged documents",
			query:   docstore.Query{}.Where("tags", docstore.OpArrayContains, "乙女"),
			wantIDs: []string{"p1", "p2"},
		},
		{
			name: "date range uses lexical ISO comparison",
			query: docstore.Query{}.
				Where("releaseDate", docstore.OpGreaterEqual, "2024-01-01").
				Where("releaseDate", docstore.OpLessEqual, "2024-12-31"),
			wantIDs: []string{"p2", "p3"},
		},
		{
			name:    "equality on a scalar field",
			query:   docstore.Query{}.Where("title", docstore.OpEqual, "c"),
			wantIDs: []string{"p3"},
		},
		{
			name:    "descending order with limit",
			query:   docstore.Query{}.OrderBy("releaseDate", true).Limit(2),
			wantIDs: []string{"p3", "p2"},
		},
		{
			name:    "no predicates returns everything in id order",
			query:   docstore.Query{},
			wantIDs: []string{"p1", "p2", "p3"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			documents, err := store.Collection("products").Find(ctx, testCase.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(documents))
			for _, document := range documents {
				ids = append(ids, document.ID)
			}
			assert.Equal(t, testCase.wantIDs, ids)
		})
	}
}

/* TestMemoryStore_CursorPaging */
func TestMemoryStore_CursorPaging(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()

	mustSet(t, store, "products", "p1", testDoc{Title: "a", ReleaseDate: "2023-04-01"})
	mustSet(t, store, "products", "p2", testDoc{Title: "b", ReleaseDate: "2024-06-15"})
	mustSet(t, store, "products", "p3", testDoc{Title: "c", ReleaseDate: "2024-06-15"})
	mustSet(t, store, "products", "p4", testDoc{Title: "d", ReleaseDate: "2024-12-24"})

	collection := store.Collection("products")
	byDateDesc := docstore.Query{}.OrderBy("releaseDate", true).Limit(2)

	// First page: newest two, ties broken by id in sort direction.
	firstPage, err := collection.Find(ctx, byDateDesc)
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	assert.Equal(t, "p4", firstPage[0].ID)
	assert.Equal(t, "p3", firstPage[1].ID)

	// Second page resumes after the last returned id, including the
	// remaining half of the tied date.
	secondPage, err := collection.Find(ctx, byDateDesc.StartAfter(firstPage[1].ID))
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.Equal(t, "p2", secondPage[0].ID)
	assert.Equal(t, "p1", secondPage[1].ID)

	thirdPage, err := collection.Find(ctx, byDateDesc.StartAfter(secondPage[1].ID))
	require.NoError(t, err)
	assert.Empty(t, thirdPage)

	// An unknown cursor yields an empty page, never a restart from the top.
	ghostPage, err := collection.Find(ctx, byDateDesc.StartAfter("deleted-meanwhile"))
	require.NoError(t, err)
	assert.Empty(t, ghostPage)

	// Without an order field the cursor walks plain id order.
	idPage, err := collection.Find(ctx, docstore.Query{}.StartAfter("p2").Limit(10))
	require.NoError(t, err)
	require.Len(t, idPage, 2)
	assert.Equal(t, "p3", idPage[0].ID)
	assert.Equal(t, "p4", idPage[1].ID)
}

/* TestMemoryStore_CommitAtomicLimit */
func TestMemoryStore_CommitAtomicLimit(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()

	oversized := make([]docstore.Write, docstore.MaxBatchOps+1)
	for i := range oversized {
		oversized[i] = docstore.Write{
			Collection: "products",
			ID:         fmt.Sprintf("p%04d", i),
			Kind:       docstore.WriteSet,
			Data:       []byte(`{}`),
		}
	}

	err := store.Commit(ctx, oversized)
	require.Error(t, err)

	// Nothing from the rejected commit may be visible.
	documents, err := store.Collection("products").All(ctx)
	require.NoError(t, err)
	assert.Empty(t, documents)
	assert.Empty(t, store.CommitSizes)
}

/* TestBatchQueue_ChunksAtLimit */
func TestBatchQueue_ChunksAtLimit(t *testing.T) {
	store := docstore.NewMemoryStore()
	queue := docstore.NewBatchQueue(store)
	ctx := context.Background()

	const total = 1200
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("p%04d", i)
		require.NoError(t, queue.Set(ctx, "products", id, testDoc{Title: id}))
	}
	require.NoError(t, queue.Flush(ctx))

	// 1200 writes split into 500 + 500 + 200.
	assert.Equal(t, []int{500, 500, 200}, store.CommitSizes)
	assert.Equal(t, 3, queue.Commits())
	assert.Equal(t, total, queue.Written())

	documents, err := store.Collection("products").All(ctx)
	require.NoError(t, err)
	assert.Len(t, documents, total)
}

/* TestBatchQueue_FlushOnEmptyQueueIsNoop */
func TestBatchQueue_FlushOnEmptyQueueIsNoop(t *testing.T) {
	store := docstore.NewMemoryStore()
	queue := docstore.NewBatchQueue(store)

	require.NoError(t, queue.Flush(context.Background()))
	assert.Zero(t, queue.Commits())
	assert.Empty(t, store.CommitSizes)
}

/* TestBatchQueue_MixedSetAndDelete */
func TestBatchQueue_MixedSetAndDelete(t *testing.T) {
	store := docstore.NewMemoryStore()
	ctx := context.Background()

	mustSet(t, store, "products", "stale", testDoc{Title: "old"})

	queue := docstore.NewBatchQueue(store)
	require.NoError(t, queue.Set(ctx, "products", "fresh", testDoc{Title: "new"}))
	require.NoError(t, queue.Delete(ctx, "products", "stale"))
	require.NoError(t, queue.Flush(ctx))

	_, err := store.Collection("products").Get(ctx, "stale")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	_, err = store.Collection("products").Get(ctx, "fresh")
	assert.NoError(t, err)
}
