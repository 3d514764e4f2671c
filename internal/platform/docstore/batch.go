// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package docstore

import (
	"context"
	"fmt"
)

// BatchQueue accumulates writes and commits them in chunks of at most
// [MaxBatchOps], so engines can enqueue freely without tracking the cap.
//
// A queue auto-flushes when it reaches the cap; callers must Flush once at
// the end of a run to commit the final partial chunk. BatchQueue is not
// safe for concurrent use; each engine run owns its own queue.
type BatchQueue struct {
	store   Store
	pending []Write
	commits int
	written int
}

// NewBatchQueue creates an empty queue writing through the given store.
func NewBatchQueue(store Store) *BatchQueue {
	return &BatchQueue{
		store:   store,
		pending: make([]Write, 0, MaxBatchOps),
	}
}

// Set enqueues a create-or-overwrite of one document. The write is encoded
// immediately so a marshal failure surfaces at enqueue time, not mid-commit.
func (queue *BatchQueue) Set(ctx context.Context, collection string, id string, value any) error {
	data, err := Encode(value)
	if err != nil {
		return err
	}

	queue.pending = append(queue.pending, Write{
		Collection: collection,
		ID:         id,
		Kind:       WriteSet,
		Data:       data,
	})

	return queue.flushIfFull(ctx)
}

// Delete enqueues a document removal.
func (queue *BatchQueue) Delete(ctx context.Context, collection string, id string) error {
	queue.pending = append(queue.pending, Write{
		Collection: collection,
		ID:         id,
		Kind:       WriteDelete,
	})

	return queue.flushIfFull(ctx)
}

// Flush commits all pending writes. Calling Flush with nothing pending is a
// no-op; it never issues an empty commit.
func (queue *BatchQueue) Flush(ctx context.Context) error {
	if len(queue.pending) == 0 {
		return nil
	}

	if err := queue.store.Commit(ctx, queue.pending); err != nil {
		return fmt.Errorf("docstore: batch commit of %d writes: %w", len(queue.pending), err)
	}

	queue.commits++
	queue.written += len(queue.pending)
	queue.pending = queue.pending[:0]

	return nil
}

// Commits reports how many commits the queue has issued so far.
func (queue *BatchQueue) Commits() int {
	return queue.commits
}

// Written reports how many writes have been durably committed so far.
// Pending writes are not counted until their chunk commits.
func (queue *BatchQueue) Written() int {
	return queue.written
}

func (queue *BatchQueue) flushIfFull(ctx context.Context) error {
	if len(queue.pending) < MaxBatchOps {
		return nil
	}
	return queue.Flush(ctx)
}
