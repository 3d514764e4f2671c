// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

// Package runlock guards operator-triggered engine runs.
//
// # Semantics
//
// Each engine (csv import, url migration, aggregate recalculation) acquires
// a named lock before starting. The lock only prevents a second run from
// STARTING — there is no mid-run cancellation; a run that has begun
// committing batches always finishes or aborts on its own. The TTL bounds
// how long a crashed process can keep its guard held.
package runlock

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/constants"
)

// Guard acquires and releases per-engine run locks backed by Redis SET NX.
type Guard struct {
	client *redis.Client
}

// NewGuard creates a run-lock guard over the shared Redis client.
func NewGuard(client *redis.Client) *Guard {
	return &Guard{client: client}
}

// Acquire takes the named lock. It returns [apperr.Conflict] if another run
// holds it, so handlers can surface a 409 directly.
func (guard *Guard) Acquire(ctx context.Context, name string) error {
	key := constants.RedisPrefixRunLock + name

	ok, err := guard.client.SetNX(ctx, key, "1", constants.RunLockTTL).Result()
	if err != nil {
		return fmt.Errorf("runlock: acquire %s: %w", name, err)
	}
	if !ok {
		return apperr.Conflict(fmt.Sprintf("A %s run is already in progress", name))
	}
	return nil
}

// Release drops the named lock. Safe to call even if the TTL already
// expired the key.
func (guard *Guard) Release(ctx context.Context, name string) {
	key := constants.RedisPrefixRunLock + name
	_ = guard.client.Del(ctx, key).Err()
}
