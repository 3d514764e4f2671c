// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package aggregate

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sohayama/kikira/internal/ops/runlog"
	"github.com/sohayama/kikira/pkg/safeid"
	"github.com/sohayama/kikira/pkg/slice"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) List(ctx context.Context, kind Kind, limit, offset int) ([]*Aggregate, int, error) {
	return service.repo.List(ctx, kind, limit, offset)
}

// ApplyDiff adjusts counters for one catalog entry edit: +1 for every name
// in after but not before, -1 for every name in before but not after. A
// counter reaching zero is deleted, not kept.
//
// Both slices are the entry's full name list for the kind; create passes a
// nil before, delete passes a nil after.
func (service *Service) ApplyDiff(ctx context.Context, kind Kind, before, after []string) error {
	added := slice.Diff(after, before)
	removed := slice.Diff(before, after)
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	existing, err := service.repo.All(ctx, kind)
	if err != nil {
		return err
	}

	writer := service.repo.NewWriter()

	for _, name := range added {
		id := safeid.From(name)
		counter, ok := existing[id]
		if !ok {
			counter = &Aggregate{ID: id, Name: name}
		}
		counter.Count++
		if err := writer.Set(ctx, kind, counter); err != nil {
			return err
		}
	}

	for _, name := range removed {
		id := safeid.From(name)
		counter, ok := existing[id]
		if !ok {
			// Counter already gone; nothing to decrement.
			continue
		}
		counter.Count--
		if counter.Count <= 0 {
			if err := writer.Delete(ctx, kind, id); err != nil {
				return err
			}
			continue
		}
		if err := writer.Set(ctx, kind, counter); err != nil {
			return err
		}
	}

	if err := writer.Flush(ctx); err != nil {
		return err
	}

	service.logger.Info("aggregate_diff_applied",
		slog.String("kind", string(kind)),
		slog.Int("added", len(added)),
		slog.Int("removed", len(removed)),
	)
	return nil
}

// MergeCounts folds observed per-name counts into the stored counters
// additively: create-if-absent, increment-if-present. Used by the CSV
// import post-pass, where every observation is a newly created entry.
func (service *Service) MergeCounts(ctx context.Context, kind Kind, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}

	existing, err := service.repo.All(ctx, kind)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	writer := service.repo.NewWriter()

	for _, name := range names {
		id := safeid.From(name)
		counter, ok := existing[id]
		if !ok {
			counter = &Aggregate{ID: id, Name: name}
		}
		counter.Count += counts[name]
		if err := writer.Set(ctx, kind, counter); err != nil {
			return err
		}
	}

	if err := writer.Flush(ctx); err != nil {
		return err
	}

	service.logger.Info("aggregate_counts_merged",
		slog.String("kind", string(kind)),
		slog.Int("names", len(counts)),
	)
	return nil
}

// Recalculate rebuilds every counter of the kind from the catalog itself.
//
// # Semantics
//
// It scans all entries, counts each distinct name, then reconciles the
// stored counters: create absent ones, overwrite stale ones, delete the
// ones no entry references. All writes flow through one batched writer, so
// the rebuild respects the store's per-commit limit. Running it twice in a
// row yields an all-zero second result.
func (service *Service) Recalculate(ctx context.Context, kind Kind, log *runlog.Log) (*RecalcStats, error) {
	sources, err := service.repo.SourceValues(ctx, kind)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	names := make(map[string]string) // id -> display name
	for _, nameList := range sources {
		for _, name := range nameList {
			id := safeid.From(name)
			counts[id]++
			names[id] = name
		}
	}

	existing, err := service.repo.All(ctx, kind)
	if err != nil {
		return nil, err
	}

	log.Printf("recalculating %s: %d entries scanned, %d distinct names, %d stored counters",
		kind, len(sources), len(counts), len(existing))

	// Deterministic write order keeps reruns and logs comparable.
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	writer := service.repo.NewWriter()
	stats := &RecalcStats{Total: len(counts)}

	for _, id := range ids {
		want := counts[id]
		current, ok := existing[id]

		switch {
		case !ok:
			stats.Created++
			log.Printf("create %q = %d", names[id], want)
		case current.Count != want || current.Name != names[id]:
			stats.Updated++
			log.Printf("update %q: %d -> %d", names[id], current.Count, want)
		default:
			continue
		}

		counter := &Aggregate{ID: id, Name: names[id], Count: want}
		if err := writer.Set(ctx, kind, counter); err != nil {
			return nil, err
		}
	}

	staleIDs := make([]string, 0)
	for id := range existing {
		if _, ok := counts[id]; !ok {
			staleIDs = append(staleIDs, id)
		}
	}
	sort.Strings(staleIDs)

	for _, id := range staleIDs {
		stats.Deleted++
		log.Printf("delete %q (no longer referenced)", existing[id].Name)
		if err := writer.Delete(ctx, kind, id); err != nil {
			return nil, err
		}
	}

	if err := writer.Flush(ctx); err != nil {
		return nil, err
	}

	log.Printf("recalculation finished: %d created, %d updated, %d deleted, %d total",
		stats.Created, stats.Updated, stats.Deleted, stats.Total)

	service.logger.Info("aggregate_recalculated",
		slog.String("kind", string(kind)),
		slog.Int("created", stats.Created),
		slog.Int("updated", stats.Updated),
		slog.Int("deleted", stats.Deleted),
		slog.Int("total", stats.Total),
		slog.Int("commits", writer.Commits()),
	)

	return stats, nil
}
