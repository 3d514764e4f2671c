// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

/*
Package urlmigrate reconciles storefront URLs from an exported CSV into the
catalog by fuzzy title matching.

# Semantics

Each row carries a title and a URL for one target storefront field. The
engine matches the row title against every catalog entry; a confident match
whose target field is still unset gets the URL, a match whose field is
already set is left alone. That makes a rerun of the same file harmless:
everything it set the first time reports as already set the second time.

The run never stops for a bad row. Unreadable rows are skipped, matching
failures are counted, and an unexpected per-row panic is caught and counted
as failed. Only a batch commit failure aborts the run.
*/
package urlmigrate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sohayama/kikira/internal/catalog/product"
	"github.com/sohayama/kikira/internal/ops/runlog"
	"github.com/sohayama/kikira/internal/platform/constants"
	"github.com/sohayama/kikira/internal/platform/docstore"
	"github.com/sohayama/kikira/internal/platform/validate"
	"github.com/sohayama/kikira/pkg/match"
	"github.com/sohayama/kikira/pkg/similarity"
)

// DefaultThreshold is the minimum similarity score accepted when the
// request does not specify one.
const DefaultThreshold = 0.9

// TargetField names the storefront URL field a run writes.
type TargetField string

const (
	TargetDlsite       TargetField = "dlsiteUrl"
	TargetDlaf         TargetField = "dlafUrl"
	TargetPocketdrama  TargetField = "pocketdramaUrl"
	TargetStellaplayer TargetField = "stellaplayerUrl"
)

// IsValid reports whether f is a recognised [TargetField] value.
func (f TargetField) IsValid() bool {
	switch f {
	case TargetDlsite, TargetDlaf, TargetPocketdrama, TargetStellaplayer:
		return true
	}
	return false
}

func (f TargetField) get(entry *product.CatalogEntry) *string {
	switch f {
	case TargetDlsite:
		return entry.DlsiteURL
	case TargetDlaf:
		return entry.DlafURL
	case TargetPocketdrama:
		return entry.PocketdramaURL
	case TargetStellaplayer:
		return entry.StellaplayerURL
	}
	return nil
}

func (f TargetField) set(entry *product.CatalogEntry, url string) {
	switch f {
	case TargetDlsite:
		entry.DlsiteURL = &url
	case TargetDlaf:
		entry.DlafURL = &url
	case TargetPocketdrama:
		entry.PocketdramaURL = &url
	case TargetStellaplayer:
		entry.StellaplayerURL = &url
	}
}

// Params configures one migration run.
type Params struct {
	// TargetField is the storefront URL field rows are written to.
	TargetField TargetField

	// Rows are the data rows of the exported CSV (header already removed).
	Rows [][]string

	// TitleColumn and URLColumn are zero-based indexes into each row.
	TitleColumn int
	URLColumn   int

	// Threshold is the minimum accepted similarity score in [0,1].
	// Zero selects [DefaultThreshold].
	Threshold float64

	// RemovePatterns are regexp sources stripped from titles before
	// scoring, for storefront-specific noise like "(CV：...)" suffixes.
	RemovePatterns []string
}

// Stats summarises one migration run.
type Stats struct {
	Total                 int `json:"total"`
	Matched               int `json:"matched"`
	Updated               int `json:"updated"`
	Skipped               int `json:"skipped"`
	NoMatch               int `json:"noMatch"`
	AlreadySet            int `json:"alreadySet"`
	Ambiguous             int `json:"ambiguous"`
	SpecialPatternRemoved int `json:"specialPatternRemoved"`
	Failed                int `json:"failed"`
}

type Engine struct {
	products product.Repository
	store    docstore.Store
	logger   *slog.Logger
}

func NewEngine(products product.Repository, store docstore.Store, logger *slog.Logger) *Engine {
	return &Engine{
		products: products,
		store:    store,
		logger:   logger,
	}
}

// Run executes one migration over the given rows.
//
// Row-level problems never abort the run; a failed batch commit does, with
// the stats gathered so far returned alongside the error.
func (engine *Engine) Run(ctx context.Context, params Params, log *runlog.Log) (*Stats, error) {
	if params.Threshold == 0 {
		params.Threshold = DefaultThreshold
	}

	patterns, err := validateParams(params)
	if err != nil {
		return nil, err
	}
	opts := similarity.Options{RemovePatterns: patterns}

	entries, err := engine.products.All(ctx)
	if err != nil {
		return nil, err
	}

	entryByID := make(map[string]*product.CatalogEntry, len(entries))
	candidates := make([]match.Candidate, 0, len(entries))
	unset := 0
	for _, entry := range entries {
		entryByID[entry.ID] = entry
		candidates = append(candidates, match.Candidate{ID: entry.ID, Title: entry.Title})
		if params.TargetField.get(entry) == nil {
			unset++
		}
	}

	log.Printf("migrating %s: %d rows against %d entries (%d without the field)",
		params.TargetField, len(params.Rows), len(entries), unset)

	stats := &Stats{Total: len(params.Rows)}
	queue := docstore.NewBatchQueue(engine.store)

	for i, row := range params.Rows {
		if err := engine.processRow(ctx, i, row, params, opts, candidates, entryByID, queue, stats, log); err != nil {
			return stats, err
		}
	}

	if err := queue.Flush(ctx); err != nil {
		return stats, err
	}

	log.Printf("migration finished: %d matched, %d updated, %d already set, %d no match, %d ambiguous, %d skipped, %d failed",
		stats.Matched, stats.Updated, stats.AlreadySet, stats.NoMatch, stats.Ambiguous, stats.Skipped, stats.Failed)

	engine.logger.Info("url_migration_finished",
		slog.String("target_field", string(params.TargetField)),
		slog.Int("total", stats.Total),
		slog.Int("updated", stats.Updated),
		slog.Int("failed", stats.Failed),
		slog.Int("commits", queue.Commits()),
	)

	return stats, nil
}

// processRow handles one CSV row. Its only error is a batch commit failure;
// everything else is absorbed into the stats. A panic from unexpected row
// data is converted into a Failed count.
func (engine *Engine) processRow(
	ctx context.Context,
	index int,
	row []string,
	params Params,
	opts similarity.Options,
	candidates []match.Candidate,
	entryByID map[string]*product.CatalogEntry,
	queue *docstore.BatchQueue,
	stats *Stats,
	log *runlog.Log,
) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			stats.Failed++
			log.Printf("row %d: failed: %v", index+1, recovered)
			engine.logger.Error("url_migration_row_panic",
				slog.Int("row", index+1),
				slog.Any("panic", recovered),
			)
		}
	}()

	title := cell(row, params.TitleColumn)
	url := cell(row, params.URLColumn)
	if title == "" || url == "" {
		stats.Skipped++
		log.Printf("row %d: skipped (empty title or url)", index+1)
		return nil
	}

	for _, pattern := range opts.RemovePatterns {
		if pattern.MatchString(title) {
			stats.SpecialPatternRemoved++
			break
		}
	}

	result := match.Best(title, candidates, params.Threshold, opts)

	switch result.Outcome {
	case match.NoMatch:
		stats.NoMatch++
		log.Printf("row %d: no match for %q", index+1, title)
		return nil

	case match.Ambiguous:
		stats.Ambiguous++
		log.Printf("row %d: ambiguous %q: %q (%.3f) vs %q (%.3f)",
			index+1, title,
			result.Best.Candidate.Title, result.Best.Score,
			result.RunnerUp.Candidate.Title, result.RunnerUp.Score)
		return nil
	}

	stats.Matched++
	entry := entryByID[result.Best.Candidate.ID]

	if existing := params.TargetField.get(entry); existing != nil {
		stats.AlreadySet++
		log.Printf("row %d: %q already has %s", index+1, entry.Title, params.TargetField)
		return nil
	}

	params.TargetField.set(entry, url)
	if err := queue.Set(ctx, constants.CollectionProducts, entry.ID, entry); err != nil {
		return err
	}

	stats.Updated++
	log.Printf("row %d: %q -> %q (%.3f)", index+1, title, entry.Title, result.Best.Score)
	return nil
}

func validateParams(params Params) ([]*regexp.Regexp, error) {
	validator := &validate.Validator{}
	validator.Custom("targetField", !params.TargetField.IsValid(), "Unknown target field")
	validator.Custom("threshold", params.Threshold < 0 || params.Threshold > 1, "Must be between 0 and 1")
	validator.Custom("titleColumn", params.TitleColumn < 0, "Must be zero or positive")
	validator.Custom("urlColumn", params.URLColumn < 0, "Must be zero or positive")

	patterns := make([]*regexp.Regexp, 0, len(params.RemovePatterns))
	for _, source := range params.RemovePatterns {
		pattern, err := regexp.Compile(source)
		if err != nil {
			validator.Custom("removePatterns", true, fmt.Sprintf("Invalid pattern %q", source))
			continue
		}
		patterns = append(patterns, pattern)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
