// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

/*
Package csvimport bulk-loads catalog entries from operator-supplied CSV
files.

# Pipeline

A run parses the CSV leniently, maps columns to catalog fields through an
operator-chosen mapping, normalizes cell values (dates, storefront URLs,
multi-valued name lists), and creates one entry per accepted row through
the store's batch discipline. Rows are never trusted: malformed rows,
rows missing required fields, and duplicate titles are counted and logged
instead of aborting the run.

Aggregate counters are merged additively in a post-pass, so the filter
pages stay correct without a full rebuild.
*/
package csvimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sohayama/kikira/internal/catalog/aggregate"
	"github.com/sohayama/kikira/internal/catalog/product"
	"github.com/sohayama/kikira/internal/ops/runlog"
	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/constants"
	"github.com/sohayama/kikira/internal/platform/docstore"
	"github.com/sohayama/kikira/pkg/jpdate"
	"github.com/sohayama/kikira/pkg/slice"
)

// Options tunes one import run.
type Options struct {
	// ActorAllowList, when non-empty, flags cast names outside the list
	// with a warning. Flagged rows are still imported; the list catches
	// typos, it does not gate content.
	ActorAllowList []string
}

// Stats summarises one import run.
type Stats struct {
	Total      int `json:"total"`
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// AggregateMerger is the slice of the aggregate service the pipeline needs.
type AggregateMerger interface {
	MergeCounts(ctx context.Context, kind aggregate.Kind, counts map[string]int) error
}

type Pipeline struct {
	store      docstore.Store
	aggregates AggregateMerger
	logger     *slog.Logger
}

func NewPipeline(store docstore.Store, aggregates AggregateMerger, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:      store,
		aggregates: aggregates,
		logger:     logger,
	}
}

// Run executes one import. The first CSV row must be the header; data rows
// whose field count differs from the header's are counted as failed.
//
// Duplicate detection is case-insensitive on the trimmed title and covers
// both the stored catalog (fetched once up front) and rows accepted earlier
// in the same run.
func (pipeline *Pipeline) Run(ctx context.Context, rawCSV string, mapping Mapping, opts Options, log *runlog.Log) (*Stats, error) {
	columnFields, headerLen, rows, err := pipeline.prepare(rawCSV, mapping)
	if err != nil {
		return nil, err
	}

	existingTitles, err := pipeline.loadTitleIndex(ctx)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(opts.ActorAllowList))
	for _, name := range opts.ActorAllowList {
		allowed[name] = true
	}

	log.Printf("importing %d rows against %d existing titles", len(rows), len(existingTitles))

	stats := &Stats{}
	queue := docstore.NewBatchQueue(pipeline.store)
	accepted := make(map[string]bool)
	tagCounts := make(map[string]int)
	castCounts := make(map[string]int)

	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		stats.Total++

		if err := pipeline.processRow(ctx, i, row, columnFields, headerLen, existingTitles, accepted, allowed, queue, stats, tagCounts, castCounts, log); err != nil {
			return stats, err
		}
	}

	if err := queue.Flush(ctx); err != nil {
		return stats, err
	}

	// Post-pass: counters for everything the run created, merged additively.
	if err := pipeline.aggregates.MergeCounts(ctx, aggregate.KindTags, tagCounts); err != nil {
		return stats, err
	}
	if err := pipeline.aggregates.MergeCounts(ctx, aggregate.KindActors, castCounts); err != nil {
		return stats, err
	}

	log.Printf("import finished: %d imported, %d duplicates, %d skipped, %d failed of %d rows",
		stats.Imported, stats.Duplicates, stats.Skipped, stats.Failed, stats.Total)

	pipeline.logger.Info("csv_import_finished",
		slog.Int("total", stats.Total),
		slog.Int("imported", stats.Imported),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Int("commits", queue.Commits()),
	)

	return stats, nil
}

// prepare validates the mapping, parses the CSV, and resolves the header
// columns against the mapping.
func (pipeline *Pipeline) prepare(rawCSV string, mapping Mapping) ([]FieldID, int, [][]string, error) {
	if len(mapping) == 0 {
		return nil, 0, nil, apperr.ValidationError("Column mapping is required")
	}

	titleMapped := false
	for column, field := range mapping {
		if !field.IsValid() {
			return nil, 0, nil, apperr.ValidationError(fmt.Sprintf("Column %q maps to unknown field %q", column, field))
		}
		if field == FieldTitle {
			titleMapped = true
		}
	}
	if !titleMapped {
		return nil, 0, nil, apperr.ValidationError("No column maps to the title field")
	}

	if strings.TrimSpace(rawCSV) == "" {
		return nil, 0, nil, apperr.ValidationError("CSV content is required")
	}

	reader := csv.NewReader(strings.NewReader(rawCSV))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, nil, apperr.ValidationError("CSV could not be parsed")
	}
	if len(rows) == 0 {
		return nil, 0, nil, apperr.ValidationError("CSV has no header row")
	}

	header := rows[0]
	columnFields := make([]FieldID, len(header))
	for i, column := range header {
		columnFields[i] = mapping[strings.TrimSpace(column)]
	}

	return columnFields, len(header), rows[1:], nil
}

// processRow handles one data row. Its only error is a batch commit
// failure; a panic from unexpected row data is converted into a Failed
// count and the run continues.
func (pipeline *Pipeline) processRow(
	ctx context.Context,
	index int,
	row []string,
	columnFields []FieldID,
	headerLen int,
	existingTitles map[string]bool,
	accepted map[string]bool,
	allowed map[string]bool,
	queue *docstore.BatchQueue,
	stats *Stats,
	tagCounts map[string]int,
	castCounts map[string]int,
	log *runlog.Log,
) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			stats.Failed++
			log.Printf("row %d: failed: %v", index+1, recovered)
			pipeline.logger.Error("csv_import_row_panic",
				slog.Int("row", index+1),
				slog.Any("panic", recovered),
			)
		}
	}()

	if len(row) != headerLen {
		stats.Failed++
		log.Printf("row %d: failed (%d fields, header has %d)", index+1, len(row), headerLen)
		return nil
	}

	entry := assembleEntry(row, columnFields)

	if entry.Title == "" {
		stats.Skipped++
		log.Printf("row %d: skipped (missing title)", index+1)
		return nil
	}

	titleKey := strings.ToLower(entry.Title)
	if existingTitles[titleKey] || accepted[titleKey] {
		stats.Duplicates++
		log.Printf("row %d: duplicate title %q", index+1, entry.Title)
		return nil
	}

	if len(allowed) > 0 {
		for _, name := range entry.Cast {
			if !allowed[name] {
				log.Printf("row %d: warning: cast %q is not on the allow list", index+1, name)
			}
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("csvimport: generate id: %w", err)
	}
	entry.ID = id.String()

	if err := queue.Set(ctx, constants.CollectionProducts, entry.ID, entry); err != nil {
		return err
	}

	accepted[titleKey] = true
	for _, tag := range entry.Tags {
		tagCounts[tag]++
	}
	for _, name := range entry.Cast {
		castCounts[name]++
	}

	stats.Imported++
	log.Printf("row %d: imported %q", index+1, entry.Title)
	return nil
}

// assembleEntry builds a catalog entry from one row. Multi-valued fields
// union their cells across every mapped column; single-valued fields take
// the first non-empty cell.
func assembleEntry(row []string, columnFields []FieldID) *product.CatalogEntry {
	singles := make(map[FieldID]string)
	multis := make(map[FieldID][]string)

	for i, field := range columnFields {
		if field == "" {
			continue
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}

		meta := fieldCatalog[field]
		switch {
		case meta.MultiValued:
			multis[field] = slice.Union(multis[field], splitNames(value))
		case meta.Date:
			if _, ok := singles[field]; !ok {
				singles[field] = jpdate.Normalize(value)
			}
		case meta.URL:
			if _, ok := singles[field]; !ok {
				singles[field] = normalizeURL(field, value)
			}
		default:
			if _, ok := singles[field]; !ok {
				singles[field] = value
			}
		}
	}

	return &product.CatalogEntry{
		Title:           singles[FieldTitle],
		Series:          singles[FieldSeries],
		Maker:           singles[FieldMaker],
		ReleaseDate:     singles[FieldReleaseDate],
		Cast:            multis[FieldCast],
		Tags:            multis[FieldTags],
		ThumbnailURL:    optional(singles[FieldThumbnailURL]),
		DlsiteURL:       optional(singles[FieldDlsiteURL]),
		PocketdramaURL:  optional(singles[FieldPocketdramaURL]),
		StellaplayerURL: optional(singles[FieldStellaplayerURL]),
	}
}

// splitNames splits a multi-valued cell on ASCII and Japanese commas.
func splitNames(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '、'
	})
	return slice.Clean(parts)
}

// normalizeURL repairs the URL shorthand common in storefront exports:
// protocol-relative links get https, and dlsite site-relative paths get
// the storefront host.
func normalizeURL(field FieldID, value string) string {
	if strings.HasPrefix(value, "//") {
		return "https:" + value
	}
	if field == FieldDlsiteURL && strings.HasPrefix(value, "/") {
		return "https://www.dlsite.com" + value
	}
	return value
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// loadTitleIndex fetches every stored title once, lowered and trimmed, so
// duplicate checks inside the row loop stay in memory.
func (pipeline *Pipeline) loadTitleIndex(ctx context.Context) (map[string]bool, error) {
	documents, err := pipeline.store.Collection(constants.CollectionProducts).All(ctx)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]bool, len(documents))
	for _, document := range documents {
		var entry struct {
			Title string `json:"title"`
		}
		if err := document.Decode(&entry); err != nil {
			return nil, err
		}
		titles[strings.ToLower(strings.TrimSpace(entry.Title))] = true
	}
	return titles, nil
}
