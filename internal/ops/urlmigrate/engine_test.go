// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package urlmigrate_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohayama/kikira/internal/catalog/product"
	"github.com/sohayama/kikira/internal/ops/runlog"
	"github.com/sohayama/kikira/internal/ops/urlmigrate"
	"github.com/sohayama/kikira/internal/platform/docstore"
)

func newEngine(t *testing.T) (*urlmigrate.Engine, product.Repository, *docstore.MemoryStore) {
	t.Helper()
	store := docstore.NewMemoryStore()
	repo := product.NewRepository(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return urlmigrate.NewEngine(repo, store, logger), repo, store
}

func seedEntry(t *testing.T, repo product.Repository, entry *product.CatalogEntry) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), entry))
}

func ptr(s string) *string { return &s }

/* TestRun_RoutesRowsByOutcome */
func TestRun_RoutesRowsByOutcome(t *testing.T) {
	engine, repo, _ := newEngine(t)
	ctx := context.Background()

	unset := &product.CatalogEntry{Title: "蛇香のライラ"}
	taken := &product.CatalogEntry{Title: "彼女と過ごす夜", DlsiteURL: ptr("https://www.dlsite.com/old")}
	twinA := &product.CatalogEntry{Title: "双子の誘惑"}
	twinB := &product.CatalogEntry{Title: "双子の誘惑"}
	for _, entry := range []*product.CatalogEntry{unset, taken, twinA, twinB} {
		seedEntry(t, repo, entry)
	}

	rows := [][]string{
		{"「蛇香のライラ」(CV：紫苑ヨウ)", "https://www.dlsite.com/new1"}, // pattern-stripped exact match
		{"彼女と過ごす夜", "https://www.dlsite.com/new2"},             // match but field already set
		{"双子の誘惑", "https://www.dlsite.com/new3"},                // two identical candidates
		{"全く関係のない題名XYZQW", "https://www.dlsite.com/new4"},        // nothing close
		{"", "https://www.dlsite.com/new5"},                     // empty title cell
		{"行き場のない行"},                                             // url column out of range
	}

	log := runlog.New(nil)
	stats, err := engine.Run(ctx, urlmigrate.Params{
		TargetField:    urlmigrate.TargetDlsite,
		Rows:           rows,
		TitleColumn:    0,
		URLColumn:      1,
		Threshold:      0.9,
		RemovePatterns: []string{`\(CV：[^)]*\)`},
	}, log)
	require.NoError(t, err)

	assert.Equal(t, &urlmigrate.Stats{
		Total:                 6,
		Matched:               2,
		Updated:               1,
		Skipped:               2,
		NoMatch:               1,
		AlreadySet:            1,
		Ambiguous:             1,
		SpecialPatternRemoved: 1,
	}, stats)

	updated, err := repo.FindByID(ctx, unset.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.DlsiteURL)
	assert.Equal(t, "https://www.dlsite.com/new1", *updated.DlsiteURL)

	untouched, err := repo.FindByID(ctx, taken.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://www.dlsite.com/old", *untouched.DlsiteURL)

	assert.NotEmpty(t, log.Lines())
}

/* TestRun_RerunIsIdempotent */
func TestRun_RerunIsIdempotent(t *testing.T) {
	engine, repo, _ := newEngine(t)
	ctx := context.Background()

	entry := &product.CatalogEntry{Title: "執事の夜話"}
	seedEntry(t, repo, entry)

	params := urlmigrate.Params{
		TargetField: urlmigrate.TargetPocketdrama,
		Rows:        [][]string{{"執事の夜話", "https://pocketdrama.jp/x"}},
		TitleColumn: 0,
		URLColumn:   1,
	}

	first, err := engine.Run(ctx, params, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Updated)

	second, err := engine.Run(ctx, params, nil)
	require.NoError(t, err)
	assert.Zero(t, second.Updated)
	assert.Equal(t, 1, second.Matched)
	assert.Equal(t, 1, second.AlreadySet)
}

/* TestRun_SecondRowForSameEntryReportsAlreadySet */
func TestRun_SecondRowForSameEntryReportsAlreadySet(t *testing.T) {
	engine, repo, _ := newEngine(t)

	seedEntry(t, repo, &product.CatalogEntry{Title: "蛇香のライラ"})

	stats, err := engine.Run(context.Background(), urlmigrate.Params{
		TargetField: urlmigrate.TargetDlsite,
		Rows: [][]string{
			{"蛇香のライラ", "https://www.dlsite.com/a"},
			{"蛇香のライラ", "https://www.dlsite.com/b"},
		},
		TitleColumn: 0,
		URLColumn:   1,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Updated, "a matched entry leaves the unset pool immediately")
	assert.Equal(t, 1, stats.AlreadySet)
}

/* TestRun_ChunksUpdatesIntoBatchCommits */
func TestRun_ChunksUpdatesIntoBatchCommits(t *testing.T) {
	engine, repo, store := newEngine(t)
	ctx := context.Background()

	const total = 1200
	rows := make([][]string, 0, total)
	for i := 0; i < total; i++ {
		title := fmt.Sprintf("作品その%04d", i)
		seedEntry(t, repo, &product.CatalogEntry{Title: title})
		rows = append(rows, []string{title, fmt.Sprintf("https://www.dlsite.com/%d", i)})
	}
	seedCommits := len(store.CommitSizes)

	stats, err := engine.Run(ctx, urlmigrate.Params{
		TargetField: urlmigrate.TargetDlsite,
		Rows:        rows,
		TitleColumn: 0,
		URLColumn:   1,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, total, stats.Updated)
	assert.Equal(t, []int{500, 500, 200}, store.CommitSizes[seedCommits:])
}

/* TestRun_RejectsBadParams */
func TestRun_RejectsBadParams(t *testing.T) {
	engine, _, _ := newEngine(t)

	testCases := []struct {
		name   string
		params urlmigrate.Params
	}{
		{name: "unknown field", params: urlmigrate.Params{TargetField: "homepageUrl"}},
		{name: "threshold above one", params: urlmigrate.Params{TargetField: urlmigrate.TargetDlsite, Threshold: 1.5}},
		{name: "broken pattern", params: urlmigrate.Params{TargetField: urlmigrate.TargetDlsite, RemovePatterns: []string{"("}}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := engine.Run(context.Background(), testCase.params, nil)
			assert.Error(t, err)
		})
	}
}
