// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package csvimport_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohayama/kikira/internal/catalog/aggregate"
	"github.com/sohayama/kikira/internal/catalog/product"
	"github.com/sohayama/kikira/internal/ops/csvimport"
	"github.com/sohayama/kikira/internal/ops/runlog"
	"github.com/sohayama/kikira/internal/platform/docstore"
)

func newPipeline(t *testing.T) (*csvimport.Pipeline, *aggregate.Service, *docstore.MemoryStore) {
	t.Helper()
	store := docstore.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	aggregates := aggregate.NewService(aggregate.NewRepository(store), logger)
	return csvimport.NewPipeline(store, aggregates, logger), aggregates, store
}

func mapping() csvimport.Mapping {
	return csvimport.Mapping{
		"タイトル":   csvimport.FieldTitle,
		"発売日":    csvimport.FieldReleaseDate,
		"出演":     csvimport.FieldCast,
		"タグ":     csvimport.FieldTags,
		"DLsite": csvimport.FieldDlsiteURL,
		"サムネイル":  csvimport.FieldThumbnailURL,
	}
}

func entryByTitle(t *testing.T, store *docstore.MemoryStore, title string) *product.CatalogEntry {
	t.Helper()
	entries, err := product.NewRepository(store).All(context.Background())
	require.NoError(t, err)
	for _, entry := range entries {
		if entry.Title == title {
			return entry
		}
	}
	t.Fatalf("entry %q not found", title)
	return nil
}

/* TestRun_ImportsNormalizesAndCounts */
func TestRun_ImportsNormalizesAndCounts(t *testing.T) {
	pipeline, aggregates, store := newPipeline(t)
	ctx := context.Background()

	// An already-catalogued title and a pre-existing tag counter.
	require.NoError(t, product.NewRepository(store).Create(ctx, &product.CatalogEntry{Title: "既存の作品"}))
	writer := aggregate.NewRepository(store).NewWriter()
	require.NoError(t, writer.Set(ctx, aggregate.KindTags, &aggregate.Aggregate{ID: "乙女", Name: "乙女", Count: 1}))
	require.NoError(t, writer.Flush(ctx))

	csvText := strings.Join([]string{
		"タイトル,発売日,出演,タグ,DLsite,サムネイル",
		"新しい作品,2024/6/5,紫苑ヨウ、茶介,乙女,/maniax/work/RJ1.html,//img.example.jp/a.jpg",
		"既存の作品,,,,,",
		"新しい作品,,,,,",
		",2024/6/5,,,,",
		"壊れた行,1,2",
		"",
		"もう一つ,2024年6月5日,茶介,執事,,",
	}, "\n")

	log := runlog.New(nil)
	stats, err := pipeline.Run(ctx, csvText, mapping(), csvimport.Options{}, log)
	require.NoError(t, err)

	assert.Equal(t, &csvimport.Stats{
		Total:      6, // the blank line is dropped, not counted
		Imported:   2,
		Skipped:    1,
		Duplicates: 2,
		Failed:     1,
	}, stats)

	imported := entryByTitle(t, store, "新しい作品")
	assert.Equal(t, "2024-06-05", imported.ReleaseDate)
	assert.Equal(t, []string{"紫苑ヨウ", "茶介"}, imported.Cast)
	assert.Equal(t, []string{"乙女"}, imported.Tags)
	require.NotNil(t, imported.DlsiteURL)
	assert.Equal(t, "https://www.dlsite.com/maniax/work/RJ1.html", *imported.DlsiteURL)
	require.NotNil(t, imported.ThumbnailURL)
	assert.Equal(t, "https://img.example.jp/a.jpg", *imported.ThumbnailURL)

	other := entryByTitle(t, store, "もう一つ")
	assert.Equal(t, "2024-06-05", other.ReleaseDate)

	// Counters merged additively onto what was already stored.
	tags, _, err := aggregates.List(ctx, aggregate.KindTags, 50, 0)
	require.NoError(t, err)
	byName := make(map[string]int, len(tags))
	for _, tag := range tags {
		byName[tag.Name] = tag.Count
	}
	assert.Equal(t, map[string]int{"乙女": 2, "執事": 1}, byName)

	actors, _, err := aggregates.List(ctx, aggregate.KindActors, 50, 0)
	require.NoError(t, err)
	byName = make(map[string]int, len(actors))
	for _, actor := range actors {
		byName[actor.Name] = actor.Count
	}
	assert.Equal(t, map[string]int{"紫苑ヨウ": 1, "茶介": 2}, byName)

	assert.NotEmpty(t, log.Lines())
}

/* TestRun_ActorAllowListWarnsButImports */
func TestRun_ActorAllowListWarnsButImports(t *testing.T) {
	pipeline, _, store := newPipeline(t)

	csvText := "タイトル,出演\n初回の夜,未知の声優"
	log := runlog.New(nil)

	stats, err := pipeline.Run(context.Background(), csvText, csvimport.Mapping{
		"タイトル": csvimport.FieldTitle,
		"出演":   csvimport.FieldCast,
	}, csvimport.Options{ActorAllowList: []string{"紫苑ヨウ"}}, log)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Imported)
	entryByTitle(t, store, "初回の夜")

	warned := false
	for _, line := range log.Lines() {
		if strings.Contains(line, "未知の声優") && strings.Contains(line, "warning") {
			warned = true
		}
	}
	assert.True(t, warned, "off-list cast must be logged, not rejected")
}

/* TestRun_RejectsBadMapping */
func TestRun_RejectsBadMapping(t *testing.T) {
	pipeline, _, _ := newPipeline(t)
	ctx := context.Background()

	testCases := []struct {
		name    string
		csvText string
		mapping csvimport.Mapping
	}{
		{name: "empty mapping", csvText: "a\nb", mapping: csvimport.Mapping{}},
		{name: "unknown field", csvText: "a\nb", mapping: csvimport.Mapping{"a": "isbn"}},
		{name: "no title column", csvText: "a\nb", mapping: csvimport.Mapping{"a": csvimport.FieldMaker}},
		{name: "empty csv", csvText: "   ", mapping: csvimport.Mapping{"a": csvimport.FieldTitle}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := pipeline.Run(ctx, testCase.csvText, testCase.mapping, csvimport.Options{}, nil)
			assert.Error(t, err)
		})
	}
}

/* TestSampleCSV_RoundTripsThroughThePipeline */
func TestSampleCSV_RoundTripsThroughThePipeline(t *testing.T) {
	pipeline, _, store := newPipeline(t)

	stats, err := pipeline.Run(context.Background(), csvimport.SampleCSV(), csvimport.SampleMapping(), csvimport.Options{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Imported)
	entry := entryByTitle(t, store, "蛇香のライラ ~Allure of MUSK~")
	assert.Equal(t, "2023-04-01", entry.ReleaseDate)
	assert.Equal(t, []string{"紫苑ヨウ", "茶介"}, entry.Cast)
}
