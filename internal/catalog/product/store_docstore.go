// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package product

import (
	"context"
	"errors"
	"strings"

	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/constants"
	"github.com/sohayama/kikira/internal/platform/docstore"
)

// docstoreRepository implements [Repository] over the products collection.
type docstoreRepository struct {
	store docstore.Store
}

// NewRepository creates the docstore-backed catalog repository.
func NewRepository(store docstore.Store) Repository {
	return &docstoreRepository{store: store}
}

func (repo *docstoreRepository) collection() docstore.Collection {
	return repo.store.Collection(constants.CollectionProducts)
}

func (repo *docstoreRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*CatalogEntry, int, error) {
	query := docstore.Query{}

	if filter.Tag != "" {
		query = query.Where("tags", docstore.OpArrayContains, filter.Tag)
	}
	if filter.Actor != "" {
		query = query.Where("cast", docstore.OpArrayContains, filter.Actor)
	}
	if filter.Maker != "" {
		query = query.Where("maker", docstore.OpEqual, filter.Maker)
	}
	if filter.Year != "" {
		query = query.
			Where("releaseDate", docstore.OpGreaterEqual, filter.Year+"-01-01").
			Where("releaseDate", docstore.OpLessEqual, filter.Year+"-12-31")
	}

	// Newest releases first on the browse pages.
	query = query.OrderBy("releaseDate", true)

	documents, err := repo.collection().Find(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	entries, err := decodeEntries(documents)
	if err != nil {
		return nil, 0, err
	}

	// Keyword narrowing is a plain substring scan over the filtered set.
	if filter.Keyword != "" {
		entries = keywordScan(entries, filter.Keyword)
	}

	total := len(entries)
	entries = paginate(entries, limit, offset)

	return entries, total, nil
}

func (repo *docstoreRepository) FindByID(ctx context.Context, id string) (*CatalogEntry, error) {
	document, err := repo.collection().Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperr.NotFound("Product")
	}
	if err != nil {
		return nil, err
	}

	var entry CatalogEntry
	if err := document.Decode(&entry); err != nil {
		return nil, err
	}
	entry.ID = document.ID

	return &entry, nil
}

func (repo *docstoreRepository) All(ctx context.Context) ([]*CatalogEntry, error) {
	documents, err := repo.collection().All(ctx)
	if err != nil {
		return nil, err
	}
	return decodeEntries(documents)
}

func (repo *docstoreRepository) Create(ctx context.Context, entry *CatalogEntry) error {
	entry.ID = "" // The store assigns ids; never trust one from input.

	data, err := docstore.Encode(entry)
	if err != nil {
		return err
	}

	id, err := repo.collection().Create(ctx, data)
	if err != nil {
		return err
	}

	entry.ID = id
	return repo.persist(ctx, entry)
}

func (repo *docstoreRepository) Update(ctx context.Context, entry *CatalogEntry) error {
	return repo.persist(ctx, entry)
}

func (repo *docstoreRepository) Delete(ctx context.Context, id string) error {
	return repo.collection().Delete(ctx, id)
}

// persist writes the entry document under its id, with the id embedded in
// the document body so engine scans can decode it without the row key.
func (repo *docstoreRepository) persist(ctx context.Context, entry *CatalogEntry) error {
	data, err := docstore.Encode(entry)
	if err != nil {
		return err
	}
	return repo.collection().Set(ctx, entry.ID, data)
}

func decodeEntries(documents []docstore.Document) ([]*CatalogEntry, error) {
	entries := make([]*CatalogEntry, 0, len(documents))
	for _, document := range documents {
		var entry CatalogEntry
		if err := document.Decode(&entry); err != nil {
			return nil, err
		}
		entry.ID = document.ID
		entries = append(entries, &entry)
	}
	return entries, nil
}

func keywordScan(entries []*CatalogEntry, keyword string) []*CatalogEntry {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return entries
	}

	matched := make([]*CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Title), needle) ||
			strings.Contains(strings.ToLower(entry.Series), needle) {
			matched = append(matched, entry)
		}
	}
	return matched
}

func paginate(entries []*CatalogEntry, limit, offset int) []*CatalogEntry {
	if offset >= len(entries) {
		return []*CatalogEntry{}
	}
	entries = entries[offset:]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
