// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package product

import "context"

// Repository defines the data access contract for catalog entries.
//
// # Architecture
//
// The interface lives in the domain package because the service layer (the
// consumer) defines what it needs. The docstore-backed implementation lives
// alongside in store_docstore.go.
type Repository interface {
	// List returns a filtered, paginated slice of entries and the total count
	// of entries matching the filter (before pagination).
	List(ctx context.Context, filter Filter, limit, offset int) ([]*CatalogEntry, int, error)

	// FindByID returns the entry with the given ID.
	//
	// It returns [apperr.NotFound] if the entry is absent.
	FindByID(ctx context.Context, id string) (*CatalogEntry, error)

	// All returns every entry in the catalog, ordered by id. Used by the
	// batch engines, which partition and match in memory.
	All(ctx context.Context) ([]*CatalogEntry, error)

	// Create persists a new entry and fills in its store-assigned ID.
	Create(ctx context.Context, entry *CatalogEntry) error

	// Update overwrites an existing entry's document.
	Update(ctx context.Context, entry *CatalogEntry) error

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error
}
