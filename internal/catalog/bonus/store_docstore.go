// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package bonus

import (
	"context"
	"errors"

	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/constants"
	"github.com/sohayama/kikira/internal/platform/docstore"
)

type docstoreRepository struct {
	store docstore.Store
}

// NewRepository creates the docstore-backed bonus repository.
func NewRepository(store docstore.Store) Repository {
	return &docstoreRepository{store: store}
}

func (repo *docstoreRepository) collection() docstore.Collection {
	return repo.store.Collection(constants.CollectionBonuses)
}

func (repo *docstoreRepository) List(ctx context.Context, productID string, limit, offset int) ([]*BonusOffer, int, error) {
	query := docstore.Query{}
	if productID != "" {
		query = query.Where("productIds", docstore.OpArrayContains, productID)
	}

	documents, err := repo.collection().Find(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	offers := make([]*BonusOffer, 0, len(documents))
	for _, document := range documents {
		offer, err := decodeOffer(document)
		if err != nil {
			return nil, 0, err
		}
		offers = append(offers, offer)
	}

	total := len(offers)

	if offset >= len(offers) {
		return []*BonusOffer{}, total, nil
	}
	offers = offers[offset:]
	if limit > 0 && len(offers) > limit {
		offers = offers[:limit]
	}

	return offers, total, nil
}

func (repo *docstoreRepository) FindByID(ctx context.Context, id string) (*BonusOffer, error) {
	document, err := repo.collection().Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperr.NotFound("Bonus")
	}
	if err != nil {
		return nil, err
	}
	return decodeOffer(document)
}

func (repo *docstoreRepository) Create(ctx context.Context, offer *BonusOffer) error {
	offer.ID = ""

	data, err := docstore.Encode(offer)
	if err != nil {
		return err
	}

	id, err := repo.collection().Create(ctx, data)
	if err != nil {
		return err
	}

	offer.ID = id
	return repo.Update(ctx, offer)
}

func (repo *docstoreRepository) Update(ctx context.Context, offer *BonusOffer) error {
	data, err := docstore.Encode(offer)
	if err != nil {
		return err
	}
	return repo.collection().Set(ctx, offer.ID, data)
}

func (repo *docstoreRepository) Delete(ctx context.Context, id string) error {
	return repo.collection().Delete(ctx, id)
}

func decodeOffer(document docstore.Document) (*BonusOffer, error) {
	var offer BonusOffer
	if err := document.Decode(&offer); err != nil {
		return nil, err
	}
	offer.ID = document.ID
	return &offer, nil
}
