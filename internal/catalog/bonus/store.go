// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package bonus

import "context"

// Repository defines the data access contract for bonus offers.
type Repository interface {
	// List returns a page of offers and the total count. A non-empty
	// productID narrows to offers linked to that catalog entry.
	List(ctx context.Context, productID string, limit, offset int) ([]*BonusOffer, int, error)

	// FindByID returns the offer with the given ID.
	//
	// It returns [apperr.NotFound] if the offer is absent.
	FindByID(ctx context.Context, id string) (*BonusOffer, error)

	// Create persists a new offer and fills in its store-assigned ID.
	Create(ctx context.Context, offer *BonusOffer) error

	// Update overwrites an existing offer's document.
	Update(ctx context.Context, offer *BonusOffer) error

	// Delete removes an offer.
	Delete(ctx context.Context, id string) error
}
