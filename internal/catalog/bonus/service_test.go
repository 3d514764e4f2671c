// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package bonus_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohayama/kikira/internal/catalog/bonus"
	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/docstore"
)

func newService(t *testing.T) *bonus.Service {
	t.Helper()
	store := docstore.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return bonus.NewService(bonus.NewRepository(store), logger)
}

/* TestCreateOffer_MergesDuplicateProductLinks */
func TestCreateOffer_MergesDuplicateProductLinks(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	offer := &bonus.BonusOffer{
		Name: "連動購入特典ドラマ",
		Type: bonus.TypeRendou,
		RelatedProducts: []bonus.RelatedProduct{
			{ProductID: "p1", Sites: []string{bonus.SiteDlsite}},
			{ProductID: "p1", Sites: []string{bonus.SitePocketdrama, bonus.SiteDlsite}},
			{ProductID: "p2", Sites: []string{}},
		},
	}
	require.NoError(t, service.CreateOffer(ctx, offer))

	require.Len(t, offer.RelatedProducts, 1, "duplicate p1 links merge, empty-sites p2 is dropped")
	assert.Equal(t, "p1", offer.RelatedProducts[0].ProductID)
	assert.ElementsMatch(t, []string{bonus.SiteDlsite, bonus.SitePocketdrama}, offer.RelatedProducts[0].Sites)
	assert.Equal(t, []string{"p1"}, offer.ProductIDs)
}

/* TestCreateOffer_RejectsInvalidInput */
func TestCreateOffer_RejectsInvalidInput(t *testing.T) {
	service := newService(t)

	testCases := []struct {
		name  string
		offer bonus.BonusOffer
	}{
		{name: "missing name", offer: bonus.BonusOffer{Type: bonus.TypeTokuten}},
		{name: "unknown type", offer: bonus.BonusOffer{Name: "x", Type: "omake"}},
		{
			name: "unknown site",
			offer: bonus.BonusOffer{
				Name: "x", Type: bonus.TypeTokuten,
				RelatedProducts: []bonus.RelatedProduct{{ProductID: "p1", Sites: []string{"animate"}}},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := service.CreateOffer(context.Background(), &testCase.offer)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/* TestAssociateAndDissociate_SiteLifecycle */
func TestAssociateAndDissociate_SiteLifecycle(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	offer := &bonus.BonusOffer{Name: "全巻購入特典", Type: bonus.TypeZenkan}
	require.NoError(t, service.CreateOffer(ctx, offer))

	require.NoError(t, service.Associate(ctx, offer.ID, "p1", bonus.SiteDlsite))
	require.NoError(t, service.Associate(ctx, offer.ID, "p1", bonus.SiteStellaplayer))
	// Re-associating an existing site is a no-op, not a duplicate.
	require.NoError(t, service.Associate(ctx, offer.ID, "p1", bonus.SiteDlsite))

	stored, err := service.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	require.Len(t, stored.RelatedProducts, 1)
	assert.ElementsMatch(t, []string{bonus.SiteDlsite, bonus.SiteStellaplayer}, stored.RelatedProducts[0].Sites)

	require.NoError(t, service.Dissociate(ctx, offer.ID, "p1", bonus.SiteDlsite))
	require.NoError(t, service.Dissociate(ctx, offer.ID, "p1", bonus.SiteStellaplayer))

	stored, err = service.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RelatedProducts, "removing the last site removes the link")
	assert.Empty(t, stored.ProductIDs)

	err = service.Dissociate(ctx, offer.ID, "p1", bonus.SiteDlsite)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/* TestListOffers_FiltersByProduct */
func TestListOffers_FiltersByProduct(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	first := &bonus.BonusOffer{
		Name: "特典A", Type: bonus.TypeTokuten,
		RelatedProducts: []bonus.RelatedProduct{{ProductID: "p1", Sites: []string{bonus.SiteDlsite}}},
	}
	second := &bonus.BonusOffer{
		Name: "特典B", Type: bonus.TypeTokuten,
		RelatedProducts: []bonus.RelatedProduct{{ProductID: "p2", Sites: []string{bonus.SitePocketdrama}}},
	}
	require.NoError(t, service.CreateOffer(ctx, first))
	require.NoError(t, service.CreateOffer(ctx, second))

	offers, total, err := service.ListOffers(ctx, "p2", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, offers, 1)
	assert.Equal(t, "特典B", offers[0].Name)

	_, total, err = service.ListOffers(ctx, "", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
