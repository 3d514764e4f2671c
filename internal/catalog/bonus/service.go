package bonus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/validate"
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

func (service *Service) ListOffers(ctx context.Context, productID string, limit, offset int) ([]*BonusOffer, int, error) {
	return service.repo.List(ctx, productID, limit, offset)
}

func (service *Service) GetOffer(ctx context.Context, id string) (*BonusOffer, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) CreateOffer(ctx context.Context, offer *BonusOffer) error {
	if err := normalizeOffer(offer); err != nil {
		return err
	}

	if err := service.repo.Create(ctx, offer); err != nil {
		return err
	}

	service.logger.Info("bonus_created",
		slog.String("bonus_id", offer.ID),
		slog.String("name", offer.Name),
	)
	return nil
}

func (service *Service) UpdateOffer(ctx context.Context, id string, offer *BonusOffer) error {
	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return err
	}

	offer.ID = id
	if err := normalizeOffer(offer); err != nil {
		return err
	}

	if err := service.repo.Update(ctx, offer); err != nil {
		return err
	}

	service.logger.Info("bonus_updated", slog.String("bonus_id", id))
	return nil
}

func (service *Service) DeleteOffer(ctx context.Context, id string) error {
	if _, err := service.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("bonus_deleted", slog.String("bonus_id", id))
	return nil
}

// Associate links an offer to a catalog entry on one storefront. Linking a
// site that is already present is a no-op.
func (service *Service) Associate(ctx context.Context, bonusID, productID, site string) error {
	validator := &validate.Validator{}
	validator.Required(FieldProductID, productID)
	validator.OneOf(FieldSite, site, Sites...)
	if err := validator.Err(); err != nil {
		return err
	}

	offer, err := service.repo.FindByID(ctx, bonusID)
	if err != nil {
		return err
	}

	linked := false
	for i := range offer.RelatedProducts {
		if offer.RelatedProducts[i].ProductID != productID {
			continue
		}
		offer.RelatedProducts[i].Sites = slice.Union(offer.RelatedProducts[i].Sites, []string{site})
		linked = true
		break
	}
	if !linked {
		offer.RelatedProducts = append(offer.RelatedProducts, RelatedProduct{
			ProductID: productID,
			Sites:     []string{site},
		})
	}

	if err := normalizeOffer(offer); err != nil {
		return err
	}
	if err := service.repo.Update(ctx, offer); err != nil {
		return err
	}

	service.logger.Info("bonus_associated",
		slog.String("bonus_id", bonusID),
		slog.String("product_id", productID),
		slog.String("site", site),
	)
	return nil
}

// Dissociate removes one storefront link. When the last site of a product
// link is removed, the whole link goes with it.
func (service *Service) Dissociate(ctx context.Context, bonusID, productID, site string) error {
	offer, err := service.repo.FindByID(ctx, bonusID)
	if err != nil {
		return err
	}

	found := false
	for i := range offer.RelatedProducts {
		if offer.RelatedProducts[i].ProductID != productID {
			continue
		}
		sites := offer.RelatedProducts[i].Sites
		kept := sites[:0]
		for _, s := range sites {
			if s != site {
				kept = append(kept, s)
			}
			found = found || s == site
		}
		offer.RelatedProducts[i].Sites = kept
		break
	}
	if !found {
		return apperr.NotFound("Association")
	}

	if err := normalizeOffer(offer); err != nil {
		return err
	}
	if err := service.repo.Update(ctx, offer); err != nil {
		return err
	}

	service.logger.Info("bonus_dissociated",
		slog.String("bonus_id", bonusID),
		slog.String("product_id", productID),
		slog.String("site", site),
	)
	return nil
}

// normalizeOffer canonicalizes and validates an offer in place: cleaned
// names, merged duplicate product links, empty-sites links dropped, and the
// queryable ProductIDs mirror rebuilt.
func normalizeOffer(offer *BonusOffer) error {
	offer.Name = strings.TrimSpace(offer.Name)
	offer.Conditions = strings.TrimSpace(offer.Conditions)
	offer.CastList = slice.Clean(offer.CastList)

	validator := &validate.Validator{}
	validator.Required(FieldName, offer.Name).MaxLen(FieldName, offer.Name, 300)
	validator.OneOf(FieldType, string(offer.Type), string(TypeTokuten), string(TypeRendou), string(TypeZenkan))

	merged := make([]RelatedProduct, 0, len(offer.RelatedProducts))
	index := make(map[string]int)

	for _, related := range offer.RelatedProducts {
		productID := strings.TrimSpace(related.ProductID)
		if productID == "" {
			validator.Custom(FieldRelatedProducts, true, "Every related product needs a productId")
			continue
		}

		sites := slice.Clean(related.Sites)
		for _, site := range sites {
			validator.Custom(FieldRelatedProducts,
				site != SiteDlsite && site != SitePocketdrama && site != SiteStellaplayer,
				fmt.Sprintf("Unknown site %q", site))
		}

		if i, ok := index[productID]; ok {
			// Duplicate links to the same product collapse into one.
			merged[i].Sites = slice.Union(merged[i].Sites, sites)
			continue
		}

		index[productID] = len(merged)
		merged = append(merged, RelatedProduct{ProductID: productID, Sites: sites})
	}

	// Links whose site set emptied out are removed, not kept.
	kept := merged[:0]
	for _, related := range merged {
		if len(related.Sites) > 0 {
			kept = append(kept, related)
		}
	}
	offer.RelatedProducts = kept

	offer.ProductIDs = offer.ProductIDs[:0]
	for _, related := range offer.RelatedProducts {
		offer.ProductIDs = append(offer.ProductIDs, related.ProductID)
	}
	if len(offer.ProductIDs) == 0 {
		offer.ProductIDs = nil
	}
	if len(offer.RelatedProducts) == 0 {
		offer.RelatedProducts = nil
	}

	return validator.Err()
}
