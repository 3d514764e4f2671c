package product

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sohayama/kikira/internal/catalog/aggregate"
	"github.com/sohayama/kikira/internal/platform/validate"
	"github.com/sohayama/kikira/pkg/jpdate"
	"github.com/sohayama/kikira/pkg/slice"
)

// AggregateSync is the slice of the aggregate service this package needs:
// counter adjustments driven by entry edits.
type AggregateSync interface {
	ApplyDiff(ctx context.Context, kind aggregate.Kind, before, after []string) error
}

type Service struct {
	repo       Repository
	aggregates AggregateSync
	logger     *slog.Logger
}

func NewService(repo Repository, aggregates AggregateSync, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		aggregates: aggregates,
		logger:     logger,
	}
}

func (service *Service) ListEntries(ctx context.Context, filter Filter, limit, offset int) ([]*CatalogEntry, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

func (service *Service) GetEntry(ctx context.Context, id string) (*CatalogEntry, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) CreateEntry(ctx context.Context, entry *CatalogEntry) error {
	normalizeEntry(entry)
	if err := validateEntry(entry); err != nil {
		return err
	}

	if err := service.repo.Create(ctx, entry); err != nil {
		return err
	}

	if err := service.aggregates.ApplyDiff(ctx, aggregate.KindTags, nil, entry.Tags); err != nil {
		return err
	}
	if err := service.aggregates.ApplyDiff(ctx, aggregate.KindActors, nil, entry.Cast); err != nil {
		return err
	}

	service.logger.Info("product_created",
		slog.String("product_id", entry.ID),
		slog.String("title", entry.Title),
	)
	return nil
}

func (service *Service) UpdateEntry(ctx context.Context, id string, entry *CatalogEntry) error {
	existing, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	entry.ID = id
	normalizeEntry(entry)
	if err := validateEntry(entry); err != nil {
		return err
	}

	if err := service.repo.Update(ctx, entry); err != nil {
		return err
	}

	if err := service.aggregates.ApplyDiff(ctx, aggregate.KindTags, existing.Tags, entry.Tags); err != nil {
		return err
	}
	if err := service.aggregates.ApplyDiff(ctx, aggregate.KindActors, existing.Cast, entry.Cast); err != nil {
		return err
	}

	service.logger.Info("product_updated", slog.String("product_id", id))
	return nil
}

func (service *Service) DeleteEntry(ctx context.Context, id string) error {
	existing, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := service.aggregates.ApplyDiff(ctx, aggregate.KindTags, existing.Tags, nil); err != nil {
		return err
	}
	if err := service.aggregates.ApplyDiff(ctx, aggregate.KindActors, existing.Cast, nil); err != nil {
		return err
	}

	service.logger.Warn("product_deleted",
		slog.String("product_id", id),
		slog.String("title", existing.Title),
	)
	return nil
}

// normalizeEntry canonicalizes an entry in place before validation: trimmed
// scalars, cleaned name lists, jpdate-normalized release date, and nil for
// absent links so an empty string never reaches storage.
func normalizeEntry(entry *CatalogEntry) {
	entry.Title = strings.TrimSpace(entry.Title)
	entry.Series = strings.TrimSpace(entry.Series)
	entry.Maker = strings.TrimSpace(entry.Maker)
	entry.ReleaseDate = jpdate.Normalize(strings.TrimSpace(entry.ReleaseDate))
	entry.Cast = slice.Clean(entry.Cast)
	entry.Tags = slice.Clean(entry.Tags)

	entry.DlsiteURL = normalizeLink(entry.DlsiteURL)
	entry.DlafURL = normalizeLink(entry.DlafURL)
	entry.PocketdramaURL = normalizeLink(entry.PocketdramaURL)
	entry.StellaplayerURL = normalizeLink(entry.StellaplayerURL)
	entry.ThumbnailURL = normalizeLink(entry.ThumbnailURL)
}

func normalizeLink(link *string) *string {
	if link == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*link)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateEntry(entry *CatalogEntry) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, entry.Title).MaxLen(FieldTitle, entry.Title, 300)
	validator.Date(FieldReleaseDate, entry.ReleaseDate)

	links := map[string]*string{
		FieldDlsiteURL:       entry.DlsiteURL,
		FieldDlafURL:         entry.DlafURL,
		FieldPocketdramaURL:  entry.PocketdramaURL,
		FieldStellaplayerURL: entry.StellaplayerURL,
		FieldThumbnailURL:    entry.ThumbnailURL,
	}
	for field, link := range links {
		if link != nil {
			validator.URL(field, *link)
		}
	}

	return validator.Err()
}
