package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sohayama/kikira/internal/platform/middleware"
	requestutil "github.com/sohayama/kikira/internal/platform/request"
	"github.com/sohayama/kikira/internal/platform/respond"
	"github.com/sohayama/kikira/internal/platform/sec"
	"github.com/sohayama/kikira/pkg/pagination"
	"github.com/sohayama/kikira/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listEntries)
	router.Get("/{id}", handler.getEntry)

	// Editor and above
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleEditor))

		adminRoute.Post("/", handler.createEntry)
		adminRoute.Patch("/{id}", handler.updateEntry)

		// Admin strict only
		adminRoute.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.deleteEntry)
	})
}

func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Tag:     queryParams.Get("tag"),
		Actor:   queryParams.Get("actor"),
		Maker:   queryParams.Get("maker"),
		Year:    query.Year(queryParams.Get("year")),
		Keyword: queryParams.Get("q"),
	}

	entries, total, err := handler.service.ListEntries(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getEntry(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.service.GetEntry(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

func (handler *Handler) createEntry(writer http.ResponseWriter, request *http.Request) {
	var input CatalogEntry
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateEntry(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateEntry(writer http.ResponseWriter, request *http.Request) {
	var input CatalogEntry
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateEntry(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteEntry(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteEntry(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
