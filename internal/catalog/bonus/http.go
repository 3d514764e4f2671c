package bonus

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sohayama/kikira/internal/platform/middleware"
	requestutil "github.com/sohayama/kikira/internal/platform/request"
	"github.com/sohayama/kikira/internal/platform/respond"
	"github.com/sohayama/kikira/internal/platform/sec"
	"github.com/sohayama/kikira/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listOffers)
	router.Get("/{id}", handler.getOffer)

	// Editor and above
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleEditor))

		adminRoute.Post("/", handler.createOffer)
		adminRoute.Patch("/{id}", handler.updateOffer)
		adminRoute.Post("/{id}/products", handler.associate)
		adminRoute.Delete("/{id}/products/{productId}", handler.dissociate)

		// Admin strict only
		adminRoute.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.deleteOffer)
	})
}

func (handler *Handler) listOffers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	productID := request.URL.Query().Get("product")

	offers, total, err := handler.service.ListOffers(request.Context(), productID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, offers, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getOffer(writer http.ResponseWriter, request *http.Request) {
	offer, err := handler.service.GetOffer(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, offer)
}

func (handler *Handler) createOffer(writer http.ResponseWriter, request *http.Request) {
	var input BonusOffer
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateOffer(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateOffer(writer http.ResponseWriter, request *http.Request) {
	var input BonusOffer
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateOffer(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteOffer(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteOffer(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

type associationInput struct {
	ProductID string `json:"productId"`
	Site      string `json:"site"`
}

func (handler *Handler) associate(writer http.ResponseWriter, request *http.Request) {
	var input associationInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.Associate(request.Context(), requestutil.ID(request, "id"), input.ProductID, input.Site)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) dissociate(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.Dissociate(
		request.Context(),
		requestutil.ID(request, "id"),
		requestutil.ID(request, "productId"),
		request.URL.Query().Get("site"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
