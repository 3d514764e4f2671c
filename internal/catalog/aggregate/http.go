// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package aggregate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sohayama/kikira/internal/ops/runlog"
	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/middleware"
	requestutil "github.com/sohayama/kikira/internal/platform/request"
	"github.com/sohayama/kikira/internal/platform/respond"
	"github.com/sohayama/kikira/internal/platform/runlock"
	"github.com/sohayama/kikira/internal/platform/sec"
	"github.com/sohayama/kikira/pkg/pagination"
)

// runName is the run-guard key for full rebuilds. One guard covers both
// kinds: rebuilds scan the whole products collection either way.
const runName = "recalculate"

type Handler struct {
	service *Service
	guard   *runlock.Guard
}

func NewHandler(service *Service, guard *runlock.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public filter pages
	router.Get("/tags", handler.listKind(KindTags))
	router.Get("/actors", handler.listKind(KindActors))

	// Admin/Editor only
	router.Route("/admin/recalculate", func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleEditor))
		adminRoute.Post("/{kind}", handler.recalculate)
	})
}

func (handler *Handler) listKind(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		paginationParams := pagination.FromRequest(request)

		counters, total, err := handler.service.List(request.Context(), kind, paginationParams.Limit, paginationParams.Offset())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.Paginated(writer, counters, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
	}
}

type recalcResponse struct {
	Stats *RecalcStats `json:"stats"`
	Log   []string     `json:"log"`
}

func (handler *Handler) recalculate(writer http.ResponseWriter, request *http.Request) {
	kind := Kind(requestutil.ID(request, "kind"))
	if !kind.IsValid() {
		respond.Error(writer, request, apperr.ValidationError("Unknown aggregate kind"))
		return
	}

	ctx := request.Context()
	if err := handler.guard.Acquire(ctx, runName); err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer handler.guard.Release(ctx, runName)

	log := runlog.New(nil)
	stats, err := handler.service.Recalculate(ctx, kind, log)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, recalcResponse{Stats: stats, Log: log.Lines()})
}
