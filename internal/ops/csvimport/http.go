package csvimport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sohayama/kikira/internal/ops/runlog"
	"github.com/sohayama/kikira/internal/platform/middleware"
	requestutil "github.com/sohayama/kikira/internal/platform/request"
	"github.com/sohayama/kikira/internal/platform/respond"
	"github.com/sohayama/kikira/internal/platform/runlock"
	"github.com/sohayama/kikira/internal/platform/sec"
)

// runName is the run-guard key for CSV imports.
const runName = "csvimport"

type Handler struct {
	pipeline *Pipeline
	guard    *runlock.Guard
}

func NewHandler(pipeline *Pipeline, guard *runlock.Guard) *Handler {
	return &Handler{pipeline: pipeline, guard: guard}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/admin/import", func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleEditor))
		adminRoute.Post("/", handler.run)
		adminRoute.Get("/sample", handler.sample)
	})
}

type runInput struct {
	CSV            string   `json:"csv"`
	Mapping        Mapping  `json:"mapping"`
	ActorAllowList []string `json:"actorAllowList"`
}

type runResponse struct {
	Stats *Stats   `json:"stats"`
	Log   []string `json:"log"`
}

func (handler *Handler) run(writer http.ResponseWriter, request *http.Request) {
	var input runInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	if err := handler.guard.Acquire(ctx, runName); err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer handler.guard.Release(ctx, runName)

	log := runlog.New(nil)
	stats, err := handler.pipeline.Run(ctx, input.CSV, input.Mapping, Options{
		ActorAllowList: input.ActorAllowList,
	}, log)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, runResponse{Stats: stats, Log: log.Lines()})
}

func (handler *Handler) sample(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer.Header().Set("Content-Disposition", `attachment; filename="kikira-import-sample.csv"`)
	_, _ = writer.Write([]byte(SampleCSV()))
}
