package urlmigrate

import (
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sohayama/kikira/internal/ops/runlog"
	"github.com/sohayama/kikira/internal/platform/apperr"
	"github.com/sohayama/kikira/internal/platform/middleware"
	requestutil "github.com/sohayama/kikira/internal/platform/request"
	"github.com/sohayama/kikira/internal/platform/respond"
	"github.com/sohayama/kikira/internal/platform/runlock"
	"github.com/sohayama/kikira/internal/platform/sec"
)

// runName is the run-guard key for URL migrations.
const runName = "urlmigrate"

type Handler struct {
	engine *Engine
	guard  *runlock.Guard
}

func NewHandler(engine *Engine, guard *runlock.Guard) *Handler {
	return &Handler{engine: engine, guard: guard}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/admin/migrate-urls", func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleEditor))
		adminRoute.Post("/", handler.run)
	})
}

type runInput struct {
	TargetField    string   `json:"targetField"`
	CSV            string   `json:"csv"`
	HasHeader      bool     `json:"hasHeader"`
	TitleColumn    int      `json:"titleColumn"`
	URLColumn      int      `json:"urlColumn"`
	Threshold      float64  `json:"threshold"`
	RemovePatterns []string `json:"removePatterns"`
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

	rows, err := parseRows(input.CSV, input.HasHeader)
	if err != nil {
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
	stats, err := handler.engine.Run(ctx, Params{
		TargetField:    TargetField(input.TargetField),
		Rows:           rows,
		TitleColumn:    input.TitleColumn,
		URLColumn:      input.URLColumn,
		Threshold:      input.Threshold,
		RemovePatterns: input.RemovePatterns,
	}, log)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, runResponse{Stats: stats, Log: log.Lines()})
}

// parseRows reads the raw CSV leniently: exports in the wild have ragged
// rows and stray quotes, and the engine skips what it cannot use.
func parseRows(rawCSV string, hasHeader bool) ([][]string, error) {
	if strings.TrimSpace(rawCSV) == "" {
		return nil, apperr.ValidationError("CSV content is required")
	}

	reader := csv.NewReader(strings.NewReader(rawCSV))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperr.ValidationError("CSV could not be parsed")
	}

	if hasHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}
