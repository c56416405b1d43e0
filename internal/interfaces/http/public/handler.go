package public

import (
	"github.com/go-chi/chi/v5"
	publicapp "github.com/sngm3741/interview-assist/api/internal/public/application"
	"go.uber.org/zap"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger  *zap.Logger
	catalog publicapp.CatalogQueryService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  *zap.Logger
	Catalog publicapp.CatalogQueryService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger, catalog: cfg.Catalog}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/jobs", h.jobListHandler())
	r.Get("/categories", h.categoryListHandler())
	r.Get("/jobs/{id}/questions", h.questionListHandler())
}
