package admin

import (
	"context"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/interview-assist/api/internal/admin/application"
	"github.com/sngm3741/interview-assist/api/internal/notify"
	"go.uber.org/zap"
)

// ImportNotifier はインポート完了後の通知先。
type ImportNotifier interface {
	NotifyImport(ctx context.Context, summary notify.ImportSummary)
}

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger         *zap.Logger
	jobs           adminapp.JobService
	questions      adminapp.QuestionService
	importer       adminapp.ImportService
	notifier       ImportNotifier
	maxUploadBytes int64
}

// Config provides dependencies for Handler.
type Config struct {
	Logger          *zap.Logger
	JobService      adminapp.JobService
	QuestionService adminapp.QuestionService
	ImportService   adminapp.ImportService
	// Notifier は nil 可。
	Notifier       ImportNotifier
	MaxUploadBytes int64
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Handler{
		logger:         logger,
		jobs:           cfg.JobService,
		questions:      cfg.QuestionService,
		importer:       cfg.ImportService,
		notifier:       cfg.Notifier,
		maxUploadBytes: maxUpload,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/jobs", h.jobListHandler())
	r.Post("/jobs", h.jobCreateHandler())
	r.Patch("/jobs/{id}", h.jobRenameHandler())
	r.Delete("/jobs/{id}", h.jobDeleteHandler())
	r.Get("/jobs/{id}/questions", h.questionListHandler())
	r.Post("/jobs/{id}/questions", h.questionCreateHandler())
	r.Patch("/questions/{id}", h.questionUpdateHandler())
	r.Delete("/questions/{id}", h.questionDeleteHandler())
	r.Post("/questions/{id}/toggle", h.questionToggleHandler())
	r.Post("/import", h.importHandler())
}
