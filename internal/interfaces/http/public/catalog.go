package public

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/interview-assist/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/interview-assist/api/internal/public/application"
	"github.com/sngm3741/interview-assist/api/internal/public/domain"
	"go.uber.org/zap"
)

// jobListHandler は職務一覧を返す。q を指定すると職務名の部分一致で絞り込む。
func (h *Handler) jobListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		jobs, err := h.catalog.ListJobs(ctx, publicapp.JobFilter{Keyword: r.URL.Query().Get("q")})
		if err != nil {
			h.logger.Error("job list fetch failed", zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, "職務一覧の取得に失敗しました")
			return
		}

		items := make([]jobSummaryResponse, 0, len(jobs))
		for _, job := range jobs {
			items = append(items, jobSummaryResponse{ID: job.ID, Name: job.Name})
		}
		common.WriteJSON(h.logger, w, http.StatusOK, jobListResponse{Items: items})
	}
}

func (h *Handler) categoryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		categories := h.catalog.ListCategories()
		items := make([]categoryResponse, 0, len(categories))
		for _, meta := range categories {
			items = append(items, toCategoryResponse(meta))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, categoryListResponse{Items: items})
	}
}

// questionListHandler は職務・カテゴリの有効な質問を新しい順に返す。
func (h *Handler) questionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := strings.TrimSpace(chi.URLParam(r, "id"))
		category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
		if category == "" {
			category = domain.CategoryCatalog[0].Code
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		questions, err := h.catalog.ListActiveQuestions(ctx, jobID, category)
		if err != nil {
			switch {
			case errors.Is(err, publicapp.ErrInvalidCategory):
				common.WriteError(h.logger, w, http.StatusBadRequest, "カテゴリは a, b, c, d のいずれかを指定してください")
			case errors.Is(err, publicapp.ErrJobNotFound):
				common.WriteError(h.logger, w, http.StatusNotFound, "職務が見つかりません")
			default:
				h.logger.Error("question list fetch failed", zap.String("jobId", jobID), zap.Error(err))
				common.WriteError(h.logger, w, http.StatusInternalServerError, "質問一覧の取得に失敗しました")
			}
			return
		}

		meta, _ := domain.LookupCategory(category)
		items := make([]questionResponse, 0, len(questions))
		for _, q := range questions {
			items = append(items, questionResponse{ID: q.ID, Content: q.Content, UpdatedAt: q.UpdatedAt})
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionListResponse{
			JobID:    jobID,
			Category: toCategoryResponse(meta),
			Items:    items,
		})
	}
}
