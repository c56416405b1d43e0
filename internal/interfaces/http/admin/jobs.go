package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/interview-assist/api/internal/interfaces/http/common"
)

func (h *Handler) jobListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		jobs, err := h.jobs.List(ctx)
		if err != nil {
			h.writeServiceError(w, err, "職務一覧の取得に失敗しました")
			return
		}

		items := make([]jobResponse, 0, len(jobs))
		for _, job := range jobs {
			items = append(items, jobToResponse(job))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, jobListResponse{Items: items})
	}
}

func (h *Handler) jobCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jobRequest
		if err := decodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		job, err := h.jobs.Create(ctx, req.Name)
		if err != nil {
			h.writeServiceError(w, err, "職務の作成に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, jobToResponse(*job))
	}
}

func (h *Handler) jobRenameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		var req jobRequest
		if err := decodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		job, err := h.jobs.Rename(ctx, id, req.Name)
		if err != nil {
			h.writeServiceError(w, err, "職務名の変更に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, jobToResponse(*job))
	}
}

// jobDeleteHandler は職務と、その職務に属する質問をすべて削除する。
func (h *Handler) jobDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.jobs.Delete(ctx, id); err != nil {
			h.writeServiceError(w, err, "職務の削除に失敗しました")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
