package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/interview-assist/api/internal/admin/application"
	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
	"github.com/sngm3741/interview-assist/api/internal/interfaces/http/common"
)

// questionListHandler は職務の質問一覧を返す。category 省略時は全カテゴリ、active=1 で有効な質問のみ。
func (h *Handler) questionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		onlyActive, err := common.ParseOptionalBool(query.Get("active"))
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "active は 1 または 0 で指定してください")
			return
		}

		filter := adminapp.QuestionFilter{
			JobID:    strings.TrimSpace(chi.URLParam(r, "id")),
			Category: admindomain.Category(strings.ToLower(strings.TrimSpace(query.Get("category")))),
		}
		if onlyActive != nil {
			filter.OnlyActive = *onlyActive
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		questions, err := h.questions.List(ctx, filter)
		if err != nil {
			h.writeServiceError(w, err, "質問一覧の取得に失敗しました")
			return
		}

		items := make([]questionResponse, 0, len(questions))
		for _, q := range questions {
			items = append(items, questionToResponse(q))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionListResponse{Items: items})
	}
}

func (h *Handler) questionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		question, err := h.questions.Add(ctx, adminapp.AddQuestionCommand{
			JobID:    strings.TrimSpace(chi.URLParam(r, "id")),
			Category: req.Category,
			Content:  req.Content,
			Active:   active,
		})
		if err != nil {
			h.writeServiceError(w, err, "質問の追加に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, questionToResponse(*question))
	}
}

func (h *Handler) questionUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}
		if req.Content == nil && req.Active == nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "更新する項目を指定してください")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		question, err := h.questions.Update(ctx, strings.TrimSpace(chi.URLParam(r, "id")), admindomain.QuestionPatch{
			Content: req.Content,
			Active:  req.Active,
		})
		if err != nil {
			h.writeServiceError(w, err, "質問の更新に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionToResponse(*question))
	}
}

func (h *Handler) questionToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		question, err := h.questions.Toggle(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			h.writeServiceError(w, err, "質問の切り替えに失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionToResponse(*question))
	}
}

func (h *Handler) questionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.questions.Delete(ctx, strings.TrimSpace(chi.URLParam(r, "id"))); err != nil {
			h.writeServiceError(w, err, "質問の削除に失敗しました")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
