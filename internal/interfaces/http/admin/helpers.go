package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	adminapp "github.com/sngm3741/interview-assist/api/internal/admin/application"
	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
	"github.com/sngm3741/interview-assist/api/internal/interfaces/http/common"
	"go.uber.org/zap"
)

// writeServiceError はアプリケーション層のエラーを HTTP ステータスへ変換する。
// 想定外のエラーはログに残し、fallback メッセージで 500 を返す。
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, adminapp.ErrJobNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "職務が見つかりません")
	case errors.Is(err, adminapp.ErrQuestionNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "質問が見つかりません")
	case errors.Is(err, adminapp.ErrJobNameTaken):
		common.WriteError(h.logger, w, http.StatusConflict, "同じ名前の職務が既に存在します")
	case errors.Is(err, adminapp.ErrDuplicateQuestion):
		common.WriteError(h.logger, w, http.StatusConflict, "同じ内容の質問が既に存在します")
	case errors.Is(err, admindomain.ErrEmptyJobName):
		common.WriteError(h.logger, w, http.StatusBadRequest, "職務名を入力してください")
	case errors.Is(err, admindomain.ErrEmptyContent):
		common.WriteError(h.logger, w, http.StatusBadRequest, "質問内容を入力してください")
	case errors.Is(err, admindomain.ErrInvalidCategory):
		common.WriteError(h.logger, w, http.StatusBadRequest, "カテゴリは a, b, c, d のいずれかを指定してください")
	default:
		h.logger.Error(fallback, zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSON はサイズ上限付きでリクエストボディを読み込む。
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, common.MaxJSONRequestBody)).Decode(dst)
}
