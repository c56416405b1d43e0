package admin

import (
	"context"
	"errors"
	"net/http"

	adminapp "github.com/sngm3741/interview-assist/api/internal/admin/application"
	"github.com/sngm3741/interview-assist/api/internal/infrastructure/spreadsheet"
	"github.com/sngm3741/interview-assist/api/internal/interfaces/http/common"
	"github.com/sngm3741/interview-assist/api/internal/notify"
	"go.uber.org/zap"
)

// importHandler は multipart の file（XLSX）を受け取り、質問を照合・反映する。
// updateExisting=1 のとき既存質問の有効フラグも上書きする。
func (h *Handler) importHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.WriteError(h.logger, w, http.StatusRequestEntityTooLarge, "ファイルサイズが上限を超えています")
				return
			}
			common.WriteError(h.logger, w, http.StatusBadRequest, "multipart/form-data で送信してください")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "file を指定してください")
			return
		}
		defer file.Close()

		source, err := spreadsheet.OpenXLSX(file)
		if err != nil {
			if errors.Is(err, spreadsheet.ErrMissingColumn) {
				common.WriteError(h.logger, w, http.StatusBadRequest, "ヘッダーに job / category / question 列が必要です")
				return
			}
			h.logger.Info("xlsx open failed", zap.String("file", header.Filename), zap.Error(err))
			common.WriteError(h.logger, w, http.StatusBadRequest, "XLSX ファイルを読み込めませんでした")
			return
		}
		defer source.Close()

		opts := adminapp.ImportOptions{UpdateExisting: common.ParseFlag(r.FormValue("updateExisting"))}

		ctx, cancel := context.WithTimeout(r.Context(), common.ImportTimeout)
		defer cancel()

		result, err := h.importer.Import(ctx, source, opts)
		h.notifyImport(r, header.Filename, opts, result, err)
		if err != nil {
			if errors.Is(err, adminapp.ErrRowSource) {
				common.WriteError(h.logger, w, http.StatusUnprocessableEntity, "ファイルの読み込み中にエラーが発生しました。反映済みの行は再実行で重複として扱われます")
				return
			}
			h.logger.Error("import failed", zap.String("file", header.Filename), zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, "インポートに失敗しました。反映済みの行は再実行で重複として扱われます")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, importResponse{ImportResult: result, UpdateExisting: opts.UpdateExisting})
	}
}

func (h *Handler) notifyImport(r *http.Request, fileName string, opts adminapp.ImportOptions, result adminapp.ImportResult, err error) {
	if h.notifier == nil {
		return
	}
	user, _ := common.UserFromContext(r.Context())
	summary := notify.ImportSummary{
		Actor:          user.DisplayName(),
		FileName:       fileName,
		UpdateExisting: opts.UpdateExisting,
		Result:         result,
		Err:            err,
	}
	go h.notifier.NotifyImport(context.Background(), summary)
}
