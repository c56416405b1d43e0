package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
	"go.uber.org/zap"
)

const (
	// DefaultBatchThreshold は 1 バッチあたりの書き込み件数の上限。
	// バックエンドのハード上限 (DefaultBatchCeiling) より余裕を持たせている。
	DefaultBatchThreshold = 450
	// DefaultBatchCeiling is the backend's hard per-batch operation limit.
	DefaultBatchCeiling = 500

	invalidateTimeout = 3 * time.Second
)

var (
	// ErrRowSource は行の読み出し中に入力側でエラーが起きたことを示す。
	ErrRowSource = errors.New("import row source failed")
	// ErrJobResolution は職務 ID の検索・作成に失敗したことを示す。
	ErrJobResolution = errors.New("import job resolution failed")
	// ErrDedupLookup は重複判定キーでの検索に失敗したことを示す。
	ErrDedupLookup = errors.New("import dedup lookup failed")
	// ErrBatchCommit はバッチのコミットに失敗したことを示す。
	ErrBatchCommit = errors.New("import batch commit failed")
)

// ImportRow はスプレッドシート 1 行分の生データ。
// Active が空の場合は有効として扱う。
type ImportRow struct {
	Job      string
	Category string
	Question string
	Active   string
}

// RowSource yields import rows in input order. Next returns io.EOF once exhausted.
type RowSource interface {
	Next(ctx context.Context) (ImportRow, error)
}

// ImportOptions controls how rows matching an existing question are handled.
type ImportOptions struct {
	UpdateExisting bool
}

// ImportResult は 1 回のインポートの集計結果。
type ImportResult struct {
	Inserted    int `json:"inserted"`
	Updated     int `json:"updated"`
	Deactivated int `json:"deactivated"`
}

// ImportConfig provides dependencies for NewImportService.
type ImportConfig struct {
	Jobs        JobDirectory
	Questions   QuestionStore
	Invalidator CatalogInvalidator
	Logger      *zap.Logger
	// BatchThreshold はコミットを行う書き込み件数。0 以下または BatchCeiling 以上の場合は既定値を使う。
	BatchThreshold int
	BatchCeiling   int
}

type importService struct {
	jobs        JobDirectory
	questions   QuestionStore
	invalidator CatalogInvalidator
	logger      *zap.Logger
	threshold   int
	now         func() time.Time
}

func NewImportService(cfg ImportConfig) ImportService {
	ceiling := cfg.BatchCeiling
	if ceiling <= 0 {
		ceiling = DefaultBatchCeiling
	}
	threshold := cfg.BatchThreshold
	if threshold <= 0 || threshold >= ceiling {
		threshold = min(DefaultBatchThreshold, ceiling-1)
	}
	invalidator := cfg.Invalidator
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &importService{
		jobs:        cfg.Jobs,
		questions:   cfg.Questions,
		invalidator: invalidator,
		logger:      logger,
		threshold:   threshold,
		now:         utcNow,
	}
}

// validRow is an import row that passed field validation.
type validRow struct {
	job      admindomain.JobName
	category admindomain.Category
	content  admindomain.Content
	active   bool
}

// validateRow は行を検証・正規化する。職務名・本文が空、またはカテゴリが不正な行は ok=false。
func validateRow(row ImportRow) (validRow, bool) {
	job, err := admindomain.NewJobName(row.Job)
	if err != nil {
		return validRow{}, false
	}
	content, err := admindomain.NewContent(row.Question)
	if err != nil {
		return validRow{}, false
	}
	category, err := admindomain.ParseCategory(row.Category)
	if err != nil {
		return validRow{}, false
	}
	return validRow{
		job:      job,
		category: category,
		content:  content,
		active:   parseActive(row.Active),
	}, true
}

// parseActive は "0" のときだけ無効とみなす。未指定（空文字）は有効。
func parseActive(value string) bool {
	return strings.TrimSpace(value) != "0"
}

// Import は行を入力順に 1 件ずつ照合し、挿入・更新・無視を決めてバッチで書き込む。
//
// 途中でエラーが起きた場合、コミット済みのバッチはそのまま残り、未コミットのバッチは破棄される。
// 再実行すると反映済みの行は重複として検出されるため、再実行で復旧できる。
func (s *importService) Import(ctx context.Context, source RowSource, opts ImportOptions) (ImportResult, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("runId", runID), zap.Bool("updateExisting", opts.UpdateExisting))
	// 中断やタイムアウトで ctx が終わっていても、コミット済みの分を見せるため世代は必ず進める。
	defer func() {
		invalidateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
		defer cancel()
		s.invalidator.Invalidate(invalidateCtx)
	}()

	var (
		result    ImportResult
		skipped   int
		commits   int
		committed int
	)
	// 職務名 → ID のキャッシュは 1 回の実行内だけで使う。
	jobIDs := make(map[admindomain.JobName]string)
	batch := s.questions.NewBatch()

	commit := func() error {
		size := batch.Len()
		if err := batch.Commit(ctx); err != nil {
			return err
		}
		if size > 0 {
			commits++
			committed += size
			logger.Debug("import batch committed", zap.Int("ops", size), zap.Int("commits", commits))
		}
		batch = s.questions.NewBatch()
		return nil
	}

	fail := func(line int, kind error, err error) (ImportResult, error) {
		logger.Warn("import aborted",
			zap.Int("row", line),
			zap.Int("committedOps", committed),
			zap.Int("discardedOps", batch.Len()),
			zap.Error(err),
		)
		return ImportResult{}, fmt.Errorf("row %d: %w: %w", line, kind, err)
	}

	line := 0
	for {
		raw, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return fail(line, ErrRowSource, err)
		}

		row, ok := validateRow(raw)
		if !ok {
			skipped++
			continue
		}

		jobID, err := s.resolveJobID(ctx, jobIDs, row.job)
		if err != nil {
			return fail(line, ErrJobResolution, err)
		}

		key := admindomain.DedupKey(jobID, row.category, row.content.String())
		existing, err := s.questions.FindByDedupKey(ctx, key)
		if err != nil {
			return fail(line, ErrDedupLookup, err)
		}

		now := s.now()
		switch {
		case existing == nil:
			batch.Insert(&admindomain.Question{
				JobID:     jobID,
				Category:  row.category,
				Content:   row.content,
				Active:    row.active,
				DedupKey:  key,
				CreatedAt: now,
				UpdatedAt: now,
			})
			result.Inserted++
			if !row.active {
				result.Deactivated++
			}
		case !opts.UpdateExisting:
			continue
		default:
			batch.UpdateFields(existing.ID, QuestionFields{Active: row.active, UpdatedAt: now})
			if existing.Active && !row.active {
				result.Deactivated++
			} else {
				result.Updated++
			}
		}

		if batch.Len() >= s.threshold {
			if err := commit(); err != nil {
				return fail(line, ErrBatchCommit, err)
			}
		}
	}

	if err := commit(); err != nil {
		return fail(line, ErrBatchCommit, err)
	}

	logger.Info("import finished",
		zap.Int("rows", line),
		zap.Int("skipped", skipped),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("deactivated", result.Deactivated),
		zap.Int("commits", commits),
	)
	return result, nil
}

// resolveJobID は職務名から ID を引く。存在しなければ作成する。
// 検索と作成はトランザクションではないため、並行実行すると同名の職務が重複しうる。
func (s *importService) resolveJobID(ctx context.Context, cache map[admindomain.JobName]string, name admindomain.JobName) (string, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	job, err := s.jobs.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	if job == nil {
		now := s.now()
		job = &admindomain.Job{Name: name, CreatedAt: now, UpdatedAt: now}
		if err := s.jobs.Create(ctx, job); err != nil {
			return "", err
		}
		s.logger.Info("job created during import", zap.String("jobId", job.ID), zap.String("name", name.String()))
	}
	cache[name] = job.ID
	return job.ID, nil
}

// SliceSource is a RowSource over an in-memory slice.
type SliceSource struct {
	rows []ImportRow
	pos  int
}

func NewSliceSource(rows []ImportRow) *SliceSource {
	return &SliceSource{rows: rows}
}

func (s *SliceSource) Next(ctx context.Context) (ImportRow, error) {
	if err := ctx.Err(); err != nil {
		return ImportRow{}, err
	}
	if s.pos >= len(s.rows) {
		return ImportRow{}, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
