package application

import (
	"context"
	"errors"
	"time"

	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
)

var (
	// ErrJobNotFound is returned when no job matches the given ID.
	ErrJobNotFound = errors.New("job not found")
	// ErrQuestionNotFound is returned when no question matches the given ID.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrJobNameTaken は同名の職務が既に存在する場合に返す。
	ErrJobNameTaken = errors.New("job name already exists")
	// ErrDuplicateQuestion は編集後の本文が同じ職務・カテゴリの別の質問と重複する場合に返す。
	ErrDuplicateQuestion = errors.New("question with the same content already exists")
)

// JobDirectory は職務名から ID を引くためのポート。インポート時に利用する。
// FindByName は一致なしの場合 nil, nil を返す。
type JobDirectory interface {
	FindByName(ctx context.Context, name admindomain.JobName) (*admindomain.Job, error)
	Create(ctx context.Context, job *admindomain.Job) error
}

// JobRepository exposes admin operations on jobs.
type JobRepository interface {
	JobDirectory
	List(ctx context.Context) ([]admindomain.Job, error)
	FindByID(ctx context.Context, id string) (*admindomain.Job, error)
	Exists(ctx context.Context) (bool, error)
	Rename(ctx context.Context, id string, name admindomain.JobName, updatedAt time.Time) error
	// DeleteCascade removes the job and every question that references it.
	DeleteCascade(ctx context.Context, id string) error
}

// QuestionStore は重複判定キーでの検索とバッチ書き込みを提供するポート。
// FindByDedupKey は一致なしの場合 nil, nil を返す。
type QuestionStore interface {
	FindByDedupKey(ctx context.Context, key string) (*admindomain.Question, error)
	NewBatch() QuestionBatch
}

// QuestionBatch は書き込み操作をためておき、Commit で一括反映する。
// 0 件の Commit は何もせず nil を返す。
type QuestionBatch interface {
	Insert(question *admindomain.Question)
	UpdateFields(id string, fields QuestionFields)
	Len() int
	Commit(ctx context.Context) error
}

// QuestionFields are the fields an import may overwrite on an existing question.
type QuestionFields struct {
	Active    bool
	UpdatedAt time.Time
}

// QuestionRepository exposes CRUD for admin questions.
type QuestionRepository interface {
	QuestionStore
	Find(ctx context.Context, filter QuestionFilter) ([]admindomain.Question, error)
	FindByID(ctx context.Context, id string) (*admindomain.Question, error)
	Create(ctx context.Context, question *admindomain.Question) error
	Update(ctx context.Context, question *admindomain.Question) error
	Delete(ctx context.Context, id string) error
}

// CatalogInvalidator は公開側キャッシュを無効化するためのフック。
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

// QuestionFilter expresses admin list criteria.
type QuestionFilter struct {
	JobID      string
	Category   admindomain.Category
	OnlyActive bool
}

// JobService describes admin job use-cases.
type JobService interface {
	List(ctx context.Context) ([]admindomain.Job, error)
	Create(ctx context.Context, name string) (*admindomain.Job, error)
	Rename(ctx context.Context, id, name string) (*admindomain.Job, error)
	Delete(ctx context.Context, id string) error
	EnsureDefault(ctx context.Context) error
}

// QuestionService describes admin question use-cases.
type QuestionService interface {
	List(ctx context.Context, filter QuestionFilter) ([]admindomain.Question, error)
	Add(ctx context.Context, cmd AddQuestionCommand) (*admindomain.Question, error)
	Update(ctx context.Context, id string, patch admindomain.QuestionPatch) (*admindomain.Question, error)
	Toggle(ctx context.Context, id string) (*admindomain.Question, error)
	Delete(ctx context.Context, id string) error
}

// ImportService describes the spreadsheet reconciliation use-case.
type ImportService interface {
	Import(ctx context.Context, source RowSource, opts ImportOptions) (ImportResult, error)
}

// AddQuestionCommand contains inputs for creating a question.
type AddQuestionCommand struct {
	JobID    string
	Category string
	Content  string
	Active   bool
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}
