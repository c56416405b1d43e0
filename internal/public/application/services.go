package application

import (
	"context"
	"errors"

	"github.com/sngm3741/interview-assist/api/internal/public/domain"
)

var (
	// ErrJobNotFound は指定 ID の職務が存在しない場合に返す。
	ErrJobNotFound = errors.New("job not found")
	// ErrInvalidCategory is returned for category codes outside the catalog.
	ErrInvalidCategory = errors.New("invalid category")
)

// JobRepository は Public コンテキストで職務を読み取るためのポート。
type JobRepository interface {
	List(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	// FindByID returns ErrJobNotFound when no job matches.
	FindByID(ctx context.Context, id string) (*domain.Job, error)
}

// QuestionRepository は有効な質問だけを読み取るポート。
type QuestionRepository interface {
	ListActive(ctx context.Context, jobID, category string) ([]domain.Question, error)
}

// CatalogCache は一覧結果の読み取りキャッシュ。ok=false はキャッシュミス。
type CatalogCache interface {
	Jobs(ctx context.Context, keyword string) (jobs []domain.Job, ok bool)
	StoreJobs(ctx context.Context, keyword string, jobs []domain.Job)
	Questions(ctx context.Context, jobID, category string) (questions []domain.Question, ok bool)
	StoreQuestions(ctx context.Context, jobID, category string, questions []domain.Question)
}

// JobFilter expresses search criteria for jobs.
type JobFilter struct {
	// Keyword は職務名の部分一致（大文字小文字を区別しない）。
	Keyword string
}

// CatalogQueryService describes viewer read use-cases.
// CatalogQueryService は閲覧画面向けのリーダーモデル。
type CatalogQueryService interface {
	ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	ListCategories() []domain.CategoryMeta
	ListActiveQuestions(ctx context.Context, jobID, category string) ([]domain.Question, error)
}
