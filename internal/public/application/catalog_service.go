package application

import (
	"context"
	"strings"

	"github.com/sngm3741/interview-assist/api/internal/public/domain"
)

type catalogQueryService struct {
	jobs      JobRepository
	questions QuestionRepository
	cache     CatalogCache
}

// NewCatalogQueryService creates a catalog query service. cache may be nil.
func NewCatalogQueryService(jobs JobRepository, questions QuestionRepository, cache CatalogCache) CatalogQueryService {
	if cache == nil {
		cache = noCache{}
	}
	return &catalogQueryService{jobs: jobs, questions: questions, cache: cache}
}

func (s *catalogQueryService) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	cacheKey := strings.ToLower(filter.Keyword)
	if jobs, ok := s.cache.Jobs(ctx, cacheKey); ok {
		return jobs, nil
	}
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.StoreJobs(ctx, cacheKey, jobs)
	return jobs, nil
}

func (s *catalogQueryService) ListCategories() []domain.CategoryMeta {
	out := make([]domain.CategoryMeta, len(domain.CategoryCatalog))
	copy(out, domain.CategoryCatalog)
	return out
}

// ListActiveQuestions は職務・カテゴリに属する有効な質問を新しい順に返す。
func (s *catalogQueryService) ListActiveQuestions(ctx context.Context, jobID, category string) ([]domain.Question, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if _, ok := domain.LookupCategory(category); !ok {
		return nil, ErrInvalidCategory
	}
	jobID = strings.TrimSpace(jobID)
	if questions, ok := s.cache.Questions(ctx, jobID, category); ok {
		return questions, nil
	}
	if _, err := s.jobs.FindByID(ctx, jobID); err != nil {
		return nil, err
	}
	questions, err := s.questions.ListActive(ctx, jobID, category)
	if err != nil {
		return nil, err
	}
	s.cache.StoreQuestions(ctx, jobID, category, questions)
	return questions, nil
}

type noCache struct{}

func (noCache) Jobs(context.Context, string) ([]domain.Job, bool) { return nil, false }

func (noCache) StoreJobs(context.Context, string, []domain.Job) {}

func (noCache) Questions(context.Context, string, string) ([]domain.Question, bool) {
	return nil, false
}

func (noCache) StoreQuestions(context.Context, string, string, []domain.Question) {}
