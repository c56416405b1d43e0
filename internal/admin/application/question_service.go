package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
)

type questionService struct {
	jobs        JobRepository
	repo        QuestionRepository
	invalidator CatalogInvalidator
	now         func() time.Time
}

func NewQuestionService(jobs JobRepository, repo QuestionRepository, invalidator CatalogInvalidator) QuestionService {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &questionService{jobs: jobs, repo: repo, invalidator: invalidator, now: utcNow}
}

func (s *questionService) List(ctx context.Context, filter QuestionFilter) ([]admindomain.Question, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, admindomain.ErrInvalidCategory
	}
	return s.repo.Find(ctx, filter)
}

func (s *questionService) Add(ctx context.Context, cmd AddQuestionCommand) (*admindomain.Question, error) {
	category, err := admindomain.ParseCategory(cmd.Category)
	if err != nil {
		return nil, err
	}
	if _, err := s.jobs.FindByID(ctx, cmd.JobID); err != nil {
		return nil, err
	}
	question, err := admindomain.NewQuestion(cmd.JobID, category, cmd.Content, cmd.Active, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, err
	}
	s.invalidator.Invalidate(ctx)
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id string, patch admindomain.QuestionPatch) (*admindomain.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return question, s.save(ctx, question, patch)
}

// Toggle は有効/無効を反転する。
func (s *questionService) Toggle(ctx context.Context, id string) (*admindomain.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := !question.Active
	return question, s.save(ctx, question, admindomain.QuestionPatch{Active: &active})
}

// save は patch を適用して保存する。重複判定キーが別の質問と衝突する編集は拒否する。
func (s *questionService) save(ctx context.Context, question *admindomain.Question, patch admindomain.QuestionPatch) error {
	updated := *question
	if err := updated.Apply(patch, s.now()); err != nil {
		return err
	}
	if updated.DedupKey != question.DedupKey {
		existing, err := s.repo.FindByDedupKey(ctx, updated.DedupKey)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != question.ID {
			return ErrDuplicateQuestion
		}
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return err
	}
	*question = updated
	s.invalidator.Invalidate(ctx)
	return nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx)
	return nil
}
