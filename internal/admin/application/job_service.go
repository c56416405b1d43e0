package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
)

// DefaultJobName は職務が 1 件もないときに作成する初期職務。
const DefaultJobName = "Backend Developer"

type jobService struct {
	repo        JobRepository
	invalidator CatalogInvalidator
	now         func() time.Time
}

func NewJobService(repo JobRepository, invalidator CatalogInvalidator) JobService {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &jobService{repo: repo, invalidator: invalidator, now: utcNow}
}

func (s *jobService) List(ctx context.Context) ([]admindomain.Job, error) {
	return s.repo.List(ctx)
}

// Create は同名チェックを行ったうえで職務を追加する。
// チェックと作成はトランザクションではないため、同時実行時は重複しうる。
func (s *jobService) Create(ctx context.Context, name string) (*admindomain.Job, error) {
	jobName, err := admindomain.NewJobName(name)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByName(ctx, jobName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrJobNameTaken
	}

	now := s.now()
	job := &admindomain.Job{Name: jobName, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	s.invalidator.Invalidate(ctx)
	return job, nil
}

func (s *jobService) Rename(ctx context.Context, id, name string) (*admindomain.Job, error) {
	jobName, err := admindomain.NewJobName(name)
	if err != nil {
		return nil, err
	}
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByName(ctx, jobName)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != job.ID {
		return nil, ErrJobNameTaken
	}

	job.Name = jobName
	job.UpdatedAt = s.now()
	if err := s.repo.Rename(ctx, job.ID, job.Name, job.UpdatedAt); err != nil {
		return nil, err
	}
	s.invalidator.Invalidate(ctx)
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

// EnsureDefault は職務が空のときだけ DefaultJobName を作成する。
func (s *jobService) EnsureDefault(ctx context.Context) error {
	ok, err := s.repo.Exists(ctx)
	if err != nil || ok {
		return err
	}
	_, err = s.Create(ctx, DefaultJobName)
	return err
}

func utcNow() time.Time {
	return time.Now().UTC()
}
