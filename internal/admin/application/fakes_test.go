package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
)

var errFakeStore = errors.New("fake store unavailable")

type memoryJobs struct {
	jobs           []admindomain.Job
	findByName     int
	failFindByName bool
	failCreate     bool
	deleted        []string
}

func (m *memoryJobs) FindByName(_ context.Context, name admindomain.JobName) (*admindomain.Job, error) {
	m.findByName++
	if m.failFindByName {
		return nil, errFakeStore
	}
	for i := range m.jobs {
		if m.jobs[i].Name == name {
			job := m.jobs[i]
			return &job, nil
		}
	}
	return nil, nil
}

func (m *memoryJobs) Create(_ context.Context, job *admindomain.Job) error {
	if m.failCreate {
		return errFakeStore
	}
	job.ID = fmt.Sprintf("job-%d", len(m.jobs)+1)
	m.jobs = append(m.jobs, *job)
	return nil
}

func (m *memoryJobs) List(context.Context) ([]admindomain.Job, error) {
	out := append([]admindomain.Job(nil), m.jobs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryJobs) FindByID(_ context.Context, id string) (*admindomain.Job, error) {
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			job := m.jobs[i]
			return &job, nil
		}
	}
	return nil, ErrJobNotFound
}

func (m *memoryJobs) Exists(context.Context) (bool, error) {
	return len(m.jobs) > 0, nil
}

func (m *memoryJobs) Rename(_ context.Context, id string, name admindomain.JobName, updatedAt time.Time) error {
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			m.jobs[i].Name = name
			m.jobs[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return ErrJobNotFound
}

func (m *memoryJobs) DeleteCascade(_ context.Context, id string) error {
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return ErrJobNotFound
}

type memoryQuestions struct {
	questions  []admindomain.Question
	nextID     int
	commits    []int
	failLookup bool
	// failCommitAt は n 回目（1 始まり）の非空コミットを失敗させる。0 なら失敗しない。
	failCommitAt int
	commitCalls  int
}

func (m *memoryQuestions) FindByDedupKey(_ context.Context, key string) (*admindomain.Question, error) {
	if m.failLookup {
		return nil, errFakeStore
	}
	for i := range m.questions {
		if m.questions[i].DedupKey == key {
			q := m.questions[i]
			return &q, nil
		}
	}
	return nil, nil
}

func (m *memoryQuestions) NewBatch() QuestionBatch {
	return &memoryBatch{store: m}
}

func (m *memoryQuestions) Find(_ context.Context, filter QuestionFilter) ([]admindomain.Question, error) {
	out := make([]admindomain.Question, 0)
	for _, q := range m.questions {
		if filter.JobID != "" && q.JobID != filter.JobID {
			continue
		}
		if filter.Category != "" && q.Category != filter.Category {
			continue
		}
		if filter.OnlyActive && !q.Active {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (m *memoryQuestions) FindByID(_ context.Context, id string) (*admindomain.Question, error) {
	for i := range m.questions {
		if m.questions[i].ID == id {
			q := m.questions[i]
			return &q, nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (m *memoryQuestions) Create(_ context.Context, q *admindomain.Question) error {
	m.insert(q)
	return nil
}

func (m *memoryQuestions) Update(_ context.Context, q *admindomain.Question) error {
	for i := range m.questions {
		if m.questions[i].ID == q.ID {
			m.questions[i] = *q
			return nil
		}
	}
	return ErrQuestionNotFound
}

func (m *memoryQuestions) Delete(_ context.Context, id string) error {
	for i := range m.questions {
		if m.questions[i].ID == id {
			m.questions = append(m.questions[:i], m.questions[i+1:]...)
			return nil
		}
	}
	return ErrQuestionNotFound
}

func (m *memoryQuestions) insert(q *admindomain.Question) {
	m.nextID++
	q.ID = fmt.Sprintf("q-%d", m.nextID)
	m.questions = append(m.questions, *q)
}

type memoryOp struct {
	insert *admindomain.Question
	id     string
	fields QuestionFields
}

type memoryBatch struct {
	store *memoryQuestions
	ops   []memoryOp
}

func (b *memoryBatch) Insert(q *admindomain.Question) {
	b.ops = append(b.ops, memoryOp{insert: q})
}

func (b *memoryBatch) UpdateFields(id string, fields QuestionFields) {
	b.ops = append(b.ops, memoryOp{id: id, fields: fields})
}

func (b *memoryBatch) Len() int {
	return len(b.ops)
}

func (b *memoryBatch) Commit(context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	b.store.commitCalls++
	if b.store.failCommitAt > 0 && b.store.commitCalls == b.store.failCommitAt {
		return errFakeStore
	}
	for _, op := range b.ops {
		if op.insert != nil {
			b.store.insert(op.insert)
			continue
		}
		for i := range b.store.questions {
			if b.store.questions[i].ID == op.id {
				b.store.questions[i].Active = op.fields.Active
				b.store.questions[i].UpdatedAt = op.fields.UpdatedAt
			}
		}
	}
	b.store.commits = append(b.store.commits, len(b.ops))
	b.ops = nil
	return nil
}

type countingInvalidator struct {
	calls int
	// ctxErr は最後に渡された ctx の Err()。
	ctxErr error
}

func (c *countingInvalidator) Invalidate(ctx context.Context) {
	c.calls++
	c.ctxErr = ctx.Err()
}

// failingSource は rows を返し終えた後に err を返す。
type failingSource struct {
	rows []ImportRow
	err  error
	pos  int
}

func (f *failingSource) Next(context.Context) (ImportRow, error) {
	if f.pos >= len(f.rows) {
		return ImportRow{}, f.err
	}
	row := f.rows[f.pos]
	f.pos++
	return row, nil
}
