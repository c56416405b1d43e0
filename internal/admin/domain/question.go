package domain

import "time"

// Question は管理画面で扱う面接質問の集約。
type Question struct {
	ID        string
	JobID     string
	Category  Category
	Content   Content
	Active    bool
	DedupKey  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewQuestion は本文を検証し、重複判定キーを算出した Question を返す。
func NewQuestion(jobID string, category Category, content string, active bool, now time.Time) (*Question, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	body, err := NewContent(content)
	if err != nil {
		return nil, err
	}
	return &Question{
		JobID:     jobID,
		Category:  category,
		Content:   body,
		Active:    active,
		DedupKey:  DedupKey(jobID, category, body.String()),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// QuestionPatch holds the fields an admin edit may change.
type QuestionPatch struct {
	Content *string
	Active  *bool
}

// Apply は patch を適用する。本文が変わった場合は重複判定キーも再計算する。
func (q *Question) Apply(patch QuestionPatch, now time.Time) error {
	if patch.Content != nil {
		body, err := NewContent(*patch.Content)
		if err != nil {
			return err
		}
		q.Content = body
		q.DedupKey = DedupKey(q.JobID, q.Category, body.String())
	}
	if patch.Active != nil {
		q.Active = *patch.Active
	}
	q.UpdatedAt = now
	return nil
}
