package domain

import "time"

// Question は閲覧画面に表示する有効な質問。
type Question struct {
	ID        string
	JobID     string
	Category  string
	Content   string
	UpdatedAt time.Time
}
