package domain

import "time"

// Job represents an interview role that owns questions.
type Job struct {
	ID        string
	Name      JobName
	CreatedAt time.Time
	UpdatedAt time.Time
}
