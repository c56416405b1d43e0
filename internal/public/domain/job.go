package domain

import "time"

// Job represents a publicly listed interview role.
type Job struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
