package admin

import (
	"time"

	adminapp "github.com/sngm3741/interview-assist/api/internal/admin/application"
	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
)

type jobResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type jobListResponse struct {
	Items []jobResponse `json:"items"`
}

type jobRequest struct {
	Name string `json:"name"`
}

type questionResponse struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type questionListResponse struct {
	Items []questionResponse `json:"items"`
}

type questionCreateRequest struct {
	Category string `json:"category"`
	Content  string `json:"content"`
	// Active を省略した場合は有効として登録する。
	Active *bool `json:"active,omitempty"`
}

type questionUpdateRequest struct {
	Content *string `json:"content,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

type importResponse struct {
	adminapp.ImportResult
	UpdateExisting bool `json:"updateExisting"`
}

func jobToResponse(job admindomain.Job) jobResponse {
	return jobResponse{
		ID:        job.ID,
		Name:      job.Name.String(),
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func questionToResponse(q admindomain.Question) questionResponse {
	return questionResponse{
		ID:        q.ID,
		JobID:     q.JobID,
		Category:  q.Category.String(),
		Content:   q.Content.String(),
		Active:    q.Active,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
