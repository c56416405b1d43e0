package public

import (
	"time"

	"github.com/sngm3741/interview-assist/api/internal/public/domain"
)

type jobSummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type jobListResponse struct {
	Items []jobSummaryResponse `json:"items"`
}

type categoryResponse struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

type categoryListResponse struct {
	Items []categoryResponse `json:"items"`
}

type questionResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type questionListResponse struct {
	JobID    string             `json:"jobId"`
	Category categoryResponse   `json:"category"`
	Items    []questionResponse `json:"items"`
}

func toCategoryResponse(meta domain.CategoryMeta) categoryResponse {
	return categoryResponse{Code: meta.Code, Title: meta.Title, Icon: meta.Icon}
}
