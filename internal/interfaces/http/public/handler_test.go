package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	publicapp "github.com/sngm3741/interview-assist/api/internal/public/application"
	"github.com/sngm3741/interview-assist/api/internal/public/domain"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCatalog struct {
	keyword  string
	category string
	err      error
}

func (f *fakeCatalog) ListJobs(_ context.Context, filter publicapp.JobFilter) ([]domain.Job, error) {
	f.keyword = filter.Keyword
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Job{{ID: "1", Name: "Backend Developer"}}, nil
}

func (f *fakeCatalog) ListCategories() []domain.CategoryMeta {
	return domain.CategoryCatalog
}

func (f *fakeCatalog) ListActiveQuestions(_ context.Context, jobID, category string) ([]domain.Question, error) {
	f.category = category
	if f.err != nil {
		return nil, f.err
	}
	if jobID != "1" {
		return nil, publicapp.ErrJobNotFound
	}
	return []domain.Question{{ID: "q1", JobID: jobID, Category: category, Content: "What is REST?"}}, nil
}

func newRouter(catalog publicapp.CatalogQueryService) http.Handler {
	r := chi.NewRouter()
	NewHandler(Config{Catalog: catalog}).Register(r)
	return r
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestJobList(t *testing.T) {
	catalog := &fakeCatalog{}
	rec := get(t, newRouter(catalog), "/jobs?q=back")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp jobListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Backend Developer" || catalog.keyword != "back" {
		t.Fatalf("unexpected response %+v keyword=%q", resp, catalog.keyword)
	}
}

func TestCategoryList(t *testing.T) {
	rec := get(t, newRouter(&fakeCatalog{}), "/categories")
	var resp categoryListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 4 || resp.Items[1].Title != "Behavioral" || resp.Items[1].Icon != "groups" {
		t.Fatalf("unexpected categories: %+v", resp.Items)
	}
}

func TestQuestionList(t *testing.T) {
	catalog := &fakeCatalog{}
	router := newRouter(catalog)

	rec := get(t, router, "/jobs/1/questions?category=B")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp questionListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Category.Code != "b" || len(resp.Items) != 1 || resp.Items[0].Content != "What is REST?" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if rec := get(t, router, "/jobs/1/questions"); rec.Code != http.StatusOK || catalog.category != "a" {
		t.Fatalf("default category: status=%d category=%q", rec.Code, catalog.category)
	}
	if rec := get(t, router, "/jobs/404/questions?category=a"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown job status = %d", rec.Code)
	}
}

func TestQuestionListErrors(t *testing.T) {
	catalog := &fakeCatalog{err: publicapp.ErrInvalidCategory}
	if rec := get(t, newRouter(catalog), "/jobs/1/questions?category=z"); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid category status = %d", rec.Code)
	}
	catalog.err = errors.New("boom")
	if rec := get(t, newRouter(catalog), "/jobs/1/questions?category=a"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("internal error status = %d", rec.Code)
	}
	if rec := get(t, newRouter(catalog), "/jobs"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("job list error status = %d", rec.Code)
	}
}
