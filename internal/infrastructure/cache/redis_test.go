package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sngm3741/interview-assist/api/internal/public/domain"
)

func TestCatalogCacheWithoutClientIsAlwaysMiss(t *testing.T) {
	c := NewCatalogCache(nil, 0, nil)
	ctx := context.Background()

	c.StoreJobs(ctx, "", []domain.Job{{ID: "1", Name: "SRE"}})
	if _, ok := c.Jobs(ctx, ""); ok {
		t.Fatalf("expected a miss without redis")
	}
	c.StoreQuestions(ctx, "1", "a", []domain.Question{{ID: "q"}})
	if _, ok := c.Questions(ctx, "1", "a"); ok {
		t.Fatalf("expected a miss without redis")
	}
	c.Invalidate(ctx)
	if c.ttl != time.Minute {
		t.Fatalf("default ttl = %v", c.ttl)
	}
}

func TestCacheKeysEmbedGeneration(t *testing.T) {
	if got := jobsKey(3, "back%20end"); got != "interview-assist:catalog:3:jobs:back%20end" {
		t.Fatalf("jobsKey = %q", got)
	}
	if got := questionsKey(0, "abc", "d"); got != "interview-assist:catalog:0:questions:abc:d" {
		t.Fatalf("questionsKey = %q", got)
	}
	if jobsKey(1, "") == jobsKey(2, "") {
		t.Fatalf("keys of different generations must differ")
	}
}
