package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeContent(t *testing.T) {
	cases := map[string]string{
		" What is REST? ":         "what is rest?",
		"what\t is\n\nREST?":      "what is rest?",
		"":                        "",
		"   ":                     "",
		"Explain  Go   channels":  "explain go channels",
		"　全角　スペース": "全角 スペース",
	}
	for in, want := range cases {
		if got := NormalizeContent(in); got != want {
			t.Fatalf("NormalizeContent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeContentIsIdempotent(t *testing.T) {
	inputs := []string{
		" What is REST? ",
		"A B  C",
		"MiXeD\tCase\r\nLines",
		"already normal",
		"",
	}
	for _, in := range inputs {
		once := NormalizeContent(in)
		if twice := NormalizeContent(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestDedupKeyIgnoresSurfaceFormatting(t *testing.T) {
	a := DedupKey("job1", CategoryTechnical, " What is  REST? ")
	b := DedupKey("job1", CategoryTechnical, "what is rest?")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
	if a != "job1|a|what is rest?" {
		t.Fatalf("unexpected key layout: %q", a)
	}
	if DedupKey("job2", CategoryTechnical, "what is rest?") == a {
		t.Fatalf("keys for different jobs must differ")
	}
	if DedupKey("job1", CategoryBehavioral, "what is rest?") == a {
		t.Fatalf("keys for different categories must differ")
	}
}

func TestParseCategory(t *testing.T) {
	for _, raw := range []string{"a", " B ", "c", "D"} {
		if _, err := ParseCategory(raw); err != nil {
			t.Fatalf("ParseCategory(%q): %v", raw, err)
		}
	}
	for _, raw := range []string{"", "x", "ab", "e"} {
		if _, err := ParseCategory(raw); !errors.Is(err, ErrInvalidCategory) {
			t.Fatalf("ParseCategory(%q) err = %v, want ErrInvalidCategory", raw, err)
		}
	}
}

func TestQuestionApplyRecomputesDedupKey(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q, err := NewQuestion("job1", CategoryTechnical, "  What is REST? ", true, now)
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	if q.Content != "What is REST?" {
		t.Fatalf("content not trimmed: %q", q.Content)
	}

	content := "What is gRPC?"
	later := now.Add(time.Hour)
	if err := q.Apply(QuestionPatch{Content: &content}, later); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if q.DedupKey != "job1|a|what is grpc?" {
		t.Fatalf("dedup key not recomputed: %q", q.DedupKey)
	}
	if !q.UpdatedAt.Equal(later) || !q.CreatedAt.Equal(now) {
		t.Fatalf("timestamps wrong: created=%v updated=%v", q.CreatedAt, q.UpdatedAt)
	}

	empty := "  "
	if err := q.Apply(QuestionPatch{Content: &empty}, later); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}
