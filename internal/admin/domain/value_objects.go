package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyJobName は職務名が空のときに返す。
	ErrEmptyJobName = errors.New("job name is required")
	// ErrEmptyContent は質問本文が空のときに返す。
	ErrEmptyContent = errors.New("question content is required")
	// ErrInvalidCategory はカテゴリコードが a〜d 以外のときに返す。
	ErrInvalidCategory = errors.New("invalid category code")
)

// Category は質問の分類コード。a〜d の固定列挙。
type Category string

const (
	CategoryTechnical    Category = "a"
	CategoryBehavioral   Category = "b"
	CategorySituational  Category = "c"
	CategoryBrainTeasers Category = "d"
)

// Categories は表示順に並べたカテゴリ一覧。
var Categories = []Category{CategoryTechnical, CategoryBehavioral, CategorySituational, CategoryBrainTeasers}

// ParseCategory はトリム・小文字化したうえでカテゴリコードとして検証する。
func ParseCategory(value string) (Category, error) {
	code := Category(strings.ToLower(strings.TrimSpace(value)))
	if !code.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, value)
	}
	return code, nil
}

// Valid reports whether c is one of the known codes.
func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBehavioral, CategorySituational, CategoryBrainTeasers:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// JobName は前後空白を除いた職務名。大文字小文字は保存時のまま区別する。
type JobName string

func NewJobName(value string) (JobName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrEmptyJobName
	}
	return JobName(trimmed), nil
}

func (n JobName) String() string {
	return string(n)
}

// Content は前後空白を除いた質問本文。表記はそのまま保持する。
type Content string

func NewContent(value string) (Content, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	return Content(trimmed), nil
}

func (c Content) String() string {
	return string(c)
}

// NormalizeContent lowercases s, trims it and collapses whitespace runs to a single space.
func NormalizeContent(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// DedupKey は jobID・カテゴリ・正規化済み本文から重複判定キーを組み立てる。
// 表記揺れ（空白・大文字小文字）だけが異なる質問は同じキーになる。
func DedupKey(jobID string, category Category, content string) string {
	return jobID + "|" + string(category) + "|" + NormalizeContent(content)
}
