// Package cache は閲覧 API の一覧結果を Redis にキャッシュする。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sngm3741/interview-assist/api/internal/public/domain"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "interview-assist:catalog"
	generationKey = keyPrefix + ":gen"
)

func NewClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

func Ping(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// CatalogCache は世代番号付きキーで一覧をキャッシュする。
// Invalidate は世代番号を進めるだけで、古いキーは TTL で消える。
// client が nil の場合はすべてキャッシュミスとして振る舞う。
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogCache{client: client, ttl: ttl, logger: logger}
}

type cachedJob struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type cachedQuestion struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *CatalogCache) Jobs(ctx context.Context, keyword string) ([]domain.Job, bool) {
	var cached []cachedJob
	if !c.load(ctx, jobsKey, &cached, url.QueryEscape(keyword)) {
		return nil, false
	}
	jobs := make([]domain.Job, 0, len(cached))
	for _, j := range cached {
		jobs = append(jobs, domain.Job{ID: j.ID, Name: j.Name, CreatedAt: j.CreatedAt, UpdatedAt: j.UpdatedAt})
	}
	return jobs, true
}

func (c *CatalogCache) StoreJobs(ctx context.Context, keyword string, jobs []domain.Job) {
	cached := make([]cachedJob, 0, len(jobs))
	for _, j := range jobs {
		cached = append(cached, cachedJob{ID: j.ID, Name: j.Name, CreatedAt: j.CreatedAt, UpdatedAt: j.UpdatedAt})
	}
	c.store(ctx, jobsKey, cached, url.QueryEscape(keyword))
}

func (c *CatalogCache) Questions(ctx context.Context, jobID, category string) ([]domain.Question, bool) {
	var cached []cachedQuestion
	if !c.load(ctx, questionsKey, &cached, jobID, category) {
		return nil, false
	}
	questions := make([]domain.Question, 0, len(cached))
	for _, q := range cached {
		questions = append(questions, domain.Question{
			ID:        q.ID,
			JobID:     q.JobID,
			Category:  q.Category,
			Content:   q.Content,
			UpdatedAt: q.UpdatedAt,
		})
	}
	return questions, true
}

func (c *CatalogCache) StoreQuestions(ctx context.Context, jobID, category string, questions []domain.Question) {
	cached := make([]cachedQuestion, 0, len(questions))
	for _, q := range questions {
		cached = append(cached, cachedQuestion{
			ID:        q.ID,
			JobID:     q.JobID,
			Category:  q.Category,
			Content:   q.Content,
			UpdatedAt: q.UpdatedAt,
		})
	}
	c.store(ctx, questionsKey, cached, jobID, category)
}

// Invalidate は世代番号を進め、以前のキーを参照されなくする。
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("キャッシュ世代の更新に失敗", zap.Error(err))
	}
}

func (c *CatalogCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *CatalogCache) load(ctx context.Context, keyFn func(int64, ...string) string, dst any, parts ...string) bool {
	if c.client == nil {
		return false
	}
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("キャッシュ世代の取得に失敗", zap.Error(err))
		return false
	}
	raw, err := c.client.Get(ctx, keyFn(gen, parts...)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("キャッシュの読み込みに失敗", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("キャッシュのデコードに失敗", zap.Error(err))
		return false
	}
	return true
}

func (c *CatalogCache) store(ctx context.Context, keyFn func(int64, ...string) string, value any, parts ...string) {
	if c.client == nil {
		return
	}
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("キャッシュ世代の取得に失敗", zap.Error(err))
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("キャッシュのエンコードに失敗", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyFn(gen, parts...), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("キャッシュの書き込みに失敗", zap.Error(err))
	}
}

func jobsKey(gen int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:jobs:%s", keyPrefix, gen, strings.Join(parts, ":"))
}

func questionsKey(gen int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:questions:%s", keyPrefix, gen, strings.Join(parts, ":"))
}
