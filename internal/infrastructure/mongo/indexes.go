package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections はコレクション名の組。
type Collections struct {
	Jobs                string
	Questions           string
	FailedNotifications string
}

// EnsureIndexes は検索に必要なインデックスを作成する。
// 職務名・重複判定キーは一意制約にしない（インポートの検索→作成は非トランザクションのため）。
func EnsureIndexes(ctx context.Context, db *mongo.Database, cols Collections) error {
	if _, err := db.Collection(cols.Jobs).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("idx_job_name"),
	}); err != nil {
		return fmt.Errorf("jobs index: %w", err)
	}

	questionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dedupKey", Value: 1}},
			Options: options.Index().SetName("idx_question_dedupKey"),
		},
		{
			Keys: bson.D{
				{Key: "jobId", Value: 1},
				{Key: "categoryCode", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_question_job_category_created"),
		},
	}
	if _, err := db.Collection(cols.Questions).Indexes().CreateMany(ctx, questionIndexes); err != nil {
		return fmt.Errorf("questions index: %w", err)
	}

	if cols.FailedNotifications != "" {
		if _, err := db.Collection(cols.FailedNotifications).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_failed_status_created"),
		}); err != nil {
			return fmt.Errorf("failed notifications index: %w", err)
		}
	}
	return nil
}

// DropCollections はコレクションを削除する。存在しないコレクションはエラーにしない。
func DropCollections(ctx context.Context, db *mongo.Database, cols Collections) error {
	var errs []error
	for _, name := range []string{cols.Jobs, cols.Questions, cols.FailedNotifications} {
		if name == "" {
			continue
		}
		if err := db.Collection(name).Drop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drop %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
