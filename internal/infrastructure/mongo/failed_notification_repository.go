package mongo

import (
	"context"

	"github.com/sngm3741/interview-assist/api/internal/notify"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FailedNotificationRepository は送信できなかった通知を failed_notifications に保存する。
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

func NewFailedNotificationRepository(db *mongo.Database, collection string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(collection)}
}

// SaveFailure は status=pending で記録する。再送は別プロセスの責務。
func (r *FailedNotificationRepository) SaveFailure(ctx context.Context, failure notify.Failure) error {
	_, err := r.collection.InsertOne(ctx, buildFailedNotificationDocument(primitive.NewObjectID(), failure))
	return err
}

func buildFailedNotificationDocument(id primitive.ObjectID, failure notify.Failure) FailedNotificationDocument {
	return FailedNotificationDocument{
		ID:          id,
		Target:      failure.Target,
		Payload:     failure.Payload,
		Error:       failure.Error,
		Attempts:    failure.Attempts,
		Status:      "pending",
		CreatedAt:   failure.At,
		LastTriedAt: failure.At,
	}
}
