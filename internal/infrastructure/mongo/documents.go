package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobDocument は MongoDB 上での職務スキーマ。
type JobDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// QuestionDocument は質問スキーマ。dedupKey は jobId|categoryCode|正規化本文。
type QuestionDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	JobID        primitive.ObjectID `bson:"jobId"`
	CategoryCode string             `bson:"categoryCode"`
	Content      string             `bson:"content"`
	Active       bool               `bson:"active"`
	DedupKey     string             `bson:"dedupKey"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// FailedNotificationDocument records a notification that no channel accepted.
type FailedNotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Target      string             `bson:"target"`
	Payload     map[string]string  `bson:"payload"`
	Error       string             `bson:"error"`
	Attempts    int                `bson:"attempts"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastTriedAt time.Time          `bson:"lastTriedAt"`
}
