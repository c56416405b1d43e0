package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sngm3741/interview-assist/api/internal/admin/application"
	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errBatchCollection = errors.New("question batch has no collection")

// questionBatch は WriteModel をためて Commit 時に順序付き BulkWrite で反映する。
type questionBatch struct {
	collection    *mongo.Collection
	transactional bool
	models        []mongo.WriteModel
	// err は積み込み時に見つかった不正な ID。Commit で返す。
	err error
}

func newQuestionBatch(collection *mongo.Collection, transactional bool) *questionBatch {
	return &questionBatch{collection: collection, transactional: transactional}
}

// Insert は ID を採番してから挿入操作を積む。採番した ID は question に書き戻す。
func (b *questionBatch) Insert(question *admindomain.Question) {
	doc, err := buildQuestionDocument(primitive.NewObjectID(), question)
	if err != nil {
		b.record(fmt.Errorf("insert job %q: %w", question.JobID, err))
	}
	question.ID = doc.ID.Hex()
	b.models = append(b.models, mongo.NewInsertOneModel().SetDocument(doc))
}

func (b *questionBatch) UpdateFields(id string, fields application.QuestionFields) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		b.record(fmt.Errorf("update question %q: %w", id, application.ErrQuestionNotFound))
	}
	b.models = append(b.models, mongo.NewUpdateOneModel().
		SetFilter(bson.M{"_id": objectID}).
		SetUpdate(bson.M{"$set": bson.M{
			"active":    fields.Active,
			"updatedAt": fields.UpdatedAt,
		}}))
}

func (b *questionBatch) Len() int {
	return len(b.models)
}

// Commit は積んだ操作を一括で書き込む。0 件なら何もしない。
func (b *questionBatch) Commit(ctx context.Context) error {
	if len(b.models) == 0 {
		return nil
	}
	if b.err != nil {
		return b.err
	}
	if b.collection == nil {
		return errBatchCollection
	}

	opts := options.BulkWrite().SetOrdered(true)
	err := withTransaction(ctx, b.collection.Database().Client(), b.transactional, func(ctx context.Context) error {
		_, err := b.collection.BulkWrite(ctx, b.models, opts)
		return err
	})
	if err != nil {
		return err
	}
	b.models = nil
	return nil
}

func (b *questionBatch) record(err error) {
	if b.err == nil {
		b.err = err
	}
}
