package mongo

import (
	"context"
	"errors"
	"strings"

	"github.com/sngm3741/interview-assist/api/internal/admin/application"
	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepository は管理者向け質問の Mongo 実装。インポート用のバッチ書き込みも提供する。
type QuestionRepository struct {
	collection    *mongo.Collection
	transactional bool
}

// NewQuestionRepository binds the questions collection.
// transactional=true のとき、バッチのコミットをセッショントランザクション内で実行する（レプリカセットが必要）。
func NewQuestionRepository(db *mongo.Database, collection string, transactional bool) *QuestionRepository {
	return &QuestionRepository{collection: db.Collection(collection), transactional: transactional}
}

// Find returns questions matching the filter, newest first.
func (r *QuestionRepository) Find(ctx context.Context, filter application.QuestionFilter) ([]admindomain.Question, error) {
	mongoFilter := bson.M{}
	if filter.JobID != "" {
		objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(filter.JobID))
		if err != nil {
			return []admindomain.Question{}, nil
		}
		mongoFilter["jobId"] = objectID
	}
	if filter.Category != "" {
		mongoFilter["categoryCode"] = filter.Category.String()
	}
	if filter.OnlyActive {
		mongoFilter["active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := make([]admindomain.Question, 0)
	for cursor.Next(ctx) {
		var doc QuestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		questions = append(questions, mapAdminQuestion(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*admindomain.Question, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrQuestionNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objectID}, application.ErrQuestionNotFound)
}

// FindByDedupKey は重複判定キーで 1 件探す。該当なしは nil, nil。
func (r *QuestionRepository) FindByDedupKey(ctx context.Context, key string) (*admindomain.Question, error) {
	return r.findOne(ctx, bson.M{"dedupKey": key}, nil)
}

func (r *QuestionRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*admindomain.Question, error) {
	var doc QuestionDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}
	question := mapAdminQuestion(doc)
	return &question, nil
}

// Create inserts a single question and assigns its ID.
func (r *QuestionRepository) Create(ctx context.Context, question *admindomain.Question) error {
	doc, err := buildQuestionDocument(primitive.NewObjectID(), question)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	question.ID = doc.ID.Hex()
	return nil
}

// Update は本文・有効フラグ・重複判定キー・更新日時を差し替える。
func (r *QuestionRepository) Update(ctx context.Context, question *admindomain.Question) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(question.ID))
	if err != nil {
		return application.ErrQuestionNotFound
	}
	res, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{
		"content":   question.Content.String(),
		"active":    question.Active,
		"dedupKey":  question.DedupKey,
		"updatedAt": question.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return application.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrQuestionNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return application.ErrQuestionNotFound
	}
	return nil
}

// NewBatch はインポート用の書き込みバッチを返す。
func (r *QuestionRepository) NewBatch() application.QuestionBatch {
	return newQuestionBatch(r.collection, r.transactional)
}

func mapAdminQuestion(doc QuestionDocument) admindomain.Question {
	return admindomain.Question{
		ID:        doc.ID.Hex(),
		JobID:     doc.JobID.Hex(),
		Category:  admindomain.Category(doc.CategoryCode),
		Content:   admindomain.Content(doc.Content),
		Active:    doc.Active,
		DedupKey:  doc.DedupKey,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func buildQuestionDocument(id primitive.ObjectID, question *admindomain.Question) (QuestionDocument, error) {
	jobID, err := primitive.ObjectIDFromHex(strings.TrimSpace(question.JobID))
	if err != nil {
		return QuestionDocument{}, application.ErrJobNotFound
	}
	return QuestionDocument{
		ID:           id,
		JobID:        jobID,
		CategoryCode: question.Category.String(),
		Content:      question.Content.String(),
		Active:       question.Active,
		DedupKey:     question.DedupKey,
		CreatedAt:    question.CreatedAt,
		UpdatedAt:    question.UpdatedAt,
	}, nil
}
