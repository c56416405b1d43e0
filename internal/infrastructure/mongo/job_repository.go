package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sngm3741/interview-assist/api/internal/admin/application"
	admindomain "github.com/sngm3741/interview-assist/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JobRepository は管理者向け職務集約の Mongo 実装。
// 削除時は questions コレクションの該当質問もまとめて消す。
type JobRepository struct {
	collection    *mongo.Collection
	questions     *mongo.Collection
	transactional bool
}

// NewJobRepository は jobs / questions コレクションを束縛した JobRepository を生成する。
// transactional=true のとき、カスケード削除を 1 つのトランザクションで行う。
func NewJobRepository(db *mongo.Database, jobCollection, questionCollection string, transactional bool) *JobRepository {
	return &JobRepository{
		collection:    db.Collection(jobCollection),
		questions:     db.Collection(questionCollection),
		transactional: transactional,
	}
}

// List は職務を名前順で返す。
func (r *JobRepository) List(ctx context.Context) ([]admindomain.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	jobs := make([]admindomain.Job, 0)
	for cursor.Next(ctx) {
		var doc JobDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		jobs = append(jobs, mapAdminJob(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindByID は 16 進 ObjectID で職務を取得する。形式不正・該当なしは ErrJobNotFound。
func (r *JobRepository) FindByID(ctx context.Context, id string) (*admindomain.Job, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrJobNotFound
	}
	var doc JobDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrJobNotFound
		}
		return nil, err
	}
	job := mapAdminJob(doc)
	return &job, nil
}

// FindByName は完全一致（大文字小文字を区別）で職務を探す。該当なしは nil, nil。
func (r *JobRepository) FindByName(ctx context.Context, name admindomain.JobName) (*admindomain.Job, error) {
	var doc JobDocument
	if err := r.collection.FindOne(ctx, bson.M{"name": name.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	job := mapAdminJob(doc)
	return &job, nil
}

// Create inserts the job and writes the generated ID back into it.
func (r *JobRepository) Create(ctx context.Context, job *admindomain.Job) error {
	doc := buildJobDocument(primitive.NewObjectID(), job)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	job.ID = doc.ID.Hex()
	return nil
}

// Exists は職務が 1 件以上あるかを返す。
func (r *JobRepository) Exists(ctx context.Context) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *JobRepository) Rename(ctx context.Context, id string, name admindomain.JobName, updatedAt time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrJobNotFound
	}
	res, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{
		"name":      name.String(),
		"updatedAt": updatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return application.ErrJobNotFound
	}
	return nil
}

// DeleteCascade は質問を先に消してから職務を消す。
// トランザクション有効時は両方がまとめて反映され、職務が見つからなければ質問の削除も取り消される。
// 無効時は途中で失敗すると職務だけが残り質問が欠けた状態になりうる。
func (r *JobRepository) DeleteCascade(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrJobNotFound
	}
	return withTransaction(ctx, r.collection.Database().Client(), r.transactional, func(ctx context.Context) error {
		if _, err := r.questions.DeleteMany(ctx, bson.M{"jobId": objectID}); err != nil {
			return err
		}
		res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return application.ErrJobNotFound
		}
		return nil
	})
}

func mapAdminJob(doc JobDocument) admindomain.Job {
	return admindomain.Job{
		ID:        doc.ID.Hex(),
		Name:      admindomain.JobName(doc.Name),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func buildJobDocument(id primitive.ObjectID, job *admindomain.Job) JobDocument {
	return JobDocument{
		ID:        id,
		Name:      job.Name.String(),
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}
