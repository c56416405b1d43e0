package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sngm3741/interview-assist/api/internal/public/application"
	"github.com/sngm3741/interview-assist/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogJobRepository implements application.JobRepository using MongoDB.
type CatalogJobRepository struct {
	collection *mongo.Collection
}

// NewCatalogJobRepository creates a Mongo-backed job reader for the viewer.
func NewCatalogJobRepository(db *mongo.Database, collectionName string) *CatalogJobRepository {
	return &CatalogJobRepository{collection: db.Collection(collectionName)}
}

// List returns jobs sorted by name, optionally filtered by a case-insensitive keyword.
func (r *CatalogJobRepository) List(ctx context.Context, filter application.JobFilter) ([]domain.Job, error) {
	mongoFilter := bson.M{}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		mongoFilter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	jobs := make([]domain.Job, 0)
	for cursor.Next(ctx) {
		var doc JobDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		jobs = append(jobs, mapJobDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindByID returns a single job by its identifier.
func (r *CatalogJobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
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
	job := mapJobDocument(doc)
	return &job, nil
}

// CatalogQuestionRepository は閲覧画面向けに有効な質問だけを返す。
type CatalogQuestionRepository struct {
	collection *mongo.Collection
}

func NewCatalogQuestionRepository(db *mongo.Database, collectionName string) *CatalogQuestionRepository {
	return &CatalogQuestionRepository{collection: db.Collection(collectionName)}
}

// ListActive は jobId・categoryCode で絞り込んだ有効な質問を新しい順に返す。
func (r *CatalogQuestionRepository) ListActive(ctx context.Context, jobID, category string) ([]domain.Question, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(jobID))
	if err != nil {
		return []domain.Question{}, nil
	}
	filter := bson.M{
		"jobId":        objectID,
		"categoryCode": category,
		"active":       true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := make([]domain.Question, 0)
	for cursor.Next(ctx) {
		var doc QuestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		questions = append(questions, mapQuestionDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func mapJobDocument(doc JobDocument) domain.Job {
	return domain.Job{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func mapQuestionDocument(doc QuestionDocument) domain.Question {
	return domain.Question{
		ID:        doc.ID.Hex(),
		JobID:     doc.JobID.Hex(),
		Category:  doc.CategoryCode,
		Content:   doc.Content,
		UpdatedAt: doc.UpdatedAt,
	}
}
