package repository

import (
	"context"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoDB comment repository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{
		collection: db.Collection(models.SurveyComment{}.CollectionName()),
	}
}

// Create creates a new comment
func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.SurveyComment) error {
	comment.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetByID finds a comment by ID
func (r *MongoCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SurveyComment, error) {
	var comment models.SurveyComment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete deletes a comment
func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}

// ListBySurvey lists comments for a survey, oldest first
func (r *MongoCommentRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.SurveyComment, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"survey_id": surveyID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.SurveyComment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Ensure MongoCommentRepository implements CommentRepository
var _ CommentRepository = (*MongoCommentRepository)(nil)
