package repository

import (
	"context"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFeedbackRepository implements FeedbackRepository for MongoDB
type MongoFeedbackRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedbackRepository creates a new MongoDB feedback repository
func NewMongoFeedbackRepository(db *mongo.Database) *MongoFeedbackRepository {
	return &MongoFeedbackRepository{
		collection: db.Collection(models.Feedback{}.CollectionName()),
	}
}

// Create creates a new feedback entry
func (r *MongoFeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, feedback)
	return err
}

// ReplaceForSurvey drops previous feedback for a survey and inserts the new
// set. A resubmission changes the scores the feedback was generated from, so
// stale entries must never survive it.
func (r *MongoFeedbackRepository) ReplaceForSurvey(ctx context.Context, surveyID primitive.ObjectID, entries []models.Feedback) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"survey_id": surveyID}); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i := range entries {
		entries[i].BeforeCreate()
		docs[i] = entries[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// ListBySurvey lists feedback entries for a survey
func (r *MongoFeedbackRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Feedback, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"survey_id": surveyID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.Feedback
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure MongoFeedbackRepository implements FeedbackRepository
var _ FeedbackRepository = (*MongoFeedbackRepository)(nil)
