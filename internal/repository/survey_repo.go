package repository

import (
	"context"
	"sort"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSurveyRepository implements SurveyRepository for MongoDB.
// It spans three collections: surveys, responses and category_scores. A
// survey and its children are always written together inside a transaction
// driven by the service layer, so the individual methods stay simple.
type MongoSurveyRepository struct {
	surveys        *mongo.Collection
	responses      *mongo.Collection
	categoryScores *mongo.Collection
}

// NewMongoSurveyRepository creates a new MongoDB survey repository
func NewMongoSurveyRepository(db *mongo.Database) *MongoSurveyRepository {
	return &MongoSurveyRepository{
		surveys:        db.Collection(models.Survey{}.CollectionName()),
		responses:      db.Collection(models.Response{}.CollectionName()),
		categoryScores: db.Collection(models.CategoryScore{}.CollectionName()),
	}
}

// Create creates a new survey
func (r *MongoSurveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	survey.BeforeCreate()
	_, err := r.surveys.InsertOne(ctx, survey)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrAlreadyExists
	}
	return err
}

// Update updates a survey
func (r *MongoSurveyRepository) Update(ctx context.Context, survey *models.Survey) error {
	survey.BeforeUpdate()
	filter := bson.M{"_id": survey.ID}
	result, err := r.surveys.UpdateOne(ctx, filter, bson.M{"$set": survey})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrSurveyNotFound
	}
	return nil
}

// GetByID finds a survey by ID
func (r *MongoSurveyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	var survey models.Survey
	err := r.surveys.FindOne(ctx, bson.M{"_id": id}).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// GetByUserPeriodLevel finds the unique survey for a user, period and level
func (r *MongoSurveyRepository) GetByUserPeriodLevel(ctx context.Context, userID primitive.ObjectID, period string, level models.UserRole) (*models.Survey, error) {
	var survey models.Survey
	filter := bson.M{
		"user_id":    userID,
		"period":     period,
		"role_level": level,
	}
	err := r.surveys.FindOne(ctx, filter).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// ListScoped lists surveys visible under a scope filter, optionally narrowed
// to a period and/or level. The scope filter comes from access.Scope and is
// combined with the narrowing fields as an implicit AND.
func (r *MongoSurveyRepository) ListScoped(ctx context.Context, scopeFilter bson.M, period string, level *models.UserRole, opts PaginationOptions) (*PaginatedResult[models.Survey], error) {
	filter := bson.M{}
	for k, v := range scopeFilter {
		filter[k] = v
	}
	if period != "" {
		filter["period"] = period
	}
	if level != nil {
		filter["role_level"] = *level
	}

	total, err := r.surveys.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	skip := int64((opts.Page - 1) * opts.Limit)
	findOpts := options.Find().
		SetSkip(skip).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.D{{Key: opts.SortBy, Value: opts.SortDir}})

	cursor, err := r.surveys.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var surveys []models.Survey
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}

	totalPages := int(total) / opts.Limit
	if int(total)%opts.Limit > 0 {
		totalPages++
	}

	return &PaginatedResult[models.Survey]{
		Items:      surveys,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}, nil
}

// DistinctPeriods returns the distinct periods of surveys matching a scope
// filter, most recent first
func (r *MongoSurveyRepository) DistinctPeriods(ctx context.Context, scopeFilter bson.M) ([]string, error) {
	values, err := r.surveys.Distinct(ctx, "period", scopeFilter)
	if err != nil {
		return nil, err
	}

	periods := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			periods = append(periods, s)
		}
	}
	// YYYY-MM sorts lexically, so a reverse string sort is newest-first
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	return periods, nil
}

// InsertResponses inserts the full response set for a survey
func (r *MongoSurveyRepository) InsertResponses(ctx context.Context, responses []models.Response) error {
	if len(responses) == 0 {
		return nil
	}
	docs := make([]interface{}, len(responses))
	for i := range responses {
		responses[i].BeforeCreate()
		docs[i] = responses[i]
	}
	_, err := r.responses.InsertMany(ctx, docs)
	return err
}

// DeleteResponses removes all responses for a survey
func (r *MongoSurveyRepository) DeleteResponses(ctx context.Context, surveyID primitive.ObjectID) error {
	_, err := r.responses.DeleteMany(ctx, bson.M{"survey_id": surveyID})
	return err
}

// ListResponses lists a survey's responses ordered by question ID
func (r *MongoSurveyRepository) ListResponses(ctx context.Context, surveyID primitive.ObjectID) ([]models.Response, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "question_id", Value: 1}})
	cursor, err := r.responses.Find(ctx, bson.M{"survey_id": surveyID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []models.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// InsertCategoryScores inserts the category scores for a survey
func (r *MongoSurveyRepository) InsertCategoryScores(ctx context.Context, scores []models.CategoryScore) error {
	if len(scores) == 0 {
		return nil
	}
	docs := make([]interface{}, len(scores))
	for i := range scores {
		scores[i].BeforeCreate()
		docs[i] = scores[i]
	}
	_, err := r.categoryScores.InsertMany(ctx, docs)
	return err
}

// DeleteCategoryScores removes all category scores for a survey
func (r *MongoSurveyRepository) DeleteCategoryScores(ctx context.Context, surveyID primitive.ObjectID) error {
	_, err := r.categoryScores.DeleteMany(ctx, bson.M{"survey_id": surveyID})
	return err
}

// ListCategoryScores lists a survey's category scores ordered by category ID
func (r *MongoSurveyRepository) ListCategoryScores(ctx context.Context, surveyID primitive.ObjectID) ([]models.CategoryScore, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "category_id", Value: 1}})
	cursor, err := r.categoryScores.Find(ctx, bson.M{"survey_id": surveyID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []models.CategoryScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// Ensure MongoSurveyRepository implements SurveyRepository
var _ SurveyRepository = (*MongoSurveyRepository)(nil)
