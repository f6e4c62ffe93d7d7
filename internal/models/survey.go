package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Survey represents one submitted assessment: a single user's answers for a
// single period at a single hierarchy level
// #BUSINESS_RULE: At most one survey exists per (user, period, level); a
// resubmission replaces the previous one rather than creating a sibling
type Survey struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	RoleLevel UserRole           `bson:"role_level" json:"role_level"`
	Period    string             `bson:"period" json:"period"`
	OrgUnit   OrgUnit            `bson:"org_unit" json:"org_unit"`

	// OverallScore is the weighted mean over all answered questions across
	// every category, not a mean of category means.
	OverallScore float64 `bson:"overall_score" json:"overall_score"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for surveys
func (Survey) CollectionName() string {
	return "surveys"
}

// BeforeCreate sets default values before inserting a new survey
func (s *Survey) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (s *Survey) BeforeUpdate() {
	s.UpdatedAt = time.Now().UTC()
}

// ValidPeriod reports whether period is a calendar month in YYYY-MM form.
func ValidPeriod(period string) bool {
	if len(period) != 7 {
		return false
	}
	_, err := time.Parse("2006-01", period)
	return err == nil
}

// Response records the answer to one framework question within a survey.
// QuestionID is the question's 1-based position in the flattened framework
// for the survey's level; positions are stable across releases because
// dashboards and exports reference them.
// #DATA_ASSUMPTION: (survey_id, question_id) is unique
type Response struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID   primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	QuestionID int                `bson:"question_id" json:"question_id"`

	// RawValue is nil when the question was left unanswered; Score mirrors
	// that so unanswered questions never dilute aggregates.
	RawValue *float64 `bson:"raw_value,omitempty" json:"raw_value,omitempty"`
	Score    *float64 `bson:"score,omitempty" json:"score,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for responses
func (Response) CollectionName() string {
	return "responses"
}

// BeforeCreate sets default values before inserting a new response
func (r *Response) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = time.Now().UTC()
}

// IsAnswered returns true if the question was answered
func (r *Response) IsAnswered() bool {
	return r.RawValue != nil
}

// CategoryScore stores the weighted category aggregate for a survey.
// CategoryID is the category's 0-based position in the framework for the
// survey's level.
type CategoryScore struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID   primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	CategoryID int                `bson:"category_id" json:"category_id"`
	Score      float64            `bson:"score" json:"score"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for category scores
func (CategoryScore) CollectionName() string {
	return "category_scores"
}

// BeforeCreate sets default values before inserting a new category score
func (cs *CategoryScore) BeforeCreate() {
	if cs.ID.IsZero() {
		cs.ID = primitive.NewObjectID()
	}
	cs.CreatedAt = time.Now().UTC()
}
