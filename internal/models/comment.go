package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyComment is a remark left on a submitted survey, either by its owner
// or by a reviewer with hierarchy access to it
type SurveyComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID  primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for survey comments
func (SurveyComment) CollectionName() string {
	return "survey_comments"
}

// BeforeCreate sets default values before inserting a new comment
func (c *SurveyComment) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = time.Now().UTC()
}
