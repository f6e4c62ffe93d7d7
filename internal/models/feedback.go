package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackLevel indicates the granularity a feedback entry applies to
type FeedbackLevel string

const (
	FeedbackLevelQuestion FeedbackLevel = "QUESTION"
	FeedbackLevelCategory FeedbackLevel = "CATEGORY"
	FeedbackLevelOverall  FeedbackLevel = "OVERALL"
)

// MarshalJSON converts FeedbackLevel to lowercase for JSON serialization
func (fl FeedbackLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(fl)))
}

// UnmarshalJSON converts lowercase JSON to FeedbackLevel
func (fl *FeedbackLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*fl = FeedbackLevel(strings.ToUpper(s))
	return nil
}

// IsValid checks if the FeedbackLevel is a valid value
func (fl FeedbackLevel) IsValid() bool {
	switch fl {
	case FeedbackLevelQuestion, FeedbackLevelCategory, FeedbackLevelOverall:
		return true
	}
	return false
}

// Feedback stores generated advisory text for a survey. Generation is
// best-effort: a survey commits with or without feedback, and a static
// fallback text is stored when the producer is unreachable.
type Feedback struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	Level    FeedbackLevel      `bson:"level" json:"level"`

	// CategoryID / QuestionID are set only for the matching Level.
	CategoryID *int `bson:"category_id,omitempty" json:"category_id,omitempty"`
	QuestionID *int `bson:"question_id,omitempty" json:"question_id,omitempty"`

	Text       string `bson:"text" json:"text"`
	Model      string `bson:"model,omitempty" json:"model,omitempty"`
	PromptHash string `bson:"prompt_hash,omitempty" json:"prompt_hash,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for feedback entries
func (Feedback) CollectionName() string {
	return "ai_feedback"
}

// BeforeCreate sets default values before inserting a new feedback entry
func (f *Feedback) BeforeCreate() {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = time.Now().UTC()
}
