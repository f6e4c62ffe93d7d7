package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus represents the lifecycle state of an action item
type TaskStatus string

const (
	TaskStatusPlanned   TaskStatus = "PLANNED"
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// MarshalJSON converts TaskStatus to lowercase for JSON serialization
func (ts TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(ts)))
}

// UnmarshalJSON converts lowercase JSON to TaskStatus
func (ts *TaskStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ts = TaskStatus(strings.ToUpper(s))
	return nil
}

// IsValid checks if the TaskStatus is a valid value
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusPlanned, TaskStatusPending, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is an action item raised against a submitted survey
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID    primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	Description string             `bson:"description" json:"description"`
	Status      TaskStatus         `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for tasks
func (Task) CollectionName() string {
	return "tasks"
}

// BeforeCreate sets default values before inserting a new task
func (t *Task) BeforeCreate() {
	now := time.Now().UTC()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.Status == "" {
		t.Status = TaskStatusPlanned
	}
	t.CreatedAt = now
	t.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (t *Task) BeforeUpdate() {
	t.UpdatedAt = time.Now().UTC()
}
