// Package repository provides data access layer factories
// #IMPLEMENTATION_DECISION: Factory functions wrap raw MongoDB constructors for our database.Client
package repository

import (
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/database"
)

// NewUserRepository creates a new user repository using our database client
func NewUserRepository(client *database.Client) UserRepository {
	return NewMongoUserRepository(client.Database())
}

// NewSurveyRepository creates a new survey repository using our database client
func NewSurveyRepository(client *database.Client) SurveyRepository {
	return NewMongoSurveyRepository(client.Database())
}

// NewTaskRepository creates a new task repository using our database client
func NewTaskRepository(client *database.Client) TaskRepository {
	return NewMongoTaskRepository(client.Database())
}

// NewFeedbackRepository creates a new feedback repository using our database client
func NewFeedbackRepository(client *database.Client) FeedbackRepository {
	return NewMongoFeedbackRepository(client.Database())
}

// NewCommentRepository creates a new comment repository using our database client
func NewCommentRepository(client *database.Client) CommentRepository {
	return NewMongoCommentRepository(client.Database())
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(client *database.Client) AuditRepository {
	return NewMongoAuditRepository(client.Database())
}
