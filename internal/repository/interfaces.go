// Package repository defines interfaces for data access and their MongoDB implementations
// #ORM_PATTERN: Repository pattern with interfaces for testability and abstraction
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// PaginationOptions contains pagination parameters
type PaginationOptions struct {
	Page    int
	Limit   int
	SortBy  string
	SortDir int // 1 for ascending, -1 for descending
}

// DefaultPaginationOptions returns default pagination settings
// #DATA_ASSUMPTION: Pagination defaults to 20 items per page
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{
		Page:    1,
		Limit:   20,
		SortBy:  "created_at",
		SortDir: -1,
	}
}

// PaginatedResult contains paginated query results
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// UserRepository defines operations for users
// #QUERY_INTERFACE: User data access patterns
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID finds a user by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// GetByEmployeeID finds a user by employee ID
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)

	// Update updates a user
	Update(ctx context.Context, user *models.User) error

	// SoftDelete soft deletes a user
	SoftDelete(ctx context.Context, id primitive.ObjectID) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error

	// List lists users matching an extra filter with pagination
	List(ctx context.Context, filter bson.M, includeInactive bool, opts PaginationOptions) (*PaginatedResult[models.User], error)

	// CountActiveAdmins counts active admin accounts
	CountActiveAdmins(ctx context.Context) (int64, error)
}

// SurveyRepository defines operations for surveys and their child documents
// #QUERY_INTERFACE: Survey, response and category score access patterns
type SurveyRepository interface {
	// Create creates a new survey
	Create(ctx context.Context, survey *models.Survey) error

	// Update updates a survey
	Update(ctx context.Context, survey *models.Survey) error

	// GetByID finds a survey by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)

	// GetByUserPeriodLevel finds the unique survey for a user, period and level
	GetByUserPeriodLevel(ctx context.Context, userID primitive.ObjectID, period string, level models.UserRole) (*models.Survey, error)

	// ListScoped lists surveys visible under a scope filter, optionally
	// narrowed to a period and/or level
	ListScoped(ctx context.Context, scopeFilter bson.M, period string, level *models.UserRole, opts PaginationOptions) (*PaginatedResult[models.Survey], error)

	// DistinctPeriods returns the distinct periods of surveys matching a
	// scope filter, most recent first
	DistinctPeriods(ctx context.Context, scopeFilter bson.M) ([]string, error)

	// InsertResponses inserts the full response set for a survey
	InsertResponses(ctx context.Context, responses []models.Response) error

	// DeleteResponses removes all responses for a survey
	DeleteResponses(ctx context.Context, surveyID primitive.ObjectID) error

	// ListResponses lists a survey's responses ordered by question ID
	ListResponses(ctx context.Context, surveyID primitive.ObjectID) ([]models.Response, error)

	// InsertCategoryScores inserts the category scores for a survey
	InsertCategoryScores(ctx context.Context, scores []models.CategoryScore) error

	// DeleteCategoryScores removes all category scores for a survey
	DeleteCategoryScores(ctx context.Context, surveyID primitive.ObjectID) error

	// ListCategoryScores lists a survey's category scores ordered by category ID
	ListCategoryScores(ctx context.Context, surveyID primitive.ObjectID) ([]models.CategoryScore, error)
}

// TaskRepository defines operations for improvement tasks
// #QUERY_INTERFACE: Task data access patterns
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// GetByID finds a task by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// UpdateStatus updates only a task's status
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) error

	// Delete deletes a task
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListBySurvey lists tasks for a survey, oldest first
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Task, error)
}

// FeedbackRepository defines operations for AI feedback entries
// #QUERY_INTERFACE: Feedback data access patterns
type FeedbackRepository interface {
	// Create creates a new feedback entry
	Create(ctx context.Context, feedback *models.Feedback) error

	// ReplaceForSurvey drops previous feedback for a survey and inserts the
	// new set. Resubmissions invalidate previous feedback.
	ReplaceForSurvey(ctx context.Context, surveyID primitive.ObjectID, entries []models.Feedback) error

	// ListBySurvey lists feedback entries for a survey
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Feedback, error)
}

// CommentRepository defines operations for survey comments
// #QUERY_INTERFACE: Comment data access patterns
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *models.SurveyComment) error

	// GetByID finds a comment by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SurveyComment, error)

	// Delete deletes a comment
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListBySurvey lists comments for a survey, oldest first
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.SurveyComment, error)
}
