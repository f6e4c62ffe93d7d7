package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/access"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
)

// TaskService manages action items raised against surveys. All operations
// require hierarchy visibility of the parent survey.
type TaskService interface {
	Create(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID, description string) (*models.Task, error)
	UpdateStatus(ctx context.Context, scope access.Scope, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error)
	Delete(ctx context.Context, scope access.Scope, taskID primitive.ObjectID) error
	ListBySurvey(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID) ([]models.Task, error)
}

type taskService struct {
	taskRepo   repository.TaskRepository
	surveyRepo repository.SurveyRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, surveyRepo repository.SurveyRepository) TaskService {
	return &taskService{
		taskRepo:   taskRepo,
		surveyRepo: surveyRepo,
	}
}

// Create raises a new action item on a survey the viewer can see. New tasks
// start in the planned state.
func (s *taskService) Create(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID, description string) (*models.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", models.ErrInvalidInput)
	}
	if _, err := s.visibleSurvey(ctx, scope, surveyID); err != nil {
		return nil, err
	}

	task := &models.Task{
		SurveyID:    surveyID,
		Description: description,
		Status:      models.TaskStatusPlanned,
		CreatedBy:   scope.ViewerID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateStatus transitions a task to a new lifecycle state. Any of the three
// states may follow any other; the original workflow lets supervisors move
// items back to planned after review.
func (s *taskService) UpdateStatus(ctx context.Context, scope access.Scope, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, models.ErrInvalidTaskStatus
	}
	task, err := s.visibleTask(ctx, scope, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, err
	}
	task.Status = status
	task.BeforeUpdate()
	return task, nil
}

// Delete removes a task from a survey the viewer can see.
func (s *taskService) Delete(ctx context.Context, scope access.Scope, taskID primitive.ObjectID) error {
	if _, err := s.visibleTask(ctx, scope, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}

// ListBySurvey returns a survey's tasks in creation order.
func (s *taskService) ListBySurvey(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID) ([]models.Task, error) {
	if _, err := s.visibleSurvey(ctx, scope, surveyID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListBySurvey(ctx, surveyID)
}

// visibleSurvey loads a survey and checks the viewer's hierarchy access.
// Out-of-scope surveys are reported as missing.
func (s *taskService) visibleSurvey(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(survey) {
		return nil, models.ErrSurveyNotFound
	}
	return survey, nil
}

// visibleTask loads a task and checks access through its parent survey.
func (s *taskService) visibleTask(ctx context.Context, scope access.Scope, taskID primitive.ObjectID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.visibleSurvey(ctx, scope, task.SurveyID); err != nil {
		return nil, models.ErrTaskNotFound
	}
	return task, nil
}
