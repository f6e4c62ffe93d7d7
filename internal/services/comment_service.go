package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/access"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
)

// CommentWithAuthor pairs a comment with its author's display fields. The
// author may have been deleted since commenting; the fields are then empty.
type CommentWithAuthor struct {
	models.SurveyComment
	AuthorName       string `json:"author_name,omitempty"`
	AuthorEmployeeID string `json:"author_employee_id,omitempty"`
}

// CommentService manages remarks left on surveys by owners and reviewers.
type CommentService interface {
	Create(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID, text string) (*models.SurveyComment, error)
	ListBySurvey(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID) ([]CommentWithAuthor, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	surveyRepo  repository.SurveyRepository
	userRepo    repository.UserRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, surveyRepo repository.SurveyRepository, userRepo repository.UserRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		surveyRepo:  surveyRepo,
		userRepo:    userRepo,
	}
}

// Create adds a comment to a survey the viewer can see.
func (s *commentService) Create(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID, text string) (*models.SurveyComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.ErrEmptyComment
	}
	if err := s.checkVisible(ctx, scope, surveyID); err != nil {
		return nil, err
	}

	comment := &models.SurveyComment{
		SurveyID: surveyID,
		UserID:   scope.ViewerID,
		Comment:  text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListBySurvey returns a survey's comments in creation order with author
// names resolved.
func (s *commentService) ListBySurvey(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID) ([]CommentWithAuthor, error) {
	if err := s.checkVisible(ctx, scope, surveyID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	// Authors repeat across a thread, so resolve each one once.
	authors := make(map[primitive.ObjectID]*models.User)
	out := make([]CommentWithAuthor, 0, len(comments))
	for _, comment := range comments {
		author, ok := authors[comment.UserID]
		if !ok {
			author, _ = s.userRepo.GetByID(ctx, comment.UserID)
			authors[comment.UserID] = author
		}
		entry := CommentWithAuthor{SurveyComment: comment}
		if author != nil {
			entry.AuthorName = author.Name
			entry.AuthorEmployeeID = author.EmployeeID
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *commentService) checkVisible(ctx context.Context, scope access.Scope, surveyID primitive.ObjectID) error {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return err
	}
	if !scope.Allows(survey) {
		return models.ErrSurveyNotFound
	}
	return nil
}
