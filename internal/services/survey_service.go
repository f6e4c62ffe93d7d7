// Package services provides business logic implementations.
package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/access"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/database"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/hierarchy"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/scoring"
)

// SurveyDetail bundles a survey with everything the dashboard renders for it
type SurveyDetail struct {
	Survey         *models.Survey         `json:"survey"`
	Responses      []models.Response      `json:"responses"`
	CategoryScores []models.CategoryScore `json:"category_scores"`
	Feedback       []models.Feedback      `json:"feedback"`
}

// SurveyService handles the assessment lifecycle: submission with scoring,
// scoped reads, and period discovery
// #INTEGRATION_POINT: Used by survey handler
type SurveyService interface {
	// Submit validates, scores and stores a survey submission. A second
	// submission for the same (user, period, level) replaces the first.
	Submit(ctx context.Context, submitter *models.User, period string, answers map[int]*float64) (*models.Survey, error)

	// GetDetail returns a survey with responses, category scores and feedback
	// if the scope allows it
	GetDetail(ctx context.Context, scope access.Scope, id primitive.ObjectID) (*SurveyDetail, error)

	// List returns surveys visible in the scope, optionally narrowed to a
	// period, a level and/or a single submitter
	List(ctx context.Context, scope access.Scope, period string, level *models.UserRole, userID *primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error)

	// Periods returns the distinct periods with surveys visible in the scope
	Periods(ctx context.Context, scope access.Scope) ([]string, error)
}

// surveyService implements SurveyService
type surveyService struct {
	db              *database.Client
	surveyRepo      repository.SurveyRepository
	feedbackService FeedbackService
	auditService    AuditService
	mappings        hierarchy.Mappings
}

// NewSurveyService creates a new survey service
func NewSurveyService(
	db *database.Client,
	surveyRepo repository.SurveyRepository,
	feedbackService FeedbackService,
	auditService AuditService,
	mappings hierarchy.Mappings,
) SurveyService {
	return &surveyService{
		db:              db,
		surveyRepo:      surveyRepo,
		feedbackService: feedbackService,
		auditService:    auditService,
		mappings:        mappings,
	}
}

// Submit validates, scores and stores a survey submission
// #BUSINESS_RULE: Users submit only at their own level; admins never submit
// #BUSINESS_RULE: Survey + responses + category scores commit in one
// transaction; feedback is generated after the commit and never rolls it back
func (s *surveyService) Submit(ctx context.Context, submitter *models.User, period string, answers map[int]*float64) (*models.Survey, error) {
	if submitter.IsAdmin() {
		return nil, models.ErrAdminCannotSubmit
	}
	if !submitter.CanSubmitAssessments() {
		return nil, models.ErrUserInactive
	}
	if !models.ValidPeriod(period) {
		return nil, models.ErrInvalidPeriod
	}

	unit, err := access.NormalizeOrgUnit(submitter.Role, submitter.OrgUnit)
	if err != nil {
		return nil, err
	}
	if s.mappings != nil && !s.mappings.ValidChain(unit) {
		return nil, models.ErrInvalidOrgUnit
	}

	// Score everything up front so the transaction only writes
	result, err := scoring.ComputeSurvey(submitter.Role, answers)
	if err != nil {
		return nil, err
	}

	survey := &models.Survey{
		UserID:       submitter.ID,
		RoleLevel:    submitter.Role,
		Period:       period,
		OrgUnit:      unit,
		OverallScore: result.Overall,
	}

	responses := make([]models.Response, 0, len(result.Answers))
	categoryScores := make([]models.CategoryScore, 0, len(result.CategoryScores))

	err = s.db.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.surveyRepo.GetByUserPeriodLevel(sessCtx, submitter.ID, period, submitter.Role)
		switch {
		case err == nil:
			// Resubmission: keep the document identity, replace children
			survey.ID = existing.ID
			survey.CreatedAt = existing.CreatedAt
			if err := s.surveyRepo.Update(sessCtx, survey); err != nil {
				return err
			}
			if err := s.surveyRepo.DeleteResponses(sessCtx, survey.ID); err != nil {
				return err
			}
			if err := s.surveyRepo.DeleteCategoryScores(sessCtx, survey.ID); err != nil {
				return err
			}
		case models.IsNotFoundError(err):
			if err := s.surveyRepo.Create(sessCtx, survey); err != nil {
				return err
			}
		default:
			return err
		}

		responses = responses[:0]
		for _, a := range result.Answers {
			responses = append(responses, models.Response{
				SurveyID:   survey.ID,
				QuestionID: a.QuestionID,
				RawValue:   a.RawValue,
				Score:      a.Score,
			})
		}
		if err := s.surveyRepo.InsertResponses(sessCtx, responses); err != nil {
			return err
		}

		categoryScores = categoryScores[:0]
		for ci, score := range result.CategoryScores {
			categoryScores = append(categoryScores, models.CategoryScore{
				SurveyID:   survey.ID,
				CategoryID: ci,
				Score:      score,
			})
		}
		return s.surveyRepo.InsertCategoryScores(sessCtx, categoryScores)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store survey: %w", err)
	}

	// Best-effort side effects after the commit
	if s.feedbackService != nil {
		if fbErr := s.feedbackService.GenerateForSurvey(ctx, survey, responses); fbErr != nil {
			log.Printf("feedback generation failed for survey %s: %v", survey.ID.Hex(), fbErr)
		}
	}
	if s.auditService != nil {
		entry := models.NewAuditLog(models.AuditActionSubmit, models.ResourceTypeSurvey, survey.ID,
			fmt.Sprintf("survey submitted for period %s", period))
		entry.SetActor(&submitter.ID, submitter.EmployeeID)
		s.auditService.LogAsync(entry)
	}

	return survey, nil
}

// GetDetail returns a survey with responses, category scores and feedback
func (s *surveyService) GetDetail(ctx context.Context, scope access.Scope, id primitive.ObjectID) (*SurveyDetail, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Out-of-scope surveys are indistinguishable from missing ones
	if !scope.Allows(survey) {
		return nil, models.ErrSurveyNotFound
	}

	responses, err := s.surveyRepo.ListResponses(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	categoryScores, err := s.surveyRepo.ListCategoryScores(ctx, survey.ID)
	if err != nil {
		return nil, err
	}

	var feedback []models.Feedback
	if s.feedbackService != nil {
		feedback, err = s.feedbackService.ListForSurvey(ctx, survey.ID)
		if err != nil {
			return nil, err
		}
	}

	return &SurveyDetail{
		Survey:         survey,
		Responses:      responses,
		CategoryScores: categoryScores,
		Feedback:       feedback,
	}, nil
}

// List returns surveys visible in the scope
func (s *surveyService) List(ctx context.Context, scope access.Scope, period string, level *models.UserRole, userID *primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error) {
	if level != nil && !level.IsValid() {
		return nil, models.ErrInvalidLevel
	}
	filter := scope.MongoFilter()
	if userID != nil {
		// The user narrowing intersects the scope filter instead of
		// replacing it, so callers stay inside their jurisdiction.
		filter = bson.M{"$and": []bson.M{filter, {"user_id": *userID}}}
	}
	return s.surveyRepo.ListScoped(ctx, filter, period, level, opts)
}

// Periods returns the distinct periods with surveys visible in the scope
func (s *surveyService) Periods(ctx context.Context, scope access.Scope) ([]string, error) {
	return s.surveyRepo.DistinctPeriods(ctx, scope.MongoFilter())
}
