package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/framework"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/services"
)

// SurveyHandler handles assessment submission, scoped reads, exports, and the
// comments and tasks attached to a survey
type SurveyHandler struct {
	surveyService  services.SurveyService
	taskService    services.TaskService
	commentService services.CommentService
	auditService   services.AuditService
	userRepo       repository.UserRepository
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(
	surveyService services.SurveyService,
	taskService services.TaskService,
	commentService services.CommentService,
	auditService services.AuditService,
	userRepo repository.UserRepository,
) *SurveyHandler {
	return &SurveyHandler{
		surveyService:  surveyService,
		taskService:    taskService,
		commentService: commentService,
		auditService:   auditService,
		userRepo:       userRepo,
	}
}

// SubmitSurveyRequest represents a survey submission. Answers are keyed by
// the question's position ID; a null value records the question as skipped.
type SubmitSurveyRequest struct {
	Period  string           `json:"period" binding:"required"`
	Answers map[int]*float64 `json:"answers" binding:"required"`
}

// Submit handles POST /api/v1/surveys
// @Summary Submit an assessment
// @Description Scores and stores a survey for the caller's level; resubmitting a period replaces the previous survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitSurveyRequest true "Survey submission"
// @Success 201 {object} models.Survey
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /surveys [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	var req SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Period and answers are required",
		})
		return
	}

	survey, err := h.surveyService.Submit(c.Request.Context(), user, req.Period, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

// List handles GET /api/v1/surveys
// @Summary List surveys in scope
// @Description Lists surveys visible to the caller, optionally narrowed by period, level, geography or submitter
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param period query string false "Period filter (YYYY-MM)"
// @Param level query string false "Level filter (zone, region, city, branch)"
// @Param user_id query string false "Submitter filter"
// @Param zone query string false "Zone narrowing"
// @Param region query string false "Region narrowing"
// @Param city query string false "City narrowing"
// @Param branch query string false "Branch narrowing"
// @Param include_subordinates query bool false "Include subordinate surveys (default true)"
// @Success 200 {object} repository.PaginatedResult[models.Survey]
// @Failure 400 {object} ErrorResponse
// @Router /surveys [get]
func (h *SurveyHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	scope := scopeFromRequest(c, user)

	var level *models.UserRole
	if raw := c.Query("level"); raw != "" {
		l := models.UserRole(strings.ToUpper(raw))
		level = &l
	}
	var userID *primitive.ObjectID
	if raw := c.Query("user_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid user_id",
			})
			return
		}
		userID = &id
	}

	result, err := h.surveyService.List(c.Request.Context(), scope, c.Query("period"), level, userID, parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PeriodsResponse lists the distinct periods with surveys in scope
type PeriodsResponse struct {
	Periods []string `json:"periods"`
}

// Periods handles GET /api/v1/surveys/periods
// @Summary List periods in scope
// @Description Returns the distinct periods with visible surveys, newest first
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PeriodsResponse
// @Router /surveys/periods [get]
func (h *SurveyHandler) Periods(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	periods, err := h.surveyService.Periods(c.Request.Context(), scopeFromRequest(c, user))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PeriodsResponse{Periods: periods})
}

// GetDetail handles GET /api/v1/surveys/:id
// @Summary Get a survey
// @Description Returns a survey with its responses, category scores and feedback
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} services.SurveyDetail
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [get]
func (h *SurveyHandler) GetDetail(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	surveyID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.surveyService.GetDetail(c.Request.Context(), scopeFromRequest(c, user), surveyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Export handles GET /api/v1/surveys/:id/export
// @Summary Export a survey as CSV
// @Description Streams the survey's responses as a CSV file
// @Tags Surveys
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/export [get]
func (h *SurveyHandler) Export(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	surveyID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.surveyService.GetDetail(c.Request.Context(), scopeFromRequest(c, user), surveyID)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("survey_%s_%s.csv",
		detail.Survey.Period, strings.ToLower(string(detail.Survey.RoleLevel)))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	flat, _ := framework.Flatten(detail.Survey.RoleLevel)
	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"question_id", "category", "question", "raw_value", "score"})
	for _, r := range detail.Responses {
		category, text := "", ""
		if r.QuestionID >= 1 && r.QuestionID <= len(flat) {
			category = flat[r.QuestionID-1].CategoryName
			text = flat[r.QuestionID-1].Text
		}
		raw, score := "", ""
		if r.RawValue != nil {
			raw = strconv.FormatFloat(*r.RawValue, 'f', -1, 64)
		}
		if r.Score != nil {
			score = strconv.FormatFloat(*r.Score, 'f', 2, 64)
		}
		_ = w.Write([]string{strconv.Itoa(r.QuestionID), category, text, raw, score})
	}
	w.Flush()

	h.auditService.LogAsync(models.NewAuditLog(
		models.AuditActionExport, models.ResourceTypeSurvey, detail.Survey.ID,
		fmt.Sprintf("exported survey for period %s", detail.Survey.Period),
	).SetActor(&user.ID, user.EmployeeID))
}

// CreateCommentRequest represents the comment creation body
type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// CreateComment handles POST /api/v1/surveys/:id/comments
// @Summary Comment on a survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} models.SurveyComment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/comments [post]
func (h *SurveyHandler) CreateComment(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	surveyID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Comment text is required",
		})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), scopeFromRequest(c, user), surveyID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// CommentsResponse lists a survey's comments with resolved authors
type CommentsResponse struct {
	Comments []services.CommentWithAuthor `json:"comments"`
}

// ListComments handles GET /api/v1/surveys/:id/comments
// @Summary List a survey's comments
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} CommentsResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/comments [get]
func (h *SurveyHandler) ListComments(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	surveyID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListBySurvey(c.Request.Context(), scopeFromRequest(c, user), surveyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CommentsResponse{Comments: comments})
}

// CreateTaskRequest represents the task creation body
type CreateTaskRequest struct {
	Description string `json:"description" binding:"required"`
}

// CreateTask handles POST /api/v1/surveys/:id/tasks
// @Summary Raise an action item on a survey
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body CreateTaskRequest true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/tasks [post]
func (h *SurveyHandler) CreateTask(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	surveyID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Description is required",
		})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), scopeFromRequest(c, user), surveyID, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// TasksResponse lists a survey's tasks
type TasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

// ListTasks handles GET /api/v1/surveys/:id/tasks
// @Summary List a survey's action items
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} TasksResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/tasks [get]
func (h *SurveyHandler) ListTasks(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	surveyID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListBySurvey(c.Request.Context(), scopeFromRequest(c, user), surveyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TasksResponse{Tasks: tasks})
}

// UpdateTaskRequest represents the task status update body
type UpdateTaskRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTask handles PATCH /api/v1/tasks/:id
// @Summary Update an action item's status
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "New status (planned, pending, completed)"
// @Success 200 {object} models.Task
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [patch]
func (h *SurveyHandler) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	taskID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Status is required",
		})
		return
	}

	status := models.TaskStatus(strings.ToUpper(req.Status))
	task, err := h.taskService.UpdateStatus(c.Request.Context(), scopeFromRequest(c, user), taskID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/v1/tasks/:id
// @Summary Delete an action item
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *SurveyHandler) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}
	taskID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), scopeFromRequest(c, user), taskID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers survey handler routes
func (h *SurveyHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware, assessmentLevel gin.HandlerFunc) {
	surveys := rg.Group("/surveys", authMiddleware)
	{
		surveys.POST("", assessmentLevel, h.Submit)
		surveys.GET("", h.List)
		surveys.GET("/periods", h.Periods)
		surveys.GET("/:id", h.GetDetail)
		surveys.GET("/:id/export", h.Export)

		surveys.POST("/:id/comments", h.CreateComment)
		surveys.GET("/:id/comments", h.ListComments)

		surveys.POST("/:id/tasks", h.CreateTask)
		surveys.GET("/:id/tasks", h.ListTasks)
	}

	tasks := rg.Group("/tasks", authMiddleware)
	{
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}
