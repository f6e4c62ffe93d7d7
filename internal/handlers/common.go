// Package handlers provides HTTP handlers for API endpoints.
// #IMPLEMENTATION_DECISION: Handlers are thin - delegate business logic to services
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/access"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/middleware"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string         `json:"id"`
	EmployeeID  string         `json:"employee_id"`
	Name        string         `json:"name"`
	Role        string         `json:"role"`
	OrgUnit     models.OrgUnit `json:"org_unit"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt int64          `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a User model to UserResponse
func ToUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:         user.ID.Hex(),
		EmployeeID: user.EmployeeID,
		Name:       user.Name,
		Role:       string(user.Role),
		OrgUnit:    user.OrgUnit,
		IsActive:   user.IsActive,
	}
	if user.LastLoginAt != nil {
		resp.LastLoginAt = user.LastLoginAt.Unix()
	}
	return resp
}

// respondError maps a service error onto the HTTP status it deserves.
// #SECURITY_CONCERN: Internal errors are never echoed to the client
func respondError(c *gin.Context, err error) {
	switch {
	case models.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case models.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case models.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case models.IsAuthError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

// respondUnauthorized writes the standard 401 body
func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "Invalid session",
	})
}

// parseObjectIDParam parses a path parameter as an ObjectID, writing the
// error response itself on failure.
func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid " + name,
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseObjectIDQuery parses a query parameter as an ObjectID, writing the
// error response itself on failure.
func parseObjectIDQuery(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid " + name,
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

// parsePagination reads page/limit/sort query parameters with clamped bounds
func parsePagination(c *gin.Context) repository.PaginationOptions {
	opts := repository.DefaultPaginationOptions()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		opts.Limit = limit
	}
	if sortBy := c.Query("sort_by"); sortBy != "" {
		opts.SortBy = sortBy
	}
	if c.Query("sort_dir") == "asc" {
		opts.SortDir = 1
	}
	return opts
}

// scopeFromRequest builds the survey visibility scope for the authenticated
// viewer, applying the optional geography narrowing and the
// include_subordinates toggle from the query string.
func scopeFromRequest(c *gin.Context, viewer *models.User) access.Scope {
	scope := access.Scope{
		ViewerID:            viewer.ID,
		Role:                viewer.Role,
		OrgUnit:             viewer.OrgUnit,
		IncludeSubordinates: c.DefaultQuery("include_subordinates", "true") != "false",
		Filter: models.OrgUnit{
			Zone:   c.Query("zone"),
			Region: c.Query("region"),
			City:   c.Query("city"),
			Branch: c.Query("branch"),
		},
	}
	return scope
}

// currentUser resolves the authenticated user's full document. The token only
// carries the identity snapshot; management and submission decisions need the
// current role and status.
func currentUser(c *gin.Context, users repository.UserRepository) (*models.User, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return nil, false
	}
	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil || !user.IsActive {
		respondUnauthorized(c)
		return nil, false
	}
	return user, true
}
