package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/middleware"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/services"
)

// AuditHandler exposes the audit trail to administrators
type AuditHandler struct {
	auditService services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles GET /audit
// @Summary List audit trail entries
// @Description Lists audit entries, optionally narrowed to a resource or an actor. Admin only.
// @Tags Audit
// @Produce json
// @Param resource_type query string false "Resource type (user, survey, task, comment)"
// @Param resource_id query string false "Resource ID (requires resource_type)"
// @Param actor_id query string false "Actor user ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} repository.PaginatedResult[models.AuditLog]
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	opts := parsePagination(c)

	var result *repository.PaginatedResult[models.AuditLog]
	var err error
	switch {
	case c.Query("resource_type") != "" && c.Query("resource_id") != "":
		resourceID, ok := parseObjectIDQuery(c, "resource_id")
		if !ok {
			return
		}
		result, err = h.auditService.ListByResource(c.Request.Context(), c.Query("resource_type"), resourceID, opts)
	case c.Query("actor_id") != "":
		actorID, ok := parseObjectIDQuery(c, "actor_id")
		if !ok {
			return
		}
		result, err = h.auditService.ListByActor(c.Request.Context(), actorID, opts)
	default:
		result, err = h.auditService.ListRecent(c.Request.Context(), opts)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers audit handler routes
// #SECURITY_CONCERN: The trail spans every org unit, so only admins may read it
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.GET("/audit", authMiddleware, middleware.RequireAdmin(), h.List)
}
