package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/framework"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// FrameworkHandler serves the static assessment catalog
type FrameworkHandler struct{}

// NewFrameworkHandler creates a new framework handler
func NewFrameworkHandler() *FrameworkHandler {
	return &FrameworkHandler{}
}

// FrameworkQuestion is a question with its durable position ID
type FrameworkQuestion struct {
	ID      int     `json:"id"`
	Text    string  `json:"text"`
	Weight  float64 `json:"weight"`
	Formula string  `json:"formula"`
	Target  float64 `json:"target"`
}

// FrameworkCategory is a weighted category with its questions
type FrameworkCategory struct {
	Index     int                 `json:"index"`
	Name      string              `json:"name"`
	Weight    float64             `json:"weight"`
	Questions []FrameworkQuestion `json:"questions"`
}

// FrameworkResponse is the catalog for one hierarchy level
type FrameworkResponse struct {
	Level      string              `json:"level"`
	Categories []FrameworkCategory `json:"categories"`
}

// LevelsResponse lists the hierarchy levels that carry a framework
type LevelsResponse struct {
	Levels []string `json:"levels"`
}

// GetLevels handles GET /api/v1/framework/levels
// @Summary List assessment levels
// @Description Returns the hierarchy levels that have an assessment framework
// @Tags Framework
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LevelsResponse
// @Router /framework/levels [get]
func (h *FrameworkHandler) GetLevels(c *gin.Context) {
	levels := framework.Levels()
	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, strings.ToLower(string(l)))
	}
	c.JSON(http.StatusOK, LevelsResponse{Levels: out})
}

// GetFramework handles GET /api/v1/framework/:level
// @Summary Get the catalog for a level
// @Description Returns the weighted categories and questions a user at the given level answers
// @Tags Framework
// @Produce json
// @Security BearerAuth
// @Param level path string true "Hierarchy level (zone, region, city, branch)"
// @Success 200 {object} FrameworkResponse
// @Failure 400 {object} ErrorResponse
// @Router /framework/{level} [get]
func (h *FrameworkHandler) GetFramework(c *gin.Context) {
	level := models.UserRole(strings.ToUpper(c.Param("level")))
	cats, err := framework.CategoriesFor(level)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := FrameworkResponse{
		Level:      strings.ToLower(string(level)),
		Categories: make([]FrameworkCategory, 0, len(cats)),
	}
	id := 1
	for ci, cat := range cats {
		out := FrameworkCategory{
			Index:     ci,
			Name:      cat.Name,
			Weight:    cat.Weight,
			Questions: make([]FrameworkQuestion, 0, len(cat.Questions)),
		}
		for _, q := range cat.Questions {
			out.Questions = append(out.Questions, FrameworkQuestion{
				ID:      id,
				Text:    q.Text,
				Weight:  q.Weight,
				Formula: string(q.Formula),
				Target:  q.Target,
			})
			id++
		}
		resp.Categories = append(resp.Categories, out)
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers framework handler routes
func (h *FrameworkHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	fw := rg.Group("/framework", authMiddleware)
	{
		fw.GET("/levels", h.GetLevels)
		fw.GET("/:level", h.GetFramework)
	}
}
