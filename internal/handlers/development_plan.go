package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/talent-registration-api/internal/dto"
	apierrors "github.com/yukikurage/talent-registration-api/internal/errors"
	"github.com/yukikurage/talent-registration-api/internal/middleware"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/services"
)

type DevelopmentPlanHandler struct {
	plans     *services.DevelopmentPlanService
	aiService *services.AIService
	log       *logrus.Logger
}

// NewDevelopmentPlanHandler creates the handler. aiService is nil when no
// OpenAI key is configured.
func NewDevelopmentPlanHandler(plans *services.DevelopmentPlanService, aiService *services.AIService, log *logrus.Logger) *DevelopmentPlanHandler {
	return &DevelopmentPlanHandler{
		plans:     plans,
		aiService: aiService,
		log:       log,
	}
}

type planItemRequest struct {
	Horizon         models.PlanHorizon `json:"horizon" binding:"required"`
	Competency      string             `json:"competency"`
	Schedule        string             `json:"schedule"`
	HowToDevelop    string             `json:"how_to_develop"`
	ExpectedResults string             `json:"expected_results"`
	Status          models.ItemStatus  `json:"status"`
	Notes           string             `json:"notes"`
}

func toItemInputs(items []planItemRequest) []services.PlanItemInput {
	out := make([]services.PlanItemInput, len(items))
	for i, it := range items {
		out[i] = services.PlanItemInput{
			Horizon:         it.Horizon,
			Competency:      it.Competency,
			Schedule:        it.Schedule,
			HowToDevelop:    it.HowToDevelop,
			ExpectedResults: it.ExpectedResults,
			Status:          it.Status,
			Notes:           it.Notes,
		}
	}
	return out
}

// CreatePlan saves a new development plan for an employee.
func (h *DevelopmentPlanHandler) CreatePlan(c *gin.Context) {
	var req struct {
		EmployeeID uint64            `json:"employee_id"`
		Period     string            `json:"period"`
		Items      []planItemRequest `json:"items" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var createdBy uint64
	if user, ok := middleware.GetCurrentUser(c); ok {
		createdBy = user.ID
	}

	plan, err := h.plans.Save(c.Request.Context(), services.SavePlanInput{
		EmployeeID:  req.EmployeeID,
		CreatedByID: createdBy,
		Period:      req.Period,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDevelopmentPlanDTO(*plan))
}

// GetLatestForEmployee returns the most recent plan of an employee.
func (h *DevelopmentPlanHandler) GetLatestForEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	plan, err := h.plans.GetLatest(c.Request.Context(), employeeID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDevelopmentPlanDTO(*plan))
}

// UpdatePlan replaces the period and items of a plan.
func (h *DevelopmentPlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid plan ID")
		return
	}

	var req struct {
		Period string            `json:"period"`
		Items  []planItemRequest `json:"items" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	plan, err := h.plans.Update(c.Request.Context(), planID, services.UpdatePlanInput{
		Period: req.Period,
		Items:  toItemInputs(req.Items),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDevelopmentPlanDTO(*plan))
}

// SuggestItems drafts plan items from free text with OpenAI.
func (h *DevelopmentPlanHandler) SuggestItems(c *gin.Context) {
	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		return
	}

	var req struct {
		Employee string `json:"employee"`
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	items, err := h.aiService.SuggestDevelopmentItems(c.Request.Context(), req.Employee, req.Feedback)
	if err != nil {
		h.log.WithError(err).Warn("Failed to suggest development items")
		apierrors.InternalError(c, "Failed to generate suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *DevelopmentPlanHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmployeeRequired),
		errors.Is(err, services.ErrPlanItemsRequired),
		errors.Is(err, services.ErrInvalidHorizon),
		errors.Is(err, services.ErrInvalidItemStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrPlanNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		h.log.WithError(err).Error("Development plan request failed")
		apierrors.InternalError(c, "")
	}
}
