package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/talent-registration-api/internal/errors"
	"github.com/yukikurage/talent-registration-api/internal/services"
)

// CatalogHandler exposes departments, tracks, positions and teams.
type CatalogHandler struct {
	catalog *services.CatalogService
	log     *logrus.Logger
}

func NewCatalogHandler(catalogService *services.CatalogService, log *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogService,
		log:     log,
	}
}

func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	deps, err := h.catalog.ListDepartments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": deps})
}

func (h *CatalogHandler) CreateDepartment(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dep, err := h.catalog.CreateDepartment(c.Request.Context(), services.CreateDepartmentInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dep)
}

func (h *CatalogHandler) ListTracks(c *gin.Context) {
	tracks, err := h.catalog.ListTracks(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}

func (h *CatalogHandler) CreateTrack(c *gin.Context) {
	var req struct {
		Name         string  `json:"name" binding:"required"`
		Description  *string `json:"description"`
		DepartmentID uint64  `json:"department_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	track, err := h.catalog.CreateTrack(c.Request.Context(), services.CreateTrackInput{
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, track)
}

func (h *CatalogHandler) ListJobPositions(c *gin.Context) {
	positions, err := h.catalog.ListJobPositions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_positions": positions})
}

func (h *CatalogHandler) CreateJobPosition(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Code        string  `json:"code" binding:"required,max=50"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pos, err := h.catalog.CreateJobPosition(c.Request.Context(), services.CreateJobPositionInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pos)
}

func (h *CatalogHandler) ListTrackPositions(c *gin.Context) {
	tps, err := h.catalog.ListTrackPositions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"track_positions": tps})
}

func (h *CatalogHandler) CreateTrackPosition(c *gin.Context) {
	var req struct {
		TrackID    uint64  `json:"track_id" binding:"required"`
		PositionID uint64  `json:"position_id" binding:"required"`
		ClassID    *string `json:"class_id"`
		BaseSalary float64 `json:"base_salary" binding:"gte=0"`
		OrderIndex int     `json:"order_index" binding:"gte=0"`
		Active     *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tp, err := h.catalog.CreateTrackPosition(c.Request.Context(), services.CreateTrackPositionInput{
		TrackID:    req.TrackID,
		PositionID: req.PositionID,
		ClassID:    req.ClassID,
		BaseSalary: req.BaseSalary,
		OrderIndex: req.OrderIndex,
		Active:     req.Active,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tp)
}

func (h *CatalogHandler) ListTeams(c *gin.Context) {
	teams, err := h.catalog.ListTeams(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (h *CatalogHandler) CreateTeam(c *gin.Context) {
	var req struct {
		Name         string  `json:"name" binding:"required"`
		DepartmentID *uint64 `json:"department_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.catalog.CreateTeam(c.Request.Context(), services.CreateTeamInput{
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

func (h *CatalogHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrCodeRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDepartmentNotFound),
		errors.Is(err, services.ErrTrackNotFound),
		errors.Is(err, services.ErrJobPositionNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCodeTaken):
		apierrors.Conflict(c, err.Error())
	default:
		h.log.WithError(err).Error("Catalog request failed")
		apierrors.InternalError(c, "")
	}
}
