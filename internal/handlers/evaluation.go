package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/talent-registration-api/internal/errors"
	"github.com/yukikurage/talent-registration-api/internal/evaluation"
	"github.com/yukikurage/talent-registration-api/internal/middleware"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/services"
)

const dateLayout = "2006-01-02"

type EvaluationHandler struct {
	evaluations *services.EvaluationService
	log         *logrus.Logger
}

func NewEvaluationHandler(evaluations *services.EvaluationService, log *logrus.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		evaluations: evaluations,
		log:         log,
	}
}

// Summary scores a set of competencies and places the result on the
// nine-box grid. Performance falls back to the final score when omitted.
func (h *EvaluationHandler) Summary(c *gin.Context) {
	var req struct {
		Competencies []evaluation.Competency `json:"competencies" binding:"required,min=1,dive"`
		Performance  float64                 `json:"performance" binding:"gte=0,lte=5"`
		Potential    float64                 `json:"potential" binding:"required,gte=1,lte=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	c.JSON(http.StatusOK, evaluation.Summarize(req.Competencies, req.Performance, req.Potential))
}

func (h *EvaluationHandler) ListCycles(c *gin.Context) {
	cycles, err := h.evaluations.ListCycles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycles)
}

func (h *EvaluationHandler) CreateCycle(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		StartDate   string `json:"start_date" binding:"required"`
		EndDate     string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid start date")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid end date")
		return
	}

	cycle, err := h.evaluations.CreateCycle(c.Request.Context(), services.CreateCycleInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cycle)
}

// CurrentCycle returns the open cycle, 404 when none is open.
func (h *EvaluationHandler) CurrentCycle(c *gin.Context) {
	cycle, err := h.evaluations.CurrentCycle(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func (h *EvaluationHandler) OpenCycle(c *gin.Context) {
	h.changeCycle(c, h.evaluations.OpenCycle)
}

func (h *EvaluationHandler) CloseCycle(c *gin.Context) {
	h.changeCycle(c, h.evaluations.CloseCycle)
}

func (h *EvaluationHandler) changeCycle(c *gin.Context, change func(ctx context.Context, id uint64) (*models.EvaluationCycle, error)) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid cycle ID")
		return
	}
	cycle, err := change(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func (h *EvaluationHandler) NineBox(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid cycle ID")
		return
	}
	entries, err := h.evaluations.NineBox(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *EvaluationHandler) Dashboard(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid cycle ID")
		return
	}
	rows, err := h.evaluations.Dashboard(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// queryID reads an optional numeric query parameter. Missing means 0.
func queryID(c *gin.Context, key string) (uint64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil
}

// EmployeeEvaluations lists an employee's evaluations, optionally filtered
// by cycle_id and type.
func (h *EvaluationHandler) EmployeeEvaluations(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}
	cycleID, ok := queryID(c, "cycle_id")
	if !ok {
		apierrors.BadRequest(c, "Invalid cycle ID")
		return
	}

	evs, err := h.evaluations.EmployeeEvaluations(c.Request.Context(), employeeID, cycleID, models.EvaluationType(c.Query("type")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, evs)
}

// CheckExisting reports whether an evaluation of a type already exists.
func (h *EvaluationHandler) CheckExisting(c *gin.Context) {
	cycleID, ok := queryID(c, "cycle_id")
	if !ok || cycleID == 0 {
		apierrors.BadRequest(c, "Invalid cycle ID")
		return
	}
	employeeID, ok := queryID(c, "employee_id")
	if !ok || employeeID == 0 {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	exists, err := h.evaluations.HasEvaluation(c.Request.Context(), cycleID, employeeID, models.EvaluationType(c.Query("type")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

type evaluationRequest struct {
	CycleID        uint64                  `json:"cycle_id" binding:"required"`
	EmployeeID     uint64                  `json:"employee_id"`
	EvaluatorID    uint64                  `json:"evaluator_id"`
	Competencies   []evaluation.Competency `json:"competencies" binding:"dive"`
	PotentialScore float64                 `json:"potential_score"`
	Strengths      string                  `json:"strengths"`
	Improvements   string                  `json:"improvements"`
	Observations   string                  `json:"observations"`
}

func (r evaluationRequest) input() services.EvaluationInput {
	return services.EvaluationInput{
		CycleID:        r.CycleID,
		EmployeeID:     r.EmployeeID,
		EvaluatorID:    r.EvaluatorID,
		Competencies:   r.Competencies,
		PotentialScore: r.PotentialScore,
		Strengths:      r.Strengths,
		Improvements:   r.Improvements,
		Observations:   r.Observations,
	}
}

func (h *EvaluationHandler) SaveSelf(c *gin.Context) {
	var req evaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ev, err := h.evaluations.SaveSelf(c.Request.Context(), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// SaveLeader stores a leader evaluation. The session user is the evaluator
// when evaluator_id is omitted.
func (h *EvaluationHandler) SaveLeader(c *gin.Context) {
	var req evaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.EvaluatorID == 0 {
		if user, ok := middleware.GetCurrentUser(c); ok {
			req.EvaluatorID = user.ID
		}
	}

	ev, err := h.evaluations.SaveLeader(c.Request.Context(), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *EvaluationHandler) CreateConsensus(c *gin.Context) {
	var req struct {
		CycleID     uint64 `json:"cycle_id" binding:"required"`
		EmployeeID  uint64 `json:"employee_id"`
		MeetingDate string `json:"meeting_date"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var meetingDate *time.Time
	if req.MeetingDate != "" {
		d, err := time.Parse(dateLayout, req.MeetingDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid meeting date")
			return
		}
		meetingDate = &d
	}

	meeting, err := h.evaluations.CreateConsensus(c.Request.Context(), services.CreateConsensusInput{
		CycleID:     req.CycleID,
		EmployeeID:  req.EmployeeID,
		MeetingDate: meetingDate,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meeting)
}

// CompleteConsensus records the agreed performance and potential.
func (h *EvaluationHandler) CompleteConsensus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid consensus meeting ID")
		return
	}

	var req struct {
		PerformanceScore float64 `json:"performance_score"`
		PotentialScore   float64 `json:"potential_score"`
		Notes            string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	meeting, err := h.evaluations.CompleteConsensus(c.Request.Context(), id, services.CompleteConsensusInput{
		PerformanceScore: req.PerformanceScore,
		PotentialScore:   req.PotentialScore,
		Notes:            req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meeting)
}

func (h *EvaluationHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCycleTitleRequired),
		errors.Is(err, services.ErrInvalidCycleDates),
		errors.Is(err, services.ErrCompetenciesRequired),
		errors.Is(err, services.ErrInvalidCompetency),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrInvalidEvaluationType),
		errors.Is(err, services.ErrEmployeeRequired),
		errors.Is(err, services.ErrEvaluatorNotLeader):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCycleNotFound),
		errors.Is(err, services.ErrNoOpenCycle),
		errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrEvaluatorNotFound),
		errors.Is(err, services.ErrConsensusNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidCycleTransition),
		errors.Is(err, services.ErrAnotherCycleOpen),
		errors.Is(err, services.ErrCycleNotOpen),
		errors.Is(err, services.ErrConsensusCompleted):
		apierrors.Conflict(c, err.Error())
	default:
		h.log.WithError(err).Error("Evaluation request failed")
		apierrors.InternalError(c, "")
	}
}
