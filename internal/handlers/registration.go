package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/talent-registration-api/internal/catalog"
	"github.com/yukikurage/talent-registration-api/internal/constants"
	"github.com/yukikurage/talent-registration-api/internal/dto"
	apierrors "github.com/yukikurage/talent-registration-api/internal/errors"
	"github.com/yukikurage/talent-registration-api/internal/registration"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"github.com/yukikurage/talent-registration-api/internal/services"
	"github.com/yukikurage/talent-registration-api/internal/utils"
)

// RegistrationHandler serves the user registration form and its submission.
type RegistrationHandler struct {
	store        *catalog.Store
	registration *services.RegistrationService
	userRepo     repository.UserRepository
	log          *logrus.Logger
	now          func() time.Time
}

func NewRegistrationHandler(
	store *catalog.Store,
	registrationService *services.RegistrationService,
	userRepo repository.UserRepository,
	log *logrus.Logger,
) *RegistrationHandler {
	return &RegistrationHandler{
		store:        store,
		registration: registrationService,
		userRepo:     userRepo,
		log:          log,
		now:          time.Now,
	}
}

// Reference reloads the reference data and returns it with a fresh form.
// Failed sources are listed in load_errors and their lists are empty.
func (h *RegistrationHandler) Reference(c *gin.Context) {
	data := h.store.Reload(c.Request.Context())

	form := registration.NewForm(h.now())
	form = registration.Reduce(data, form, registration.Event{Type: registration.ReferenceDataLoaded})

	c.JSON(http.StatusOK, dto.ReferenceResponse{
		ReferenceData: data,
		Ready:         h.store.Ready(),
		Form:          form,
	})
}

// Transition applies one form event and returns the next snapshot together
// with the candidates for each dependent select.
func (h *RegistrationHandler) Transition(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !req.Event.Type.Valid() {
		apierrors.BadRequest(c, fmt.Sprintf("Unknown event type %q", req.Event.Type))
		return
	}

	data := h.store.Snapshot()
	form := registration.Reduce(data, req.Form, req.Event)
	res := registration.Resolve(data.Tracks, data.Positions, form)

	c.JSON(http.StatusOK, dto.TransitionResponse{
		Form:        form,
		Tracks:      res.Tracks,
		Positions:   res.Positions,
		Supervisors: dto.ToUserSummaryDTOs(registration.SupervisorCandidates(data.Users, form.ProfileType)),
	})
}

// Validate reports the field errors of a snapshot without submitting it.
func (h *RegistrationHandler) Validate(c *gin.Context) {
	var form registration.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	errs := h.registration.Validate(form)
	c.JSON(http.StatusOK, dto.ValidateResponse{
		Valid:  errs.Valid(),
		Errors: errs,
	})
}

// CreateUser submits a registration form.
func (h *RegistrationHandler) CreateUser(c *gin.Context) {
	var form registration.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.registration.Submit(c.Request.Context(), form)
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ListUsers returns one page of users.
func (h *RegistrationHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userRepo.List(c.Request.Context(), params)
	if err != nil {
		h.log.WithError(err).Error("Failed to list users")
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Users: dto.ToUserDTOs(users),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func (h *RegistrationHandler) respondSubmitError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrRollbackFailed):
		h.log.WithError(err).Error("Registration left a user without team memberships")
		apierrors.OperationFailed(c, "User was created but could not be added to the selected teams")
	case errors.Is(err, services.ErrTeamMembershipFailed):
		apierrors.OperationFailed(c, "User could not be added to the selected teams and was not created, please try again")
	case errors.Is(err, services.ErrFailedToCreateUser),
		errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.OperationFailed(c, err.Error())
	default:
		h.log.WithError(err).Error("Registration failed")
		apierrors.InternalError(c, "Failed to register user")
	}
}
