package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/dto"
	apierrors "github.com/yukikurage/talent-registration-api/internal/errors"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/registration"
)

func (e apiTestEnv) validForm() registration.Form {
	return registration.Form{
		Name:         "Ana Souza",
		Email:        "Ana@Example.com",
		Password:     "secret1",
		ProfileType:  models.ProfileRegular,
		Phone:        "(11) 91234-5678",
		BirthDate:    "1995-04-20",
		JoinDate:     "2024-01-02",
		ReportsTo:    e.org.Leader.ID,
		DepartmentID: e.org.Engineering.ID,
		TrackID:      e.org.Backend.ID,
		PositionID:   e.org.BackendDev.ID,
		InternLevel:  models.LevelB,
		ContractType: models.ContractPJ,
		TeamIDs:      []uint64{e.org.Platform.ID, e.org.Platform.ID, e.org.Growth.ID},
	}
}

func TestRegistrationHandler_Reference(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodGet, "/api/registration/reference", nil, env.loginAdmin(t))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.ReferenceResponse
	decode(t, w, &response)
	require.True(t, response.Ready)
	require.Empty(t, response.LoadErrors)
	require.Len(t, response.Users, 4)
	require.Len(t, response.Teams, 2)
	require.Len(t, response.Departments, 2)
	require.Len(t, response.Tracks, 3)
	require.Len(t, response.Positions, 4)

	require.Equal(t, models.ProfileRegular, response.Form.ProfileType)
	require.Equal(t, models.LevelA, response.Form.InternLevel)
	require.Equal(t, models.ContractCLT, response.Form.ContractType)
	require.NotEmpty(t, response.Form.JoinDate)
	require.Zero(t, response.Form.DepartmentID)
}

func TestRegistrationHandler_TransitionDepartmentChange(t *testing.T) {
	env := setupAPITestEnv(t)

	form := env.validForm()
	form.Position = "Software Developer"
	w := env.request(t, http.MethodPost, "/api/registration/transition", dto.TransitionRequest{
		Form:  form,
		Event: registration.Event{Type: registration.DepartmentSelected, ID: env.org.Sales.ID},
	}, env.loginAdmin(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response dto.TransitionResponse
	decode(t, w, &response)
	require.Equal(t, env.org.Sales.ID, response.Form.DepartmentID)
	require.Zero(t, response.Form.TrackID)
	require.Zero(t, response.Form.PositionID)
	require.Empty(t, response.Form.Position)
	require.Equal(t, models.LevelA, response.Form.InternLevel)
	require.Equal(t, "Ana Souza", response.Form.Name)

	require.Len(t, response.Tracks, 1)
	require.Equal(t, env.org.Accounts.ID, response.Tracks[0].ID)
	require.Empty(t, response.Positions)

	// Regular users may report to the seeded director, the leader and the admin.
	require.Len(t, response.Supervisors, 3)
}

func TestRegistrationHandler_TransitionPositionLabel(t *testing.T) {
	env := setupAPITestEnv(t)

	form := env.validForm()
	form.PositionID = 0
	w := env.request(t, http.MethodPost, "/api/registration/transition", dto.TransitionRequest{
		Form:  form,
		Event: registration.Event{Type: registration.PositionSelected, ID: env.org.BackendLead.ID},
	}, env.loginAdmin(t))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TransitionResponse
	decode(t, w, &response)
	require.Equal(t, env.org.BackendLead.ID, response.Form.PositionID)
	require.Equal(t, "Software Developer", response.Form.Position)
	require.Len(t, response.Positions, 2)
}

func TestRegistrationHandler_TransitionUnknownEvent(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodPost, "/api/registration/transition", dto.TransitionRequest{
		Form:  env.validForm(),
		Event: registration.Event{Type: "team_toggled"},
	}, env.loginAdmin(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegistrationHandler_ValidateEmptyForm(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodPost, "/api/registration/validate", registration.Form{}, env.loginAdmin(t))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.ValidateResponse
	decode(t, w, &response)
	require.False(t, response.Valid)
	require.Len(t, response.Errors, 9)
	require.Equal(t, "Name is required", response.Errors[registration.FieldName])
	require.NotContains(t, response.Errors, registration.FieldReportsTo)
}

func TestRegistrationHandler_CreateUser(t *testing.T) {
	env := setupAPITestEnv(t)
	cookies := env.loginAdmin(t)

	w := env.request(t, http.MethodPost, "/api/users", env.validForm(), cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response dto.UserDTO
	decode(t, w, &response)
	require.Equal(t, "ana@example.com", response.Email)
	require.Equal(t, "Software Developer", response.Position)
	require.Equal(t, models.ProfileRegular, response.ProfileType)
	require.Equal(t, models.LevelB, response.InternLevel)
	require.Equal(t, models.ContractPJ, response.ContractType)
	require.NotNil(t, response.JoinDate)
	require.Equal(t, "2024-01-02", *response.JoinDate)
	require.NotNil(t, response.ReportsTo)
	require.Equal(t, env.org.Leader.ID, *response.ReportsTo)

	var members []models.TeamMember
	require.NoError(t, env.db.Where("user_id = ?", response.ID).Find(&members).Error)
	require.Len(t, members, 2)

	// The new account can log in right away.
	env.login(t, "ana@example.com", "secret1")

	// The admin session is untouched.
	w = env.request(t, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.UserDTO
	decode(t, w, &me)
	require.Equal(t, env.admin.ID, me.ID)
}

func TestRegistrationHandler_CreateUserValidationFailed(t *testing.T) {
	env := setupAPITestEnv(t)

	form := env.validForm()
	form.Email = "not-an-email"
	form.TeamIDs = nil
	w := env.request(t, http.MethodPost, "/api/users", form, env.loginAdmin(t))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	decode(t, w, &response)
	require.Equal(t, apierrors.ErrCodeValidationFailed, response.Code)
	require.Equal(t, "Invalid email", response.Details[registration.FieldEmail])
	require.Equal(t, "Select at least one team", response.Details[registration.FieldTeams])

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(4), count)
}

func TestRegistrationHandler_CreateUserDuplicateEmail(t *testing.T) {
	env := setupAPITestEnv(t)

	form := env.validForm()
	form.Email = env.org.Regular.Email
	w := env.request(t, http.MethodPost, "/api/users", form, env.loginAdmin(t))
	require.Equal(t, http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	decode(t, w, &apiErr)
	require.Equal(t, apierrors.ErrCodeConflict, apiErr.Code)
}

func TestRegistrationHandler_CreateUserIneligibleSupervisor(t *testing.T) {
	env := setupAPITestEnv(t)

	form := env.validForm()
	form.ProfileType = models.ProfileLeader
	w := env.request(t, http.MethodPost, "/api/users", form, env.loginAdmin(t))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Details map[string]string `json:"details"`
	}
	decode(t, w, &response)
	require.Contains(t, response.Details, registration.FieldReportsTo)
}

func TestRegistrationHandler_ListUsers(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodGet, "/api/users?page=2&limit=3", nil, env.loginAdmin(t))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserListResponse
	decode(t, w, &response)
	require.Equal(t, int64(4), response.Pagination.Total)
	require.Equal(t, 2, response.Pagination.Page)
	require.Equal(t, 3, response.Pagination.Limit)
	require.Len(t, response.Users, 1)
}

func TestRegistrationHandler_CreateUserInconsistentCascade(t *testing.T) {
	env := setupAPITestEnv(t)

	form := env.validForm()
	form.DepartmentID = env.org.Sales.ID
	form.PositionID = env.org.AccountsSpecial.ID
	w := env.request(t, http.MethodPost, "/api/users", form, env.loginAdmin(t))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	decode(t, w, &response)
	require.Equal(t, apierrors.ErrCodeValidationFailed, response.Code)
	require.Contains(t, response.Details, registration.FieldTrackID)
	require.Contains(t, response.Details, registration.FieldPositionID)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(4), count)
}

func TestRegistrationHandler_TransitionPhoneMask(t *testing.T) {
	env := setupAPITestEnv(t)

	form := env.validForm()
	form.Phone = ""
	w := env.request(t, http.MethodPost, "/api/registration/transition", dto.TransitionRequest{
		Form:  form,
		Event: registration.Event{Type: registration.PhoneEntered, Phone: "11912345678"},
	}, env.loginAdmin(t))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TransitionResponse
	decode(t, w, &response)
	require.Equal(t, "(11) 91234-5678", response.Form.Phone)
	require.Equal(t, env.org.BackendDev.ID, response.Form.PositionID)
}
