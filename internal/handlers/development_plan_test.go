package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/dto"
	apierrors "github.com/yukikurage/talent-registration-api/internal/errors"
	"github.com/yukikurage/talent-registration-api/internal/models"
)

func TestDevelopmentPlanHandler_Lifecycle(t *testing.T) {
	env := setupAPITestEnv(t)
	cookies := env.loginAdmin(t)

	w := env.request(t, http.MethodPost, "/api/development-plans", map[string]interface{}{
		"employee_id": env.org.Regular.ID,
		"period":      "2026-2027",
		"items": []map[string]interface{}{
			{"horizon": "short", "competency": "Communication", "how_to_develop": "Lead weekly demos"},
			{"horizon": "long", "competency": "Architecture", "status": 5},
		},
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.DevelopmentPlanDTO
	decode(t, w, &created)
	require.Equal(t, env.org.Regular.ID, created.EmployeeID)
	require.Equal(t, env.admin.ID, created.CreatedByID)
	require.Len(t, created.ShortTerm, 1)
	require.Empty(t, created.MediumTerm)
	require.Len(t, created.LongTerm, 1)
	require.Equal(t, models.StatusNotStarted, created.ShortTerm[0].Status)
	require.Equal(t, 50.0, created.Progress)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/development-plans/employee/%d", env.org.Regular.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var latest dto.DevelopmentPlanDTO
	decode(t, w, &latest)
	require.Equal(t, created.ID, latest.ID)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/development-plans/%d", created.ID), map[string]interface{}{
		"items": []map[string]interface{}{
			{"horizon": "medium", "competency": "Mentoring", "status": 5},
		},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated dto.DevelopmentPlanDTO
	decode(t, w, &updated)
	require.Empty(t, updated.ShortTerm)
	require.Len(t, updated.MediumTerm, 1)
	require.Equal(t, 100.0, updated.Progress)
}

func TestDevelopmentPlanHandler_Errors(t *testing.T) {
	env := setupAPITestEnv(t)
	cookies := env.loginAdmin(t)

	w := env.request(t, http.MethodGet, "/api/development-plans/employee/abc", nil, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/development-plans/employee/%d", env.org.Leader.ID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodPost, "/api/development-plans", map[string]interface{}{
		"employee_id": 999,
		"items":       []map[string]interface{}{{"horizon": "short", "competency": "Go"}},
	}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodPut, "/api/development-plans/999", map[string]interface{}{
		"items": []map[string]interface{}{{"horizon": "short", "competency": "Go"}},
	}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDevelopmentPlanHandler_SuggestWithoutAI(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodPost, "/api/development-plans/suggest", map[string]string{
		"feedback": "Needs to speak up in meetings",
	}, env.loginAdmin(t))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var apiErr apierrors.APIError
	decode(t, w, &apiErr)
	require.Equal(t, apierrors.ErrCodeServiceUnavailable, apiErr.Code)
}
