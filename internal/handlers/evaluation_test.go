package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/evaluation"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/services"
)

func TestEvaluationHandler_Summary(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodPost, "/api/evaluations/summary", map[string]interface{}{
		"competencies": []evaluation.Competency{
			{Name: "Communication", Category: "behavioral", Score: 4},
			{Name: "Teamwork", Category: "behavioral", Score: 5},
			{Name: "Go", Category: "technical", Score: 3},
		},
		"potential": 4.5,
	}, env.loginAdmin(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary evaluation.Summary
	decode(t, w, &summary)
	require.Equal(t, 4.5, summary.CategoryScores["behavioral"])
	require.Equal(t, 3.0, summary.CategoryScores["technical"])
	require.Equal(t, 4.0, summary.FinalScore)
	require.Equal(t, "Star", summary.NineBox)
}

func TestEvaluationHandler_SummaryRejectsOutOfRange(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodPost, "/api/evaluations/summary", map[string]interface{}{
		"competencies": []evaluation.Competency{{Name: "Go", Category: "technical", Score: 7}},
		"potential":    3,
	}, env.loginAdmin(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluationHandler_CycleFlow(t *testing.T) {
	env := setupAPITestEnv(t)
	cookies := env.loginAdmin(t)

	w := env.request(t, http.MethodGet, "/api/evaluations/cycles/current", nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodPost, "/api/evaluations/cycles", map[string]interface{}{
		"title":      "2026 H1",
		"start_date": "2026-01-01",
		"end_date":   "2026-06-30",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cycle models.EvaluationCycle
	decode(t, w, &cycle)
	require.Equal(t, models.CycleDraft, cycle.Status)

	// Evaluations need an open cycle.
	selfBody := map[string]interface{}{
		"cycle_id":     cycle.ID,
		"employee_id":  env.org.Regular.ID,
		"competencies": []evaluation.Competency{{Name: "Go", Category: "technical", Score: 4}},
	}
	w = env.request(t, http.MethodPost, "/api/evaluations/self", selfBody, cookies)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/evaluations/cycles/%d/open", cycle.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request(t, http.MethodGet, "/api/evaluations/cycles/current", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	checkURL := fmt.Sprintf("/api/evaluations/check?cycle_id=%d&employee_id=%d&type=self", cycle.ID, env.org.Regular.ID)
	w = env.request(t, http.MethodGet, checkURL, nil, cookies)
	require.JSONEq(t, `{"exists":false}`, w.Body.String())

	w = env.request(t, http.MethodPost, "/api/evaluations/self", selfBody, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request(t, http.MethodGet, checkURL, nil, cookies)
	require.JSONEq(t, `{"exists":true}`, w.Body.String())

	// The session director evaluates when no evaluator is given.
	w = env.request(t, http.MethodPost, "/api/evaluations/leader", map[string]interface{}{
		"cycle_id":        cycle.ID,
		"employee_id":     env.org.Regular.ID,
		"potential_score": 2,
		"competencies": []evaluation.Competency{
			{Name: "Go", Category: "technical", Score: 5},
			{Name: "Communication", Category: "behavioral", Score: 4},
		},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var leader models.Evaluation
	decode(t, w, &leader)
	require.Equal(t, env.admin.ID, leader.EvaluatorID)
	require.Equal(t, 4.5, leader.FinalScore)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/evaluations/employee/%d?cycle_id=%d", env.org.Regular.ID, cycle.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var evs []models.Evaluation
	decode(t, w, &evs)
	require.Len(t, evs, 2)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/evaluations/cycles/%d/nine-box", cycle.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []services.NineBoxEntry
	decode(t, w, &entries)
	require.Len(t, entries, 1)
	require.Equal(t, "Specialist", entries[0].Position)
	require.Equal(t, services.SourceLeader, entries[0].Source)

	w = env.request(t, http.MethodPost, "/api/evaluations/consensus", map[string]interface{}{
		"cycle_id":     cycle.ID,
		"employee_id":  env.org.Regular.ID,
		"meeting_date": "2026-06-15",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var meeting models.ConsensusMeeting
	decode(t, w, &meeting)

	completeURL := fmt.Sprintf("/api/evaluations/consensus/%d/complete", meeting.ID)
	w = env.request(t, http.MethodPut, completeURL, map[string]interface{}{
		"performance_score": 3,
		"potential_score":   5,
		"notes":             "Agreed",
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &meeting)
	require.Equal(t, "Strong Performer", meeting.NineBox)

	w = env.request(t, http.MethodPut, completeURL, map[string]interface{}{
		"performance_score": 3,
		"potential_score":   5,
	}, cookies)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/evaluations/cycles/%d/nine-box", cycle.ID), nil, cookies)
	decode(t, w, &entries)
	require.Len(t, entries, 1)
	require.Equal(t, "Strong Performer", entries[0].Position)
	require.Equal(t, services.SourceConsensus, entries[0].Source)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/evaluations/cycles/%d/dashboard", cycle.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []services.DashboardRow
	decode(t, w, &rows)
	require.Len(t, rows, 2)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/evaluations/cycles/%d/close", cycle.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request(t, http.MethodGet, "/api/evaluations/cycles", nil, cookies)
	var cycles []models.EvaluationCycle
	decode(t, w, &cycles)
	require.Len(t, cycles, 1)
	require.Equal(t, models.CycleClosed, cycles[0].Status)
}

func TestEvaluationHandler_Errors(t *testing.T) {
	env := setupAPITestEnv(t)
	cookies := env.loginAdmin(t)

	tests := []struct {
		name   string
		method string
		url    string
		body   interface{}
		want   int
	}{
		{"bad cycle dates", http.MethodPost, "/api/evaluations/cycles", map[string]string{"title": "H1", "start_date": "01/01/2026", "end_date": "2026-06-30"}, http.StatusBadRequest},
		{"end before start", http.MethodPost, "/api/evaluations/cycles", map[string]string{"title": "H1", "start_date": "2026-06-30", "end_date": "2026-01-01"}, http.StatusBadRequest},
		{"unknown cycle", http.MethodPut, "/api/evaluations/cycles/9999/open", nil, http.StatusNotFound},
		{"non numeric cycle", http.MethodGet, "/api/evaluations/cycles/abc/nine-box", nil, http.StatusBadRequest},
		{"check without employee", http.MethodGet, "/api/evaluations/check?cycle_id=1&type=self", nil, http.StatusBadRequest},
		{"check with unknown type", http.MethodGet, "/api/evaluations/check?cycle_id=1&employee_id=1&type=peer", nil, http.StatusBadRequest},
		{"unknown consensus", http.MethodPut, "/api/evaluations/consensus/9999/complete", map[string]float64{"performance_score": 3, "potential_score": 3}, http.StatusNotFound},
		{"consensus score out of range", http.MethodPut, "/api/evaluations/consensus/1/complete", map[string]float64{"performance_score": 0, "potential_score": 3}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(t, tt.method, tt.url, tt.body, cookies)
			require.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
