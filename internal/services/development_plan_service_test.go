package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"github.com/yukikurage/talent-registration-api/internal/testutil"
)

func TestDevelopmentPlanService_SaveAndUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.SeedOrg(t, db)
	svc := NewDevelopmentPlanService(repository.NewDevelopmentPlanRepository(db), repository.NewUserRepository(db))
	svc.now = func() time.Time { return testNow }
	ctx := context.Background()

	plan, err := svc.Save(ctx, SavePlanInput{
		EmployeeID:  org.Regular.ID,
		CreatedByID: org.Leader.ID,
		Items: []PlanItemInput{
			{Horizon: models.HorizonShort, Competency: "Go"},
			{Horizon: models.HorizonLong, Competency: "Architecture", Status: models.StatusStarted},
			{Horizon: models.HorizonShort, Competency: "Testing", Status: models.StatusDone},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "2026-2027", plan.Period)
	require.Len(t, plan.Items, 3)
	for _, it := range plan.Items {
		_, err := uuid.Parse(it.ID)
		require.NoError(t, err)
	}
	require.Equal(t, models.StatusNotStarted, plan.Items[0].Status)
	require.Equal(t, 1, plan.Items[2].SortOrder)

	latest, err := svc.GetLatest(ctx, org.Regular.ID)
	require.NoError(t, err)
	require.Equal(t, plan.ID, latest.ID)
	require.InDelta(t, 33.33, latest.Progress(), 0.01)

	updated, err := svc.Update(ctx, plan.ID, UpdatePlanInput{
		Period: "2026-2028",
		Items:  []PlanItemInput{{Horizon: models.HorizonMedium, Competency: "Mentoring", Status: models.StatusDone}},
	})
	require.NoError(t, err)
	require.Equal(t, "2026-2028", updated.Period)

	latest, err = svc.GetLatest(ctx, org.Regular.ID)
	require.NoError(t, err)
	require.Len(t, latest.Items, 1)
	require.Equal(t, 100.0, latest.Progress())
}

func TestDevelopmentPlanService_Errors(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.SeedOrg(t, db)
	svc := NewDevelopmentPlanService(repository.NewDevelopmentPlanRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()
	item := []PlanItemInput{{Horizon: models.HorizonShort, Competency: "Go"}}

	_, err := svc.Save(ctx, SavePlanInput{Items: item})
	require.ErrorIs(t, err, ErrEmployeeRequired)

	_, err = svc.Save(ctx, SavePlanInput{EmployeeID: 9999, Items: item})
	require.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = svc.Save(ctx, SavePlanInput{EmployeeID: org.Regular.ID})
	require.ErrorIs(t, err, ErrPlanItemsRequired)

	_, err = svc.Save(ctx, SavePlanInput{EmployeeID: org.Regular.ID, Items: []PlanItemInput{{Horizon: "someday"}}})
	require.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = svc.Save(ctx, SavePlanInput{EmployeeID: org.Regular.ID, Items: []PlanItemInput{{Horizon: models.HorizonShort, Status: 9}}})
	require.ErrorIs(t, err, ErrInvalidItemStatus)

	_, err = svc.GetLatest(ctx, org.Leader.ID)
	require.ErrorIs(t, err, ErrPlanNotFound)

	_, err = svc.Update(ctx, 9999, UpdatePlanInput{Items: item})
	require.ErrorIs(t, err, ErrPlanNotFound)
}
