package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"github.com/yukikurage/talent-registration-api/internal/testutil"
)

func TestCatalogService_CreateHierarchy(t *testing.T) {
	db := testutil.NewDB(t)
	refreshed := 0
	svc := NewCatalogService(repository.NewCatalogRepository(db), func(context.Context) { refreshed++ })
	ctx := context.Background()

	dep, err := svc.CreateDepartment(ctx, CreateDepartmentInput{Name: " Operations "})
	require.NoError(t, err)
	require.Equal(t, "Operations", dep.Name)

	track, err := svc.CreateTrack(ctx, CreateTrackInput{Name: "Logistics", DepartmentID: dep.ID})
	require.NoError(t, err)

	pos, err := svc.CreateJobPosition(ctx, CreateJobPositionInput{Name: "Analyst", Code: "an"})
	require.NoError(t, err)
	require.Equal(t, "AN", pos.Code)

	tp, err := svc.CreateTrackPosition(ctx, CreateTrackPositionInput{TrackID: track.ID, PositionID: pos.ID, OrderIndex: 1})
	require.NoError(t, err)
	require.True(t, tp.Active)
	require.Equal(t, "Analyst", tp.Position.Name)

	team, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "Fleet", DepartmentID: &dep.ID})
	require.NoError(t, err)
	require.Equal(t, "Operations", team.Department.Name)

	require.Equal(t, 5, refreshed)

	tracks, err := svc.ListTracks(ctx)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
}

func TestCatalogService_Errors(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.SeedOrg(t, db)
	svc := NewCatalogService(repository.NewCatalogRepository(db), nil)
	ctx := context.Background()

	_, err := svc.CreateDepartment(ctx, CreateDepartmentInput{Name: "  "})
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.CreateTrack(ctx, CreateTrackInput{Name: "Ghost", DepartmentID: 9999})
	require.ErrorIs(t, err, ErrDepartmentNotFound)

	_, err = svc.CreateJobPosition(ctx, CreateJobPositionInput{Name: "Dup", Code: "DEV"})
	require.ErrorIs(t, err, ErrCodeTaken)

	_, err = svc.CreateTrackPosition(ctx, CreateTrackPositionInput{TrackID: 9999, PositionID: org.Developer.ID})
	require.ErrorIs(t, err, ErrTrackNotFound)

	_, err = svc.CreateTrackPosition(ctx, CreateTrackPositionInput{TrackID: org.Backend.ID, PositionID: 9999})
	require.ErrorIs(t, err, ErrJobPositionNotFound)

	missing := uint64(9999)
	_, err = svc.CreateTeam(ctx, CreateTeamInput{Name: "Ghosts", DepartmentID: &missing})
	require.ErrorIs(t, err, ErrDepartmentNotFound)
}
