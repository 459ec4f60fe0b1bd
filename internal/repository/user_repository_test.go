package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/testutil"
	"github.com/yukikurage/talent-registration-api/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestTeamRepository_AddMembers(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.SeedOrg(t, db)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddMembers(ctx, org.Regular.ID, []uint64{org.Growth.ID, org.Platform.ID}))

	ids, err := repo.ListTeamIDsByUserID(ctx, org.Regular.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{org.Platform.ID, org.Growth.ID}, ids)

	// No teams is a no-op.
	require.NoError(t, repo.AddMembers(ctx, org.Leader.ID, nil))
	ids, err = repo.ListTeamIDsByUserID(ctx, org.Leader.ID)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestTeamRepository_AddMembers_InsertFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `team_members`").WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	err = NewTeamRepository(db).AddMembers(context.Background(), 7, []uint64{1, 2})
	require.ErrorIs(t, err, ErrAddTeamMembers)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateFindDelete(t *testing.T) {
	db := testutil.NewDB(t)
	org := testutil.SeedOrg(t, db)
	repo := NewUserRepository(db)
	teams := NewTeamRepository(db)
	ctx := context.Background()

	user := &models.User{
		Email:        "new@example.com",
		PasswordHash: "hashed",
		Name:         "New Hire",
		InternLevel:  models.LevelB,
		ContractType: models.ContractPJ,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	found, err := repo.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)
	require.Equal(t, models.LevelB, found.InternLevel)
	require.Equal(t, models.ContractPJ, found.ContractType)

	require.NoError(t, teams.AddMembers(ctx, user.ID, []uint64{org.Platform.ID}))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err = repo.FindByID(ctx, user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ids, err := teams.ListTeamIDsByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, ids)

	// The e-mail is free again after a hard delete.
	again := &models.User{Email: "new@example.com", PasswordHash: "hashed", Name: "Again"}
	require.NoError(t, repo.Create(ctx, again))
}

func TestUserRepository_List(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedOrg(t, db)
	repo := NewUserRepository(db)

	users, total, err := repo.List(context.Background(), utils.PaginationParams{Page: 1, Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	require.Equal(t, "Dana Director", users[0].Name)
	require.Equal(t, "Lee Leader", users[1].Name)
}
