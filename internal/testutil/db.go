// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/database"
	"github.com/yukikurage/talent-registration-api/internal/logging"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to t.
// A single connection keeps every goroutine on the same in-memory schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, logging.Discard()))
	return db
}

// Org is a small seeded taxonomy: two departments, tracks, positions and teams.
type Org struct {
	Engineering models.Department
	Sales       models.Department

	Backend  models.CareerTrack
	Frontend models.CareerTrack
	Accounts models.CareerTrack

	Developer  models.JobPosition
	Specialist models.JobPosition

	BackendDev      models.TrackPosition
	BackendLead     models.TrackPosition
	FrontendDev     models.TrackPosition
	AccountsSpecial models.TrackPosition

	Platform models.Team
	Growth   models.Team

	Director models.User
	Leader   models.User
	Regular  models.User
}

// SeedOrg inserts the Org fixture.
func SeedOrg(t *testing.T, db *gorm.DB) Org {
	t.Helper()

	var o Org
	o.Engineering = models.Department{Name: "Engineering"}
	o.Sales = models.Department{Name: "Sales"}
	require.NoError(t, db.Create(&o.Engineering).Error)
	require.NoError(t, db.Create(&o.Sales).Error)

	o.Backend = models.CareerTrack{Name: "Backend", DepartmentID: o.Engineering.ID}
	o.Frontend = models.CareerTrack{Name: "Frontend", DepartmentID: o.Engineering.ID}
	o.Accounts = models.CareerTrack{Name: "Accounts", DepartmentID: o.Sales.ID}
	require.NoError(t, db.Create(&o.Backend).Error)
	require.NoError(t, db.Create(&o.Frontend).Error)
	require.NoError(t, db.Create(&o.Accounts).Error)

	o.Developer = models.JobPosition{Name: "Software Developer", Code: "DEV"}
	o.Specialist = models.JobPosition{Name: "Account Specialist", Code: "ACC"}
	require.NoError(t, db.Create(&o.Developer).Error)
	require.NoError(t, db.Create(&o.Specialist).Error)

	o.BackendDev = models.TrackPosition{TrackID: o.Backend.ID, PositionID: o.Developer.ID, OrderIndex: 1, BaseSalary: 5000, Active: true}
	o.BackendLead = models.TrackPosition{TrackID: o.Backend.ID, PositionID: o.Developer.ID, OrderIndex: 2, BaseSalary: 9000, Active: true}
	o.FrontendDev = models.TrackPosition{TrackID: o.Frontend.ID, PositionID: o.Developer.ID, OrderIndex: 1, BaseSalary: 5000, Active: true}
	o.AccountsSpecial = models.TrackPosition{TrackID: o.Accounts.ID, PositionID: o.Specialist.ID, OrderIndex: 1, BaseSalary: 4000, Active: true}
	for _, tp := range []*models.TrackPosition{&o.BackendDev, &o.BackendLead, &o.FrontendDev, &o.AccountsSpecial} {
		require.NoError(t, db.Create(tp).Error)
	}

	o.Platform = models.Team{Name: "Platform", DepartmentID: &o.Engineering.ID}
	o.Growth = models.Team{Name: "Growth", DepartmentID: &o.Sales.ID}
	require.NoError(t, db.Create(&o.Platform).Error)
	require.NoError(t, db.Create(&o.Growth).Error)

	joined := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)
	o.Director = models.User{Email: "director@example.com", PasswordHash: "hashed", Name: "Dana Director", IsLeader: true, IsDirector: true, JoinDate: &joined, InternLevel: models.LevelA, ContractType: models.ContractCLT}
	require.NoError(t, db.Create(&o.Director).Error)
	o.Leader = models.User{Email: "leader@example.com", PasswordHash: "hashed", Name: "Lee Leader", IsLeader: true, ReportsTo: &o.Director.ID, JoinDate: &joined, InternLevel: models.LevelA, ContractType: models.ContractCLT}
	require.NoError(t, db.Create(&o.Leader).Error)
	o.Regular = models.User{Email: "regular@example.com", PasswordHash: "hashed", Name: "Rae Regular", ReportsTo: &o.Leader.ID, JoinDate: &joined, InternLevel: models.LevelA, ContractType: models.ContractCLT}
	require.NoError(t, db.Create(&o.Regular).Error)

	return o
}
