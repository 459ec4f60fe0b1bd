package repository

import (
	"context"

	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/utils"
)

// CatalogReader is the read side used by the reference data loaders.
type CatalogReader interface {
	// ListUsers returns every user ordered by name
	ListUsers(ctx context.Context) ([]models.User, error)

	// ListTeams returns every team with its department preloaded
	ListTeams(ctx context.Context) ([]models.Team, error)

	// ListDepartments returns every department ordered by name
	ListDepartments(ctx context.Context) ([]models.Department, error)

	// ListTracks returns every career track ordered by name
	ListTracks(ctx context.Context) ([]models.CareerTrack, error)

	// ListTrackPositions returns every track position ordered by order_index
	ListTrackPositions(ctx context.Context) ([]models.TrackPosition, error)

	// FindJobPositionsByIDs returns the job positions whose IDs are given
	FindJobPositionsByIDs(ctx context.Context, ids []uint64) ([]models.JobPosition, error)
}

// CatalogRepository defines the interface for organization taxonomy data access
type CatalogRepository interface {
	CatalogReader

	CreateDepartment(ctx context.Context, dep *models.Department) error
	FindDepartment(ctx context.Context, id uint64) (*models.Department, error)

	CreateTrack(ctx context.Context, track *models.CareerTrack) error
	FindTrack(ctx context.Context, id uint64) (*models.CareerTrack, error)

	CreateJobPosition(ctx context.Context, pos *models.JobPosition) error
	FindJobPosition(ctx context.Context, id uint64) (*models.JobPosition, error)
	ListJobPositions(ctx context.Context) ([]models.JobPosition, error)

	CreateTrackPosition(ctx context.Context, tp *models.TrackPosition) error
	FindTrackPosition(ctx context.Context, id uint64) (*models.TrackPosition, error)

	CreateTeam(ctx context.Context, team *models.Team) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// Delete permanently removes a user
	Delete(ctx context.Context, id uint64) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by e-mail
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns one page of users and the total count
	List(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error)

	// Count returns the number of users
	Count(ctx context.Context) (int64, error)
}

// TeamRepository defines the interface for team membership data access
type TeamRepository interface {
	// AddMembers links a user to every given team
	AddMembers(ctx context.Context, userID uint64, teamIDs []uint64) error

	// ListTeamIDsByUserID lists the teams a user belongs to
	ListTeamIDsByUserID(ctx context.Context, userID uint64) ([]uint64, error)
}

// DevelopmentPlanRepository defines the interface for PDI data access
type DevelopmentPlanRepository interface {
	// Create stores a plan together with its items
	Create(ctx context.Context, plan *models.DevelopmentPlan) error

	// FindByID finds a plan with its items
	FindByID(ctx context.Context, id uint64) (*models.DevelopmentPlan, error)

	// FindLatestByEmployee finds the most recent plan of an employee
	FindLatestByEmployee(ctx context.Context, employeeID uint64) (*models.DevelopmentPlan, error)

	// ReplaceItems updates the plan period and swaps its items atomically
	ReplaceItems(ctx context.Context, plan *models.DevelopmentPlan) error
}

// EvaluationRepository defines the interface for evaluation cycle data access
type EvaluationRepository interface {
	CreateCycle(ctx context.Context, cycle *models.EvaluationCycle) error
	FindCycle(ctx context.Context, id uint64) (*models.EvaluationCycle, error)

	// ListCycles returns every cycle, most recent start date first
	ListCycles(ctx context.Context) ([]models.EvaluationCycle, error)

	// FindLatestCycleByStatus finds the most recently started cycle in a status
	FindLatestCycleByStatus(ctx context.Context, status models.CycleStatus) (*models.EvaluationCycle, error)

	UpdateCycleStatus(ctx context.Context, id uint64, status models.CycleStatus) error

	// FindEvaluation finds the evaluation of a type for an employee in a cycle
	FindEvaluation(ctx context.Context, cycleID, employeeID uint64, typ models.EvaluationType) (*models.Evaluation, error)

	// SaveEvaluation creates or updates an evaluation and replaces its competencies atomically
	SaveEvaluation(ctx context.Context, ev *models.Evaluation) error

	// ListEmployeeEvaluations lists an employee's evaluations, restricted to a cycle unless cycleID is 0
	ListEmployeeEvaluations(ctx context.Context, employeeID, cycleID uint64, typ models.EvaluationType) ([]models.Evaluation, error)

	// ListCycleEvaluations lists every evaluation of a cycle
	ListCycleEvaluations(ctx context.Context, cycleID uint64) ([]models.Evaluation, error)

	CreateConsensus(ctx context.Context, meeting *models.ConsensusMeeting) error
	FindConsensus(ctx context.Context, id uint64) (*models.ConsensusMeeting, error)
	UpdateConsensus(ctx context.Context, meeting *models.ConsensusMeeting) error

	// ListCycleConsensus lists the consensus meetings of a cycle, oldest first
	ListCycleConsensus(ctx context.Context, cycleID uint64) ([]models.ConsensusMeeting, error)
}
