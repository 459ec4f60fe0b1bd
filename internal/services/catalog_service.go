package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrTrackNotFound       = errors.New("career track not found")
	ErrJobPositionNotFound = errors.New("job position not found")
	ErrNameRequired        = errors.New("name cannot be empty")
	ErrCodeRequired        = errors.New("code cannot be empty")
	ErrCodeTaken           = errors.New("job position code already exists")
)

// CatalogService manages the organization taxonomy behind the registration
// form. Every successful write refreshes the reference data.
type CatalogService struct {
	repo    repository.CatalogRepository
	refresh func(ctx context.Context)
}

// NewCatalogService creates a CatalogService. refresh may be nil.
func NewCatalogService(repo repository.CatalogRepository, refresh func(ctx context.Context)) *CatalogService {
	return &CatalogService{
		repo:    repo,
		refresh: refresh,
	}
}

func (s *CatalogService) changed(ctx context.Context) {
	if s.refresh != nil {
		s.refresh(ctx)
	}
}

type CreateDepartmentInput struct {
	Name        string
	Description *string
}

func (s *CatalogService) CreateDepartment(ctx context.Context, input CreateDepartmentInput) (*models.Department, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	dep := &models.Department{Name: name, Description: input.Description}
	if err := s.repo.CreateDepartment(ctx, dep); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	s.changed(ctx)
	return dep, nil
}

func (s *CatalogService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.repo.ListDepartments(ctx)
}

type CreateTrackInput struct {
	Name         string
	Description  *string
	DepartmentID uint64
}

// CreateTrack adds a career track to an existing department.
func (s *CatalogService) CreateTrack(ctx context.Context, input CreateTrackInput) (*models.CareerTrack, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.repo.FindDepartment(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}

	track := &models.CareerTrack{Name: name, Description: input.Description, DepartmentID: input.DepartmentID}
	if err := s.repo.CreateTrack(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to create track: %w", err)
	}
	s.changed(ctx)
	return track, nil
}

func (s *CatalogService) ListTracks(ctx context.Context) ([]models.CareerTrack, error) {
	return s.repo.ListTracks(ctx)
}

type CreateJobPositionInput struct {
	Name        string
	Code        string
	Description *string
}

func (s *CatalogService) CreateJobPosition(ctx context.Context, input CreateJobPositionInput) (*models.JobPosition, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if name == "" {
		return nil, ErrNameRequired
	}
	if code == "" {
		return nil, ErrCodeRequired
	}

	pos := &models.JobPosition{Name: name, Code: code, Description: input.Description}
	if err := s.repo.CreateJobPosition(ctx, pos); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("failed to create job position: %w", err)
	}
	s.changed(ctx)
	return pos, nil
}

func (s *CatalogService) ListJobPositions(ctx context.Context) ([]models.JobPosition, error) {
	return s.repo.ListJobPositions(ctx)
}

type CreateTrackPositionInput struct {
	TrackID    uint64
	PositionID uint64
	ClassID    *string
	BaseSalary float64
	OrderIndex int
	Active     *bool
}

// CreateTrackPosition places an existing job position on an existing track.
func (s *CatalogService) CreateTrackPosition(ctx context.Context, input CreateTrackPositionInput) (*models.TrackPosition, error) {
	if _, err := s.repo.FindTrack(ctx, input.TrackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to find track: %w", err)
	}
	pos, err := s.repo.FindJobPosition(ctx, input.PositionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobPositionNotFound
		}
		return nil, fmt.Errorf("failed to find job position: %w", err)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	tp := &models.TrackPosition{
		TrackID:    input.TrackID,
		PositionID: input.PositionID,
		ClassID:    input.ClassID,
		BaseSalary: input.BaseSalary,
		OrderIndex: input.OrderIndex,
		Active:     active,
	}
	if err := s.repo.CreateTrackPosition(ctx, tp); err != nil {
		return nil, fmt.Errorf("failed to create track position: %w", err)
	}
	tp.Position = pos
	s.changed(ctx)
	return tp, nil
}

func (s *CatalogService) ListTrackPositions(ctx context.Context) ([]models.TrackPosition, error) {
	return s.repo.ListTrackPositions(ctx)
}

type CreateTeamInput struct {
	Name         string
	DepartmentID *uint64
}

func (s *CatalogService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	var dep *models.Department
	if input.DepartmentID != nil {
		var err error
		dep, err = s.repo.FindDepartment(ctx, *input.DepartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to find department: %w", err)
		}
	}

	team := &models.Team{Name: name, DepartmentID: input.DepartmentID}
	if err := s.repo.CreateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	team.Department = dep
	s.changed(ctx)
	return team, nil
}

func (s *CatalogService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.repo.ListTeams(ctx)
}
