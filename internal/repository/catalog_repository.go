package repository

import (
	"context"

	"github.com/yukikurage/talent-registration-api/internal/models"
	"gorm.io/gorm"
)

// GormCatalogRepository is a GORM implementation of CatalogRepository
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormCatalogRepository) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).Preload("Department").Order("name").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *GormCatalogRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var deps []models.Department
	if err := r.db.WithContext(ctx).Order("name").Find(&deps).Error; err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *GormCatalogRepository) ListTracks(ctx context.Context) ([]models.CareerTrack, error) {
	var tracks []models.CareerTrack
	if err := r.db.WithContext(ctx).Order("name").Find(&tracks).Error; err != nil {
		return nil, err
	}
	return tracks, nil
}

func (r *GormCatalogRepository) ListTrackPositions(ctx context.Context) ([]models.TrackPosition, error) {
	var positions []models.TrackPosition
	if err := r.db.WithContext(ctx).Order("order_index").Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *GormCatalogRepository) FindJobPositionsByIDs(ctx context.Context, ids []uint64) ([]models.JobPosition, error) {
	if len(ids) == 0 {
		return []models.JobPosition{}, nil
	}
	var positions []models.JobPosition
	if err := r.db.WithContext(ctx).
		Select("id", "name", "code", "description").
		Where("id IN ?", ids).
		Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// CreateDepartment creates a new department
func (r *GormCatalogRepository) CreateDepartment(ctx context.Context, dep *models.Department) error {
	return r.db.WithContext(ctx).Create(dep).Error
}

// FindDepartment finds a department by ID
func (r *GormCatalogRepository) FindDepartment(ctx context.Context, id uint64) (*models.Department, error) {
	var dep models.Department
	if err := r.db.WithContext(ctx).First(&dep, id).Error; err != nil {
		return nil, err
	}
	return &dep, nil
}

// CreateTrack creates a new career track
func (r *GormCatalogRepository) CreateTrack(ctx context.Context, track *models.CareerTrack) error {
	return r.db.WithContext(ctx).Omit("Department").Create(track).Error
}

// FindTrack finds a career track by ID
func (r *GormCatalogRepository) FindTrack(ctx context.Context, id uint64) (*models.CareerTrack, error) {
	var track models.CareerTrack
	if err := r.db.WithContext(ctx).First(&track, id).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

// CreateJobPosition creates a new job position
func (r *GormCatalogRepository) CreateJobPosition(ctx context.Context, pos *models.JobPosition) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

// FindJobPosition finds a job position by ID
func (r *GormCatalogRepository) FindJobPosition(ctx context.Context, id uint64) (*models.JobPosition, error) {
	var pos models.JobPosition
	if err := r.db.WithContext(ctx).First(&pos, id).Error; err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *GormCatalogRepository) ListJobPositions(ctx context.Context) ([]models.JobPosition, error) {
	var positions []models.JobPosition
	if err := r.db.WithContext(ctx).Order("name").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// CreateTrackPosition links a job position to a track
func (r *GormCatalogRepository) CreateTrackPosition(ctx context.Context, tp *models.TrackPosition) error {
	return r.db.WithContext(ctx).Omit("Track", "Position").Create(tp).Error
}

// FindTrackPosition finds a track position by ID
func (r *GormCatalogRepository) FindTrackPosition(ctx context.Context, id uint64) (*models.TrackPosition, error) {
	var tp models.TrackPosition
	if err := r.db.WithContext(ctx).First(&tp, id).Error; err != nil {
		return nil, err
	}
	return &tp, nil
}

// CreateTeam creates a new team
func (r *GormCatalogRepository) CreateTeam(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Omit("Department").Create(team).Error
}
