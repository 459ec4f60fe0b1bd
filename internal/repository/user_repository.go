package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/talent-registration-api/internal/database"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrAddTeamMembers is returned when the membership batch insert fails.
	ErrAddTeamMembers = errors.New("team repository: add members failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Teams").Create(user).Error
}

// Delete permanently removes a user and any membership rows pointing at it
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.User{}, id).Error
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by e-mail
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns one page of users ordered by name
func (r *GormUserRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Order("name").Order("id").Scopes(database.Paginate(params)).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// AddMembers inserts one team_members row per team in a single statement
func (r *GormTeamRepository) AddMembers(ctx context.Context, userID uint64, teamIDs []uint64) error {
	if len(teamIDs) == 0 {
		return nil
	}

	members := make([]models.TeamMember, len(teamIDs))
	for i, teamID := range teamIDs {
		members[i] = models.TeamMember{
			TeamID: teamID,
			UserID: userID,
		}
	}

	if err := r.db.WithContext(ctx).Omit("Team", "User").Create(&members).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrAddTeamMembers, err)
	}
	return nil
}

// ListTeamIDsByUserID lists the teams a user belongs to
func (r *GormTeamRepository) ListTeamIDsByUserID(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("user_id = ?", userID).
		Order("team_id").
		Pluck("team_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
