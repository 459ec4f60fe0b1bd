package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/talent-registration-api/internal/constants"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// ProvisionInput is the normalized profile of a new account. Optional fields
// are nil when absent.
type ProvisionInput struct {
	Email        string
	Password     string
	Name         string
	Position     string
	Profile      models.ProfileType
	Phone        *string
	BirthDate    *time.Time
	JoinDate     *time.Time
	ProfileImage *string
	ReportsTo    *uint64
	DepartmentID *uint64
	TrackID      *uint64
	PositionID   *uint64
	InternLevel  models.InternLevel
	ContractType models.ContractType
}

// ProvisioningService creates login-capable accounts. It never reads or
// writes the caller's session.
type ProvisioningService struct {
	userRepo repository.UserRepository
	log      *logrus.Logger
}

func NewProvisioningService(userRepo repository.UserRepository, log *logrus.Logger) *ProvisioningService {
	return &ProvisioningService{
		userRepo: userRepo,
		log:      log,
	}
}

// CreateUserWithAuth stores the identity and the profile in one insert.
func (s *ProvisioningService) CreateUserWithAuth(ctx context.Context, input ProvisionInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(input.Name),
		Position:     input.Position,
		IsLeader:     input.Profile.IsLeader(),
		IsDirector:   input.Profile.IsDirector(),
		Phone:        input.Phone,
		BirthDate:    input.BirthDate,
		JoinDate:     input.JoinDate,
		ProfileImage: input.ProfileImage,
		ReportsTo:    input.ReportsTo,
		DepartmentID: input.DepartmentID,
		TrackID:      input.TrackID,
		PositionID:   input.PositionID,
		InternLevel:  input.InternLevel,
		ContractType: input.ContractType,
	}
	if user.InternLevel == "" {
		user.InternLevel = models.DefaultInternLevel
	}
	if user.ContractType == "" {
		user.ContractType = models.ContractCLT
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.WithError(err).WithField("email", email).Error("Failed to insert user")
		return nil, ErrFailedToCreateUser
	}

	return user, nil
}

// DeleteUser permanently removes an account.
func (s *ProvisioningService) DeleteUser(ctx context.Context, id uint64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

// Authenticate verifies credentials and returns the authenticated user.
func (s *ProvisioningService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *ProvisioningService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// EnsureBootstrapDirector creates the first director when no user exists so
// that somebody can log in and register the rest. It returns nil, nil when
// users already exist or no email is configured.
func (s *ProvisioningService) EnsureBootstrapDirector(ctx context.Context, email, password, name string) (*models.User, error) {
	if email == "" {
		return nil, nil
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil, nil
	}
	if name == "" {
		name = "Director"
	}

	now := time.Now()
	joined := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	user, err := s.CreateUserWithAuth(ctx, ProvisionInput{
		Email:    email,
		Password: password,
		Name:     name,
		Profile:  models.ProfileDirector,
		JoinDate: &joined,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("Bootstrap director created")
	return user, nil
}
