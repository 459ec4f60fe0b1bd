package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/talent-registration-api/internal/catalog"
	"github.com/yukikurage/talent-registration-api/internal/metrics"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/registration"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrTeamMembershipFailed is returned when the memberships of a freshly
	// created user could not be written. The user has been removed again.
	ErrTeamMembershipFailed = errors.New("failed to save team memberships")
	ErrRollbackFailed       = errors.New("failed to remove user after membership failure")
)

// ValidationError carries the field errors of a rejected form.
type ValidationError struct {
	Fields registration.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("registration form has %d invalid field(s)", len(e.Fields))
}

// AccountProvisioner creates and removes login-capable accounts without
// touching the acting user's session.
type AccountProvisioner interface {
	CreateUserWithAuth(ctx context.Context, input ProvisionInput) (*models.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

// ReferenceCache is the part of the reference data store the orchestrator
// reads and refreshes.
type ReferenceCache interface {
	Snapshot() catalog.ReferenceData
	ReloadUsers(ctx context.Context)
}

// CascadeLookup reads the rows the selected track and position point at.
type CascadeLookup interface {
	FindTrack(ctx context.Context, id uint64) (*models.CareerTrack, error)
	FindTrackPosition(ctx context.Context, id uint64) (*models.TrackPosition, error)
}

// RegistrationService turns a validated form into a user and its team
// memberships.
type RegistrationService struct {
	validator   *registration.Validator
	provisioner AccountProvisioner
	userRepo    repository.UserRepository
	catalog     CascadeLookup
	teamRepo    repository.TeamRepository
	cache       ReferenceCache
	metrics     *metrics.Metrics
	log         *logrus.Logger
}

func NewRegistrationService(
	validator *registration.Validator,
	provisioner AccountProvisioner,
	userRepo repository.UserRepository,
	catalogRepo CascadeLookup,
	teamRepo repository.TeamRepository,
	cache ReferenceCache,
	m *metrics.Metrics,
	log *logrus.Logger,
) *RegistrationService {
	return &RegistrationService{
		validator:   validator,
		provisioner: provisioner,
		userRepo:    userRepo,
		catalog:     catalogRepo,
		teamRepo:    teamRepo,
		cache:       cache,
		metrics:     m,
		log:         log,
	}
}

// Validate checks the form without side effects.
func (s *RegistrationService) Validate(form registration.Form) registration.Errors {
	return s.validator.Validate(form)
}

// Submit validates the form, creates the user, writes its team memberships
// and refreshes the cached user list. Memberships are only written after the
// user exists; if they fail the user is deleted again.
func (s *RegistrationService) Submit(ctx context.Context, form registration.Form) (*models.User, error) {
	// A submitted form without a profile registers a regular user, so it
	// must pass the regular user's rules.
	if form.ProfileType == "" {
		form.ProfileType = models.ProfileRegular
	}

	if errs := s.validator.Validate(form); !errs.Valid() {
		s.metrics.ObserveRegistration(metrics.OutcomeInvalid)
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.checkCascade(ctx, form); err != nil {
		s.metrics.ObserveRegistration(metrics.OutcomeInvalid)
		return nil, err
	}

	if err := s.checkSupervisor(ctx, form); err != nil {
		s.metrics.ObserveRegistration(metrics.OutcomeInvalid)
		return nil, err
	}

	input := s.normalize(form)
	user, err := s.provisioner.CreateUserWithAuth(ctx, input)
	if err != nil {
		s.metrics.ObserveRegistration(metrics.OutcomeProvisionFailed)
		s.log.WithError(err).WithField("email", input.Email).Warn("User provisioning failed")
		return nil, err
	}

	logger := s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email})

	if teamIDs := uniqueIDs(form.TeamIDs); !form.ProfileType.IsDirector() && len(teamIDs) > 0 {
		if err := s.teamRepo.AddMembers(ctx, user.ID, teamIDs); err != nil {
			s.metrics.ObserveRegistration(metrics.OutcomeMembershipFailed)
			logger.WithError(err).Error("Team membership write failed, removing user")
			if derr := s.provisioner.DeleteUser(ctx, user.ID); derr != nil {
				logger.WithError(derr).Error("Failed to remove user after membership failure")
				return nil, fmt.Errorf("%w: %w: %v", ErrTeamMembershipFailed, ErrRollbackFailed, derr)
			}
			return nil, fmt.Errorf("%w: %v", ErrTeamMembershipFailed, err)
		}
	}

	s.cache.ReloadUsers(ctx)
	s.metrics.ObserveRegistration(metrics.OutcomeCreated)
	logger.WithField("profile", form.ProfileType).Info("User registered")
	return user, nil
}

// checkCascade makes sure the track belongs to the selected department and
// the position to the selected track. It reads the database rather than the
// cached lists, which may be stale.
func (s *RegistrationService) checkCascade(ctx context.Context, form registration.Form) error {
	fields := registration.Errors{}

	track, err := s.catalog.FindTrack(ctx, form.TrackID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fields[registration.FieldTrackID] = "Select a track from the selected department"
	case err != nil:
		return fmt.Errorf("failed to load track: %w", err)
	case track.DepartmentID != form.DepartmentID:
		fields[registration.FieldTrackID] = "Select a track from the selected department"
	}

	tp, err := s.catalog.FindTrackPosition(ctx, form.PositionID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fields[registration.FieldPositionID] = "Select a position from the selected track"
	case err != nil:
		return fmt.Errorf("failed to load track position: %w", err)
	case tp.TrackID != form.TrackID:
		fields[registration.FieldPositionID] = "Select a position from the selected track"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// checkSupervisor makes sure reports_to points at a user the profile may
// report to: leaders or directors for regular users, directors otherwise.
func (s *RegistrationService) checkSupervisor(ctx context.Context, form registration.Form) error {
	if form.ReportsTo == 0 {
		return nil
	}

	msg := "Select a director"
	if form.ProfileType == models.ProfileRegular {
		msg = "Select a leader"
	}

	supervisor, err := s.userRepo.FindByID(ctx, form.ReportsTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Fields: registration.Errors{registration.FieldReportsTo: msg}}
		}
		return fmt.Errorf("failed to load supervisor: %w", err)
	}
	if !registration.IsEligibleSupervisor([]models.User{*supervisor}, form.ProfileType, supervisor.ID) {
		return &ValidationError{Fields: registration.Errors{registration.FieldReportsTo: msg}}
	}
	return nil
}

// normalize maps the form to the provisioning payload. Absent optionals
// become nil rather than zero values.
func (s *RegistrationService) normalize(form registration.Form) ProvisionInput {
	input := ProvisionInput{
		Email:        form.NormalizedEmail(),
		Password:     form.Password,
		Name:         strings.TrimSpace(form.Name),
		Profile:      form.ProfileType,
		Phone:        optionalString(form.Phone),
		BirthDate:    optionalDate(form.BirthDate),
		JoinDate:     optionalDate(form.JoinDate),
		ProfileImage: optionalString(form.ProfileImage),
		ReportsTo:    optionalID(form.ReportsTo),
		DepartmentID: optionalID(form.DepartmentID),
		TrackID:      optionalID(form.TrackID),
		PositionID:   optionalID(form.PositionID),
		InternLevel:  form.InternLevel,
		ContractType: form.ContractType,
	}
	if input.InternLevel == "" {
		input.InternLevel = models.DefaultInternLevel
	}
	if input.ContractType == "" {
		input.ContractType = models.ContractCLT
	}

	input.Position = registration.PositionLabel(s.cache.Snapshot().Positions, form.PositionID)
	if input.Position == "" {
		input.Position = strings.TrimSpace(form.Position)
	}
	return input
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func optionalID(id uint64) *uint64 {
	if id == 0 {
		return nil
	}
	return &id
}

func optionalDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(registration.DateLayout, v)
	if err != nil {
		return nil
	}
	return &t
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
