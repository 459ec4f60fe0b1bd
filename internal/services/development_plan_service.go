package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound      = errors.New("development plan not found")
	ErrEmployeeRequired  = errors.New("select an employee")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrPlanItemsRequired = errors.New("add at least one development item")
	ErrInvalidHorizon    = errors.New("horizon must be short, medium or long")
	ErrInvalidItemStatus = errors.New("status must be between 1 and 5")
)

// PlanItemInput is one development action as submitted.
type PlanItemInput struct {
	Horizon         models.PlanHorizon
	Competency      string
	Schedule        string
	HowToDevelop    string
	ExpectedResults string
	Status          models.ItemStatus
	Notes           string
}

type SavePlanInput struct {
	EmployeeID  uint64
	CreatedByID uint64
	Period      string
	Items       []PlanItemInput
}

// DevelopmentPlanService stores individual development plans.
type DevelopmentPlanService struct {
	planRepo repository.DevelopmentPlanRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewDevelopmentPlanService(planRepo repository.DevelopmentPlanRepository, userRepo repository.UserRepository) *DevelopmentPlanService {
	return &DevelopmentPlanService{
		planRepo: planRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// DefaultPeriod is the current year followed by the next one, e.g. 2026-2027.
func DefaultPeriod(now time.Time) string {
	return fmt.Sprintf("%d-%d", now.Year(), now.Year()+1)
}

// Save creates a plan for an existing employee.
func (s *DevelopmentPlanService) Save(ctx context.Context, input SavePlanInput) (*models.DevelopmentPlan, error) {
	if input.EmployeeID == 0 {
		return nil, ErrEmployeeRequired
	}
	if _, err := s.userRepo.FindByID(ctx, input.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	items, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	plan := &models.DevelopmentPlan{
		EmployeeID:  input.EmployeeID,
		CreatedByID: input.CreatedByID,
		Period:      s.period(input.Period),
		Items:       items,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create development plan: %w", err)
	}
	return plan, nil
}

// GetLatest returns the most recent plan of an employee.
func (s *DevelopmentPlanService) GetLatest(ctx context.Context, employeeID uint64) (*models.DevelopmentPlan, error) {
	plan, err := s.planRepo.FindLatestByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find development plan: %w", err)
	}
	return plan, nil
}

type UpdatePlanInput struct {
	Period string
	Items  []PlanItemInput
}

// Update replaces the period and every item of a plan.
func (s *DevelopmentPlanService) Update(ctx context.Context, id uint64, input UpdatePlanInput) (*models.DevelopmentPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find development plan: %w", err)
	}

	items, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	if p := strings.TrimSpace(input.Period); p != "" {
		plan.Period = p
	}
	plan.Items = items

	if err := s.planRepo.ReplaceItems(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update development plan: %w", err)
	}
	return plan, nil
}

func (s *DevelopmentPlanService) period(p string) string {
	if p = strings.TrimSpace(p); p != "" {
		return p
	}
	return DefaultPeriod(s.now())
}

// buildItems validates the items and assigns ids and per-horizon order.
func buildItems(inputs []PlanItemInput) ([]models.DevelopmentPlanItem, error) {
	if len(inputs) == 0 {
		return nil, ErrPlanItemsRequired
	}

	order := map[models.PlanHorizon]int{}
	items := make([]models.DevelopmentPlanItem, 0, len(inputs))
	for _, in := range inputs {
		if !in.Horizon.Valid() {
			return nil, ErrInvalidHorizon
		}
		status := in.Status
		if status == 0 {
			status = models.StatusNotStarted
		}
		if !status.Valid() {
			return nil, ErrInvalidItemStatus
		}

		items = append(items, models.DevelopmentPlanItem{
			ID:              uuid.NewString(),
			Horizon:         in.Horizon,
			SortOrder:       order[in.Horizon],
			Competency:      strings.TrimSpace(in.Competency),
			Schedule:        strings.TrimSpace(in.Schedule),
			HowToDevelop:    in.HowToDevelop,
			ExpectedResults: in.ExpectedResults,
			Status:          status,
			Notes:           in.Notes,
		})
		order[in.Horizon]++
	}
	return items, nil
}
