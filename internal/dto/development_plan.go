package dto

import (
	"time"

	"github.com/yukikurage/talent-registration-api/internal/models"
)

// PlanItemDTO represents a development action in API responses
type PlanItemDTO struct {
	ID              string             `json:"id"`
	Horizon         models.PlanHorizon `json:"horizon"`
	Competency      string             `json:"competency"`
	Schedule        string             `json:"schedule"`
	HowToDevelop    string             `json:"how_to_develop"`
	ExpectedResults string             `json:"expected_results"`
	Status          models.ItemStatus  `json:"status"`
	StatusLabel     string             `json:"status_label"`
	Notes           string             `json:"notes"`
}

// DevelopmentPlanDTO represents a PDI with its items grouped by horizon
type DevelopmentPlanDTO struct {
	ID          uint64        `json:"id"`
	EmployeeID  uint64        `json:"employee_id"`
	CreatedByID uint64        `json:"created_by_id"`
	Period      string        `json:"period"`
	Progress    float64       `json:"progress"`
	ShortTerm   []PlanItemDTO `json:"short_term"`
	MediumTerm  []PlanItemDTO `json:"medium_term"`
	LongTerm    []PlanItemDTO `json:"long_term"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ToDevelopmentPlanDTO converts a plan model to DTO
func ToDevelopmentPlanDTO(plan models.DevelopmentPlan) DevelopmentPlanDTO {
	out := DevelopmentPlanDTO{
		ID:          plan.ID,
		EmployeeID:  plan.EmployeeID,
		CreatedByID: plan.CreatedByID,
		Period:      plan.Period,
		Progress:    plan.Progress(),
		ShortTerm:   []PlanItemDTO{},
		MediumTerm:  []PlanItemDTO{},
		LongTerm:    []PlanItemDTO{},
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
	for _, it := range plan.Items {
		item := PlanItemDTO{
			ID:              it.ID,
			Horizon:         it.Horizon,
			Competency:      it.Competency,
			Schedule:        it.Schedule,
			HowToDevelop:    it.HowToDevelop,
			ExpectedResults: it.ExpectedResults,
			Status:          it.Status,
			StatusLabel:     it.Status.Label(),
			Notes:           it.Notes,
		}
		switch it.Horizon {
		case models.HorizonShort:
			out.ShortTerm = append(out.ShortTerm, item)
		case models.HorizonMedium:
			out.MediumTerm = append(out.MediumTerm, item)
		case models.HorizonLong:
			out.LongTerm = append(out.LongTerm, item)
		}
	}
	return out
}
