package models

import "time"

// PlanHorizon groups development actions by delivery window.
type PlanHorizon string

const (
	HorizonShort  PlanHorizon = "short"  // 0-6 months
	HorizonMedium PlanHorizon = "medium" // 6-12 months
	HorizonLong   PlanHorizon = "long"   // 12-24 months
)

func (h PlanHorizon) Valid() bool {
	return h == HorizonShort || h == HorizonMedium || h == HorizonLong
}

// ItemStatus is the 1..5 progress scale of a development action.
type ItemStatus int

const (
	StatusNotStarted ItemStatus = iota + 1
	StatusStarted
	StatusInProgress
	StatusAlmostDone
	StatusDone
)

func (s ItemStatus) Valid() bool {
	return s >= StatusNotStarted && s <= StatusDone
}

func (s ItemStatus) Label() string {
	switch s {
	case StatusStarted:
		return "Started"
	case StatusInProgress:
		return "In progress"
	case StatusAlmostDone:
		return "Almost done"
	case StatusDone:
		return "Done"
	default:
		return "Not started"
	}
}

// DevelopmentPlan is an individual development plan (PDI).
type DevelopmentPlan struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	EmployeeID  uint64    `gorm:"not null;index" json:"employee_id"`
	CreatedByID uint64    `gorm:"not null" json:"created_by_id"`
	Period      string    `gorm:"type:varchar(20);not null" json:"period"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Employee User                  `gorm:"foreignKey:EmployeeID" json:"-"`
	Items    []DevelopmentPlanItem `gorm:"foreignKey:PlanID" json:"items"`
}

type DevelopmentPlanItem struct {
	ID              string      `gorm:"type:varchar(36);primarykey" json:"id"`
	PlanID          uint64      `gorm:"not null;index" json:"plan_id"`
	Horizon         PlanHorizon `gorm:"type:varchar(10);not null" json:"horizon"`
	SortOrder       int         `gorm:"not null;default:0" json:"sort_order"`
	Competency      string      `gorm:"type:varchar(255);not null" json:"competency"`
	Schedule        string      `gorm:"type:varchar(255)" json:"schedule"`
	HowToDevelop    string      `gorm:"type:text" json:"how_to_develop"`
	ExpectedResults string      `gorm:"type:text" json:"expected_results"`
	Status          ItemStatus  `gorm:"not null;default:1" json:"status"`
	Notes           string      `gorm:"type:text" json:"notes"`
}

// Progress is the percentage of items marked done.
func (p DevelopmentPlan) Progress() float64 {
	if len(p.Items) == 0 {
		return 0
	}
	done := 0
	for _, it := range p.Items {
		if it.Status == StatusDone {
			done++
		}
	}
	return float64(done) / float64(len(p.Items)) * 100
}
