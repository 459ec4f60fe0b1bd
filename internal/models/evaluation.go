package models

import "time"

// CycleStatus is the lifecycle of an evaluation cycle: draft, open, closed.
type CycleStatus string

const (
	CycleDraft  CycleStatus = "draft"
	CycleOpen   CycleStatus = "open"
	CycleClosed CycleStatus = "closed"
)

// EvaluationType tells who filled an evaluation in.
type EvaluationType string

const (
	EvaluationSelf   EvaluationType = "self"
	EvaluationLeader EvaluationType = "leader"
)

func (t EvaluationType) Valid() bool {
	return t == EvaluationSelf || t == EvaluationLeader
}

type ConsensusStatus string

const (
	ConsensusScheduled ConsensusStatus = "scheduled"
	ConsensusCompleted ConsensusStatus = "completed"
)

// EvaluationCycle is a review period employees are evaluated in.
type EvaluationCycle struct {
	ID          uint64      `gorm:"primarykey" json:"id"`
	Title       string      `gorm:"type:varchar(255);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	StartDate   time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time   `gorm:"type:date;not null" json:"end_date"`
	Status      CycleStatus `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Evaluation is one self or leader assessment of an employee in a cycle.
// There is at most one per cycle, employee and type.
type Evaluation struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	CycleID        uint64         `gorm:"not null;uniqueIndex:idx_evaluations_cycle_employee_type" json:"cycle_id"`
	EmployeeID     uint64         `gorm:"not null;uniqueIndex:idx_evaluations_cycle_employee_type;index" json:"employee_id"`
	Type           EvaluationType `gorm:"type:varchar(10);not null;uniqueIndex:idx_evaluations_cycle_employee_type" json:"type"`
	EvaluatorID    uint64         `gorm:"not null" json:"evaluator_id"`
	FinalScore     float64        `gorm:"not null;default:0" json:"final_score"`
	PotentialScore *float64       `json:"potential_score"`
	Strengths      string         `gorm:"type:text" json:"strengths"`
	Improvements   string         `gorm:"type:text" json:"improvements"`
	Observations   string         `gorm:"type:text" json:"observations"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Relations
	Employee     User                   `gorm:"foreignKey:EmployeeID" json:"-"`
	Competencies []EvaluationCompetency `gorm:"foreignKey:EvaluationID" json:"competencies"`
}

type EvaluationCompetency struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	EvaluationID uint64  `gorm:"not null;index" json:"evaluation_id"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Category     string  `gorm:"type:varchar(50);not null" json:"category"`
	Score        float64 `gorm:"not null" json:"score"`
}

// ConsensusMeeting settles the final performance and potential of an
// employee for a cycle.
type ConsensusMeeting struct {
	ID               uint64          `gorm:"primarykey" json:"id"`
	CycleID          uint64          `gorm:"not null" json:"cycle_id"`
	EmployeeID       uint64          `gorm:"not null" json:"employee_id"`
	MeetingDate      *time.Time      `json:"meeting_date"`
	Status           ConsensusStatus `gorm:"type:varchar(10);not null;default:'scheduled'" json:"status"`
	PerformanceScore *float64        `json:"performance_score"`
	PotentialScore   *float64        `json:"potential_score"`
	NineBox          string          `gorm:"type:varchar(50)" json:"nine_box"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CompletedAt      *time.Time      `json:"completed_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
