package models

import (
	"time"

	"gorm.io/gorm"
)

type Department struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tracks []CareerTrack `gorm:"foreignKey:DepartmentID" json:"-"`
	Teams  []Team        `gorm:"foreignKey:DepartmentID" json:"-"`
}

// CareerTrack is a career path inside one department.
type CareerTrack struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  *string   `gorm:"type:text" json:"description"`
	DepartmentID uint64    `gorm:"not null;index" json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Department Department      `gorm:"foreignKey:DepartmentID" json:"-"`
	Positions  []TrackPosition `gorm:"foreignKey:TrackID" json:"-"`
}

func (CareerTrack) TableName() string {
	return "career_tracks"
}

// JobPosition is a global catalog entry referenced by track positions.
type JobPosition struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Code        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TrackPosition places a job position at an ordered step of a track.
// Position is resolved by the catalog loader, not preloaded.
type TrackPosition struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	TrackID    uint64    `gorm:"not null;index" json:"track_id"`
	PositionID uint64    `gorm:"not null;index" json:"position_id"`
	ClassID    *string   `gorm:"type:varchar(50)" json:"class_id"`
	BaseSalary float64   `gorm:"not null;default:0" json:"base_salary"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Track    CareerTrack  `gorm:"foreignKey:TrackID" json:"-"`
	Position *JobPosition `gorm:"foreignKey:PositionID" json:"position,omitempty"`
}

type Team struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	DepartmentID *uint64        `gorm:"index" json:"department_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Department *Department  `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Members    []TeamMember `gorm:"foreignKey:TeamID" json:"-"`
}
