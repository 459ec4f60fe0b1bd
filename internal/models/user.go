package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Position     string         `gorm:"type:varchar(255)" json:"position"`
	IsLeader     bool           `gorm:"not null;default:false" json:"is_leader"`
	IsDirector   bool           `gorm:"not null;default:false" json:"is_director"`
	Phone        *string        `gorm:"type:varchar(20)" json:"phone"`
	BirthDate    *time.Time     `gorm:"type:date" json:"birth_date"`
	JoinDate     *time.Time     `gorm:"type:date" json:"join_date"`
	ProfileImage *string        `gorm:"size:16777215" json:"profile_image,omitempty"`
	ReportsTo    *uint64        `gorm:"index" json:"reports_to"`
	DepartmentID *uint64        `gorm:"index" json:"department_id"`
	TrackID      *uint64        `gorm:"index" json:"track_id"`
	PositionID   *uint64        `json:"position_id"` // track_positions.id
	InternLevel  InternLevel    `gorm:"type:varchar(1);not null;default:'A'" json:"intern_level"`
	ContractType ContractType   `gorm:"type:varchar(3);not null;default:'CLT'" json:"contract_type"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Teams []TeamMember `gorm:"foreignKey:UserID" json:"-"`
}

// Profile derives the classification from the stored flags.
func (u User) Profile() ProfileType {
	return ProfileFromFlags(u.IsLeader, u.IsDirector)
}
