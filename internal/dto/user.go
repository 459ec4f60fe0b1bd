package dto

import (
	"time"

	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           uint64              `json:"id"`
	Email        string              `json:"email"`
	Name         string              `json:"name"`
	Position     string              `json:"position"`
	ProfileType  models.ProfileType  `json:"profile_type"`
	IsLeader     bool                `json:"is_leader"`
	IsDirector   bool                `json:"is_director"`
	Phone        *string             `json:"phone"`
	BirthDate    *string             `json:"birth_date"`
	JoinDate     *string             `json:"join_date"`
	ReportsTo    *uint64             `json:"reports_to"`
	DepartmentID *uint64             `json:"department_id"`
	TrackID      *uint64             `json:"track_id"`
	PositionID   *uint64             `json:"position_id"`
	InternLevel  models.InternLevel  `json:"intern_level"`
	ContractType models.ContractType `json:"contract_type"`
	HasImage     bool                `json:"has_profile_image"`
	TeamIDs      []uint64            `json:"team_ids,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Position:     user.Position,
		ProfileType:  user.Profile(),
		IsLeader:     user.IsLeader,
		IsDirector:   user.IsDirector,
		Phone:        user.Phone,
		BirthDate:    formatDate(user.BirthDate),
		JoinDate:     formatDate(user.JoinDate),
		ReportsTo:    user.ReportsTo,
		DepartmentID: user.DepartmentID,
		TrackID:      user.TrackID,
		PositionID:   user.PositionID,
		InternLevel:  user.InternLevel,
		ContractType: user.ContractType,
		HasImage:     user.ProfileImage != nil && *user.ProfileImage != "",
		CreatedAt:    user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
