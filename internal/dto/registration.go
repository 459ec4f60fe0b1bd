package dto

import (
	"github.com/yukikurage/talent-registration-api/internal/catalog"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/registration"
)

// ReferenceResponse is the reference data a registration form starts from
type ReferenceResponse struct {
	catalog.ReferenceData
	Ready bool              `json:"ready"`
	Form  registration.Form `json:"form"`
}

// TransitionRequest applies one event to a form snapshot
type TransitionRequest struct {
	Form  registration.Form  `json:"form"`
	Event registration.Event `json:"event"`
}

// TransitionResponse is the next snapshot with its candidate lists
type TransitionResponse struct {
	Form        registration.Form      `json:"form"`
	Tracks      []models.CareerTrack   `json:"tracks"`
	Positions   []models.TrackPosition `json:"positions"`
	Supervisors []UserSummaryDTO       `json:"supervisors"`
}

// ValidateResponse reports the field errors of a snapshot
type ValidateResponse struct {
	Valid  bool                `json:"valid"`
	Errors registration.Errors `json:"errors"`
}

// UserSummaryDTO is a user as shown in supervisor pickers
type UserSummaryDTO struct {
	ID          uint64             `json:"id"`
	Name        string             `json:"name"`
	Position    string             `json:"position"`
	ProfileType models.ProfileType `json:"profile_type"`
}

func ToUserSummaryDTOs(users []models.User) []UserSummaryDTO {
	out := make([]UserSummaryDTO, len(users))
	for i, u := range users {
		out[i] = UserSummaryDTO{ID: u.ID, Name: u.Name, Position: u.Position, ProfileType: u.Profile()}
	}
	return out
}
