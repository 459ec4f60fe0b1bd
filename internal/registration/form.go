// Package registration holds the user registration form: its snapshot, the
// department → track → position cascade and the field validator.
package registration

import (
	"strings"
	"time"

	"github.com/yukikurage/talent-registration-api/internal/models"
)

// DateLayout is the civil date format used by the form.
const DateLayout = "2006-01-02"

// Form is the working snapshot of a registration. A zero id means "not
// selected" and an empty string means "absent".
type Form struct {
	Name         string              `json:"name" validate:"notblank"`
	Email        string              `json:"email" validate:"notblank,basicemail"`
	Password     string              `json:"password" validate:"notblank,min=6"`
	ProfileType  models.ProfileType  `json:"profileType" validate:"omitempty,oneof=regular leader director"`
	Phone        string              `json:"phone" validate:"omitempty,phonebr"`
	BirthDate    string              `json:"birthDate" validate:"omitempty,isodate"`
	JoinDate     string              `json:"joinDate" validate:"required,isodate"`
	ProfileImage string              `json:"profileImage"`
	ReportsTo    uint64              `json:"reportsTo"`
	DepartmentID uint64              `json:"departmentId" validate:"required"`
	TrackID      uint64              `json:"trackId" validate:"required"`
	PositionID   uint64              `json:"positionId" validate:"required"`
	InternLevel  models.InternLevel  `json:"internLevel" validate:"required,oneof=A B C D E"`
	ContractType models.ContractType `json:"contractType" validate:"omitempty,oneof=CLT PJ"`
	TeamIDs      []uint64            `json:"teamIds"`

	// Position is the display label derived from PositionID.
	Position string `json:"position"`
}

// NewForm returns the snapshot a new registration starts from.
func NewForm(now time.Time) Form {
	return Form{
		ProfileType:  models.ProfileRegular,
		JoinDate:     now.Format(DateLayout),
		InternLevel:  models.DefaultInternLevel,
		ContractType: models.ContractCLT,
		TeamIDs:      []uint64{},
	}
}

// NormalizedEmail is the email as it is stored.
func (f Form) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(f.Email))
}
