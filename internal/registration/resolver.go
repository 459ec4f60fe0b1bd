package registration

import (
	"strconv"

	"github.com/yukikurage/talent-registration-api/internal/catalog"
	"github.com/yukikurage/talent-registration-api/internal/models"
)

// Cascade says which downstream selections must be cleared.
type Cascade int

const (
	CascadeNone Cascade = iota
	// CascadePosition clears the position and resets the level.
	CascadePosition
	// CascadeTrack clears the track and the position and resets the level.
	CascadeTrack
)

func (c Cascade) String() string {
	switch c {
	case CascadePosition:
		return "position"
	case CascadeTrack:
		return "track"
	default:
		return "none"
	}
}

// Apply returns form with the cascade's resets applied.
func (c Cascade) Apply(form Form) Form {
	switch c {
	case CascadeTrack:
		form.TrackID = 0
		fallthrough
	case CascadePosition:
		form.PositionID = 0
		form.Position = ""
		form.InternLevel = models.DefaultInternLevel
	}
	return form
}

// Resolution is the candidate set for each level of the cascade.
type Resolution struct {
	Tracks    []models.CareerTrack   `json:"tracks"`
	Positions []models.TrackPosition `json:"positions"`
	Cascade   Cascade                `json:"-"`
}

// Resolve filters tracks by the selected department and positions by the
// selected track, and reports which selections are no longer consistent.
// It never fails: missing data yields empty candidate sets.
func Resolve(tracks []models.CareerTrack, positions []models.TrackPosition, form Form) Resolution {
	res := Resolution{
		Tracks:    []models.CareerTrack{},
		Positions: []models.TrackPosition{},
	}

	if form.DepartmentID == 0 {
		res.Cascade = CascadeTrack
		return res
	}
	trackOK := false
	for _, t := range tracks {
		if t.DepartmentID != form.DepartmentID {
			continue
		}
		res.Tracks = append(res.Tracks, t)
		if form.TrackID != 0 && t.ID == form.TrackID {
			trackOK = true
		}
	}
	if !trackOK {
		res.Cascade = CascadeTrack
		return res
	}

	positionOK := false
	for _, p := range positions {
		if p.TrackID != form.TrackID {
			continue
		}
		res.Positions = append(res.Positions, p)
		if form.PositionID != 0 && p.ID == form.PositionID {
			positionOK = true
		}
	}
	if !positionOK {
		res.Cascade = CascadePosition
	}
	return res
}

// PositionLabel is the display name of the selected track position: the
// job position's name when it was resolved, else the raw position_id.
func PositionLabel(positions []models.TrackPosition, positionID uint64) string {
	if positionID == 0 {
		return ""
	}
	for _, p := range positions {
		if p.ID != positionID {
			continue
		}
		if p.Position != nil && p.Position.Name != "" {
			return p.Position.Name
		}
		return strconv.FormatUint(p.PositionID, 10)
	}
	return ""
}

// SupervisorCandidates lists the users a profile may report to. Regular
// users report to leaders or directors, everybody else to directors.
func SupervisorCandidates(users []models.User, profile models.ProfileType) []models.User {
	out := []models.User{}
	for _, u := range users {
		if eligibleSupervisor(u, profile) {
			out = append(out, u)
		}
	}
	return out
}

// IsEligibleSupervisor reports whether the user with id may be the
// supervisor of profile.
func IsEligibleSupervisor(users []models.User, profile models.ProfileType, id uint64) bool {
	for _, u := range users {
		if u.ID == id {
			return eligibleSupervisor(u, profile)
		}
	}
	return false
}

func eligibleSupervisor(u models.User, profile models.ProfileType) bool {
	if profile == models.ProfileRegular {
		return u.Profile().IsLeader()
	}
	return u.Profile().IsDirector()
}

// Event is a change applied to the form by Reduce.
type Event struct {
	Type  EventType          `json:"type"`
	ID    uint64             `json:"id,omitempty"`
	Level models.InternLevel `json:"level,omitempty"`

	Profile models.ProfileType `json:"profile,omitempty"`
	Phone   string             `json:"phone,omitempty"`
}

type EventType string

const (
	DepartmentSelected  EventType = "department_selected"
	TrackSelected       EventType = "track_selected"
	PositionSelected    EventType = "position_selected"
	LevelSelected       EventType = "level_selected"
	ProfileTypeSelected EventType = "profile_type_selected"
	PhoneEntered        EventType = "phone_entered"
	ReferenceDataLoaded EventType = "reference_data_loaded"
)

func (t EventType) Valid() bool {
	switch t {
	case DepartmentSelected, TrackSelected, PositionSelected, LevelSelected, ProfileTypeSelected, PhoneEntered, ReferenceDataLoaded:
		return true
	}
	return false
}

// Reduce applies ev to form and returns the next snapshot. Every selection
// event re-resolves the cascade so the result never keeps a track, position
// or level inconsistent with the department above it.
func Reduce(ref catalog.ReferenceData, form Form, ev Event) Form {
	switch ev.Type {
	case DepartmentSelected:
		form.DepartmentID = ev.ID
	case TrackSelected:
		if form.TrackID != ev.ID {
			form = CascadePosition.Apply(form)
		}
		form.TrackID = ev.ID
	case PositionSelected:
		if form.PositionID != ev.ID {
			form.InternLevel = models.DefaultInternLevel
		}
		form.PositionID = ev.ID
	case LevelSelected:
		form.InternLevel = ev.Level
		return form
	case ProfileTypeSelected:
		form.ProfileType = ev.Profile
		if form.ReportsTo != 0 && !IsEligibleSupervisor(ref.Users, ev.Profile, form.ReportsTo) {
			form.ReportsTo = 0
		}
		if ev.Profile.IsDirector() {
			form.TeamIDs = []uint64{}
		}
		return form
	case PhoneEntered:
		form.Phone = FormatPhone(ev.Phone)
		return form
	case ReferenceDataLoaded:
	default:
		return form
	}

	form = Resolve(ref.Tracks, ref.Positions, form).Cascade.Apply(form)
	form.Position = PositionLabel(ref.Positions, form.PositionID)
	return form
}
