package models

// ProfileType classifies a user. It is the single source of truth for the
// is_leader / is_director columns.
type ProfileType string

const (
	ProfileRegular  ProfileType = "regular"
	ProfileLeader   ProfileType = "leader"
	ProfileDirector ProfileType = "director"
)

func (p ProfileType) Valid() bool {
	switch p {
	case ProfileRegular, ProfileLeader, ProfileDirector:
		return true
	}
	return false
}

// IsLeader is true for leaders and directors.
func (p ProfileType) IsLeader() bool {
	return p == ProfileLeader || p == ProfileDirector
}

func (p ProfileType) IsDirector() bool {
	return p == ProfileDirector
}

// ProfileFromFlags maps the stored boolean pair back to a ProfileType.
func ProfileFromFlags(isLeader, isDirector bool) ProfileType {
	switch {
	case isDirector:
		return ProfileDirector
	case isLeader:
		return ProfileLeader
	default:
		return ProfileRegular
	}
}

type ContractType string

const (
	ContractCLT ContractType = "CLT"
	ContractPJ  ContractType = "PJ"
)

func (c ContractType) Valid() bool {
	return c == ContractCLT || c == ContractPJ
}

// InternLevel is the seniority step inside a position, A (entry) to E.
type InternLevel string

const (
	LevelA InternLevel = "A"
	LevelB InternLevel = "B"
	LevelC InternLevel = "C"
	LevelD InternLevel = "D"
	LevelE InternLevel = "E"

	DefaultInternLevel = LevelA
)

func (l InternLevel) Valid() bool {
	switch l {
	case LevelA, LevelB, LevelC, LevelD, LevelE:
		return true
	}
	return false
}
