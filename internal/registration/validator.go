package registration

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/talent-registration-api/internal/constants"
	"github.com/yukikurage/talent-registration-api/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{5}-\d{4}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// Errors maps a form field to its error message. An empty Errors means the
// form may be submitted.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Field keys used in Errors.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldProfileType  = "profileType"
	FieldPhone        = "phone"
	FieldBirthDate    = "birthDate"
	FieldJoinDate     = "joinDate"
	FieldDepartmentID = "departmentId"
	FieldTrackID      = "trackId"
	FieldPositionID   = "positionId"
	FieldInternLevel  = "internLevel"
	FieldContractType = "contractType"
	FieldTeams        = "teams"
	FieldReportsTo    = "reportsTo"
)

var labels = map[string]string{
	FieldName:         "Name",
	FieldEmail:        "Email",
	FieldPassword:     "Password",
	FieldProfileType:  "Profile type",
	FieldPhone:        "Phone",
	FieldBirthDate:    "Birth date",
	FieldJoinDate:     "Join date",
	FieldDepartmentID: "Department",
	FieldTrackID:      "Track",
	FieldPositionID:   "Position",
	FieldInternLevel:  "Level",
	FieldContractType: "Contract type",
}

// Validator checks a Form against the registration rules.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*Validator)

// WithClock sets the clock that defines "today". Dates are compared in the
// clock's location.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func NewValidator(opts ...Option) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "basicemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "phonebr", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})

	r := &Validator{validate: v, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate collects every violated rule. It never stops at the first error.
func (v *Validator) Validate(form Form) Errors {
	errs := Errors{}

	if err := v.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			panic(err)
		}
		for _, fe := range verrs {
			errs[fe.Field()] = message(fe)
		}
	}

	v.validateDates(form, errs)

	if len(form.TeamIDs) == 0 && form.ProfileType != models.ProfileDirector {
		errs[FieldTeams] = "Select at least one team"
	}
	if form.ReportsTo == 0 {
		switch form.ProfileType {
		case models.ProfileRegular:
			errs[FieldReportsTo] = "Select a leader"
		case models.ProfileLeader:
			errs[FieldReportsTo] = "Select a director"
		}
	}

	return errs
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	case "basicemail":
		return "Invalid email"
	case "phonebr":
		return "Invalid phone, expected (DD) DDDDD-DDDD"
	case "isodate":
		return "Invalid date"
	default:
		return "Invalid " + strings.ToLower(label)
	}
}

// validateDates applies the age and hiring rules. Malformed dates were
// already reported by the struct tags.
func (v *Validator) validateDates(form Form, errs Errors) {
	now := v.now()
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	birth, birthErr := time.ParseInLocation(DateLayout, form.BirthDate, loc)
	hasBirth := form.BirthDate != "" && birthErr == nil
	if hasBirth {
		age := Age(birth, today)
		if age < constants.MinWorkingAge {
			errs[FieldBirthDate] = "Minimum age is 16"
		}
		if age > constants.MaxAge {
			errs[FieldBirthDate] = "Invalid birth date"
		}
	}

	join, err := time.ParseInLocation(DateLayout, form.JoinDate, loc)
	if form.JoinDate == "" || err != nil {
		return
	}
	if join.After(today) {
		errs[FieldJoinDate] = "Join date cannot be in the future"
	}
	if hasBirth && join.Before(birth.AddDate(constants.MinWorkingAge, 0, 0)) {
		errs[FieldJoinDate] = "Invalid join date, the employee would be younger than 16"
	}
}

// Age is the number of full years between birth and on.
func Age(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}

// FormatPhone applies the (DD) DDDDD-DDDD mask to raw input. Input with
// fewer than eleven digits is returned as its digits only.
func FormatPhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) > 11 {
		digits = digits[:11]
	}
	if len(digits) < 11 {
		return digits
	}
	return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
}
