package reservations

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
	"github.com/angelmondragon/speakeasy-backend/pkg/types"
)

var (
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)
	timePattern  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// fieldOrder is the order missing fields and violations are reported in.
var fieldOrder = []string{"firstName", "lastName", "email", "phone", "date", "time", "partySize", "specialRequests"}

// CreateInput is the booking request body.
type CreateInput struct {
	FirstName       string `json:"firstName" validate:"max=50"`
	LastName        string `json:"lastName" validate:"max=50"`
	Email           string `json:"email" validate:"max=254,guest_email"`
	Phone           string `json:"phone" validate:"max=32,guest_phone"`
	Date            string `json:"date"`
	Time            string `json:"time" validate:"hhmm"`
	PartySize       int    `json:"partySize" validate:"min=1,max=20"`
	SpecialRequests string `json:"specialRequests" validate:"max=500"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "guest_email", emailPattern)
	mustRegister(v, "guest_phone", phonePattern)
	mustRegister(v, "hhmm", timePattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Normalize trims every string, lower-cases the email and zero-pads a
// single-digit hour so "9:00" and "09:00" name the same slot.
func (in CreateInput) Normalize() CreateInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = padHour(strings.TrimSpace(in.Time))
	in.SpecialRequests = strings.TrimSpace(in.SpecialRequests)
	return in
}

func padHour(hhmm string) string {
	if len(hhmm) == 4 && hhmm[1] == ':' && timePattern.MatchString(hhmm) {
		return "0" + hhmm
	}
	return hhmm
}

// MissingFields lists the required fields that are empty, in report order.
// Call it on normalized input so whitespace-only values count as missing.
func (in CreateInput) MissingFields() []string {
	present := map[string]bool{
		"firstName": in.FirstName != "",
		"lastName":  in.LastName != "",
		"email":     in.Email != "",
		"phone":     in.Phone != "",
		"date":      in.Date != "",
		"time":      in.Time != "",
		"partySize": in.PartySize != 0,
	}
	var missing []string
	for _, field := range fieldOrder {
		if ok, required := present[field]; required && !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

func missingFieldsError(missing []string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields: "+strings.Join(missing, ", ")).
		WithDetails(map[string]any{"missingFields": missing})
}

// formatViolations runs the struct rules and returns one violation per field.
func formatViolations(in CreateInput) map[string]string {
	out := map[string]string{}
	err := validate.Struct(in)
	if err == nil {
		return out
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["input"] = err.Error()
		return out
	}
	for _, fe := range errs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = violationMessage(fe)
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "guest_email":
		return "Please enter a valid email"
	case "guest_phone":
		return "Please enter a valid phone number"
	case "hhmm":
		return "Please enter a valid time in HH:MM format"
	}
	if fe.Field() == "partySize" {
		return "Party size must be between 1 and 20"
	}
	if fe.Tag() == "max" {
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}

func violationsError(byField map[string]string) error {
	violations := make([]types.FieldViolation, 0, len(byField))
	for _, field := range fieldOrder {
		if msg, ok := byField[field]; ok {
			violations = append(violations, types.FieldViolation{Field: field, Message: msg})
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "Validation failed").WithDetails(violations)
}
