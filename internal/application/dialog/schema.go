package dialog

import (
	"context"
	"strings"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/sikacredit/ussd-api/internal/pkg/validate"
)

// Field names one registration step. The deployment's schema is an ordered
// list of fields; the engine walks it one level per captured value.
type Field string

const (
	FieldName     Field = "name"
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
	FieldCard     Field = "id_card"
	FieldLicense  Field = "license"
)

// nameMinLen is the minimum rune count for the registration full-name step.
const nameMinLen = 3

// fieldSpec describes how one registration field is prompted, validated,
// checked for uniqueness, and accumulated into the carried registration data.
type fieldSpec struct {
	prompt  string
	invalid string
	taken   string
	unique  bool
	valid   func(s *service, input string) bool
	set     func(d *domain.RegistrationData, value string)
	lookup  func(ctx context.Context, s *service, value string) (*domain.Identity, error)
}

var fieldSpecs = map[Field]fieldSpec{
	FieldName: {
		prompt:  "Enter your full name:",
		invalid: "Please enter a valid name (letters only, at least 3 characters).",
		valid:   func(_ *service, in string) bool { return validate.Name(in, nameMinLen) },
		set:     func(d *domain.RegistrationData, v string) { d.Name = v },
	},
	FieldUsername: {
		prompt:  "Choose a username (3-20 letters, digits, _.-):",
		invalid: "That username is not allowed.",
		taken:   "That username is already taken.",
		unique:  true,
		valid:   func(_ *service, in string) bool { return validate.Username(in) },
		set:     func(d *domain.RegistrationData, v string) { d.Username = v },
		lookup: func(ctx context.Context, s *service, v string) (*domain.Identity, error) {
			return s.identities.GetByUsername(ctx, v)
		},
	},
	FieldEmail: {
		prompt:  "Enter your email address:",
		invalid: "That email address looks invalid.",
		taken:   "That email address is already registered.",
		unique:  true,
		valid:   func(_ *service, in string) bool { return validate.Email(in) },
		set:     func(d *domain.RegistrationData, v string) { d.Email = strings.ToLower(v) },
		lookup: func(ctx context.Context, s *service, v string) (*domain.Identity, error) {
			return s.identities.GetByEmail(ctx, strings.ToLower(v))
		},
	},
	FieldPassword: {
		prompt:  "Choose a PIN or password (at least 6 characters):",
		invalid: "Password must be at least 6 characters.",
		valid:   func(_ *service, in string) bool { return validate.Password(in) },
		set:     func(d *domain.RegistrationData, v string) { d.Password = v },
	},
	FieldCard: {
		prompt:  "Enter your national ID number (e.g. GHA-123456789-01):",
		invalid: "That ID number is invalid. Use the format GHA-123456789-01.",
		taken:   "That ID number is already registered.",
		unique:  true,
		valid:   func(_ *service, in string) bool { return validate.CardNumber(in) },
		set:     func(d *domain.RegistrationData, v string) { d.CardNumber = strings.ToUpper(v) },
		lookup: func(ctx context.Context, s *service, v string) (*domain.Identity, error) {
			return s.identities.GetByCardNumber(ctx, strings.ToUpper(v))
		},
	},
	FieldLicense: {
		prompt:  "Enter your license number:",
		invalid: "That license number looks invalid (at least 5 letters, digits, or dashes).",
		taken:   "That license number is already registered.",
		unique:  true,
		valid:   func(_ *service, in string) bool { return validate.License(in) },
		set:     func(d *domain.RegistrationData, v string) { d.License = strings.ToUpper(v) },
		lookup: func(ctx context.Context, s *service, v string) (*domain.Identity, error) {
			return s.identities.GetByLicense(ctx, strings.ToUpper(v))
		},
	},
}

// ParseSchema converts the configured field names into an ordered schema,
// silently dropping names that match no known field.
func ParseSchema(names []string) []Field {
	var schema []Field
	for _, n := range names {
		f := Field(strings.TrimSpace(strings.ToLower(n)))
		if _, ok := fieldSpecs[f]; ok {
			schema = append(schema, f)
		}
	}
	return schema
}
