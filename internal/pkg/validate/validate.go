package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct or to one of the predicates.
var v = validator.New()

var (
	cardRe     = regexp.MustCompile(`^[A-Za-z]{3}-[0-9]{9}-[0-9]{2}$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,20}$`)
	licenseRe  = regexp.MustCompile(`^[A-Za-z0-9-]{5,}$`)
	localRe    = regexp.MustCompile(`^0[0-9]{9}$`)
	nineRe     = regexp.MustCompile(`^[0-9]{9}$`)
)

func init() {
	must(v.RegisterValidation("card_number", regexValidation(cardRe)))
	must(v.RegisterValidation("username_format", regexValidation(usernameRe)))
	must(v.RegisterValidation("license_number", regexValidation(licenseRe)))
	must(v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return phoneOK(fl.Field().String(), fl.Param())
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func regexValidation(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(strings.TrimSpace(fl.Field().String()))
	}
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// Name reports whether s is a plausible person name: non-empty after
// trimming, at least min runes long, and containing no digit.
func Name(s string, min int) bool {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < min {
		return false
	}
	return !strings.ContainsFunc(s, unicode.IsDigit)
}

// CardNumber reports whether s matches the national identity card pattern
// XXX-#########-## (3 letters, 9 digits, 2 digits), case-insensitive.
func CardNumber(s string) bool {
	return v.Var(strings.TrimSpace(s), "required,card_number") == nil
}

// Phone reports whether s is an acceptable subscriber number for the given
// country code: local form (leading 0 plus 9 digits) or international form
// (country code plus 9 digits, optional leading +).
func Phone(s, countryCode string) bool {
	return v.Var(strings.TrimSpace(s), fmt.Sprintf("required,msisdn=%s", countryCode)) == nil
}

func phoneOK(s, countryCode string) bool {
	s = strings.TrimSpace(s)
	if localRe.MatchString(s) {
		return true
	}
	s = strings.TrimPrefix(s, "+")
	if !strings.HasPrefix(s, countryCode) {
		return false
	}
	return nineRe.MatchString(strings.TrimPrefix(s, countryCode))
}

// NormalizePhone rewrites any form accepted by Phone to the canonical
// international representation +<countryCode><9 digits>. Inputs that are not
// an accepted form are returned unchanged.
func NormalizePhone(s, countryCode string) string {
	t := strings.TrimSpace(s)
	if !phoneOK(t, countryCode) {
		return s
	}
	if localRe.MatchString(t) {
		return "+" + countryCode + t[1:]
	}
	return "+" + strings.TrimPrefix(t, "+")
}

// Email reports whether s is a syntactically valid email address.
func Email(s string) bool {
	return v.Var(strings.TrimSpace(s), "required,email") == nil
}

// Username reports whether s is 3-20 characters of letters, digits, or _.-
func Username(s string) bool {
	return v.Var(strings.TrimSpace(s), "required,username_format") == nil
}

// Password reports whether s meets the minimum length of 6. No further
// strength policy is enforced.
func Password(s string) bool {
	return v.Var(s, "required,min=6") == nil
}

// License reports whether s is at least 5 characters of letters, digits, or
// dashes.
func License(s string) bool {
	return v.Var(strings.TrimSpace(s), "required,license_number") == nil
}
