package account

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/avstrong/stayhub/internal/validation"
)

const (
	minLoginPasswordLength    = 6
	minRegisterPasswordLength = 8
	maxNameLength             = 100
	maxDescriptionLength      = 500
	minAge                    = 18
	phoneDigits               = 10
	phonePrefix               = "+57"
	birthDateLayout           = "2006-01-02"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+57\s?\d{10}$`)
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires eight characters with an upper case letter and a
// digit.
func IsValidPassword(password string) bool {
	if len([]rune(password)) < minRegisterPasswordLength {
		return false
	}

	var upper, digit bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}

	return upper && digit
}

func IsValidPhoneNumber(phone string) bool {
	return phoneRe.MatchString(phone)
}

func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

// FormatPhoneNumber normalizes free input to "+57 XXXXXXXXXX".
func FormatPhoneNumber(input string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, input)

	digits = strings.TrimPrefix(digits, "57")
	if len(digits) > phoneDigits {
		digits = digits[:phoneDigits]
	}

	if digits == "" {
		return phonePrefix
	}

	return phonePrefix + " " + digits
}

// Validate stops at the first failing rule of each field.
func (f LoginForm) Validate() validation.Errors {
	errs := validation.New()

	switch {
	case f.Email == "":
		errs.Add("email", "email is required")
	case !IsValidEmail(f.Email):
		errs.Add("email", "provide valid email")
	}

	switch {
	case f.Password == "":
		errs.Add("password", "password is required")
	case len([]rune(f.Password)) < minLoginPasswordLength:
		errs.Add("password", "password must be at least 6 characters")
	}

	return errs
}

func (f RegisterForm) Validate(now time.Time) validation.Errors {
	errs := validation.New()

	switch {
	case f.Email == "":
		errs.Add("email", "email is required")
	case !IsValidEmail(f.Email):
		errs.Add("email", "provide valid email")
	}

	switch {
	case f.Password == "":
		errs.Add("password", "password is required")
	case !IsValidPassword(f.Password):
		errs.Add("password", "password needs at least 8 characters, one upper case letter and one digit")
	}

	switch {
	case f.ConfirmPassword == "":
		errs.Add("confirmPassword", "confirm your password")
	case f.ConfirmPassword != f.Password:
		errs.Add("confirmPassword", "passwords do not match")
	}

	switch name := strings.TrimSpace(f.Name); {
	case name == "":
		errs.Add("name", "name is required")
	case len([]rune(name)) > maxNameLength:
		errs.Add("name", "name cannot exceed 100 characters")
	}

	switch {
	case f.PhoneNumber == "":
		errs.Add("phoneNumber", "phone number is required")
	case !IsValidPhoneNumber(f.PhoneNumber):
		errs.Add("phoneNumber", "phone number must be +57 followed by 10 digits")
	}

	if f.BirthDate == "" {
		errs.Add("birthDate", "birth date is required")
	} else if msg := checkBirthDate(f.BirthDate, now); msg != "" {
		errs.Add("birthDate", msg)
	}

	if f.Role != RoleGuest && f.Role != RoleHost {
		errs.Add("role", "role must be GUEST or HOST")
	}

	if f.Role == RoleHost {
		f.validateHostProfile(errs)
	}

	return errs
}

func (f RegisterForm) validateHostProfile(errs validation.Errors) {
	if f.ProfilePicture != "" && !IsValidURL(f.ProfilePicture) {
		errs.Add("profilePicture", "provide valid URL")
	}

	if len([]rune(f.Description)) > maxDescriptionLength {
		errs.Add("description", "description cannot exceed 500 characters")
	}

	for field, doc := range map[string]string{
		"legalDocument1": f.LegalDocument1,
		"legalDocument2": f.LegalDocument2,
		"legalDocument3": f.LegalDocument3,
	} {
		if doc != "" && !IsValidURL(doc) {
			errs.Add(field, "provide valid URL")
		}
	}
}

func checkBirthDate(raw string, now time.Time) string {
	birth, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return "invalid date"
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !birth.Before(today) {
		return "birth date must be in the past"
	}

	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}

	if age < minAge {
		return "you must be at least 18 years old"
	}

	return ""
}

// Registration drops the confirmation field and the host-only fields of
// guests.
func (f RegisterForm) Registration() *Registration {
	reg := &Registration{
		Email:       strings.TrimSpace(f.Email),
		Password:    f.Password,
		Name:        strings.TrimSpace(f.Name),
		PhoneNumber: f.PhoneNumber,
		BirthDate:   f.BirthDate,
		Role:        f.Role,
	}

	if f.Role != RoleHost {
		return reg
	}

	reg.ProfilePicture = f.ProfilePicture
	reg.Description = f.Description

	for _, doc := range []string{f.LegalDocument1, f.LegalDocument2, f.LegalDocument3} {
		if doc != "" {
			reg.LegalDocuments = append(reg.LegalDocuments, doc)
		}
	}

	return reg
}
