package account

import (
	"strings"

	"github.com/avstrong/stayhub/internal/validation"
)

// Reset codes are mailed by the backend and are at least this long.
const minResetTokenLength = 20

type ForgotPasswordForm struct {
	Email string `json:"email"`
}

type ResetPasswordForm struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PasswordReset is the payload of the backend's reset-password endpoint.
type PasswordReset struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func IsValidResetToken(token string) bool {
	return len([]rune(strings.TrimSpace(token))) >= minResetTokenLength
}

func (f ForgotPasswordForm) Validate() validation.Errors {
	errs := validation.New()

	switch {
	case f.Email == "":
		errs.Add("email", "email is required")
	case !IsValidEmail(f.Email):
		errs.Add("email", "provide valid email")
	}

	return errs
}

func (f ResetPasswordForm) Validate() validation.Errors {
	errs := validation.New()

	switch {
	case f.Token == "":
		errs.Add("token", "reset code is required")
	case !IsValidResetToken(f.Token):
		errs.Add("token", "reset code must be at least 20 characters")
	}

	switch {
	case f.NewPassword == "":
		errs.Add("newPassword", "new password is required")
	case !IsValidPassword(f.NewPassword):
		errs.Add("newPassword", "password needs at least 8 characters, one upper case letter and one digit")
	}

	switch {
	case f.ConfirmPassword == "":
		errs.Add("confirmPassword", "confirm your new password")
	case f.ConfirmPassword != f.NewPassword:
		errs.Add("confirmPassword", "passwords do not match")
	}

	return errs
}

func (f ResetPasswordForm) PasswordReset() *PasswordReset {
	return &PasswordReset{Token: strings.TrimSpace(f.Token), NewPassword: f.NewPassword}
}
