package account

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avstrong/stayhub/internal/validation"
)

const resetCode = "f3b9c2a1d4e5f6a7b8c9"

func TestForgotPasswordFormValidate(t *testing.T) {
	assert.Equal(t, validation.Errors{}, ForgotPasswordForm{Email: "ana@stayhub.co"}.Validate())
	assert.Equal(t, validation.Errors{"email": "email is required"}, ForgotPasswordForm{}.Validate())
	assert.Equal(t, validation.Errors{"email": "provide valid email"}, ForgotPasswordForm{Email: "ana"}.Validate())
}

func TestResetPasswordFormValidate(t *testing.T) {
	tests := []struct {
		name string
		form ResetPasswordForm
		want validation.Errors
	}{
		{
			name: "valid",
			form: ResetPasswordForm{Token: resetCode, NewPassword: "Salento2026", ConfirmPassword: "Salento2026"},
			want: validation.Errors{},
		},
		{
			name: "empty",
			form: ResetPasswordForm{},
			want: validation.Errors{
				"token":           "reset code is required",
				"newPassword":     "new password is required",
				"confirmPassword": "confirm your new password",
			},
		},
		{
			name: "short code weak password",
			form: ResetPasswordForm{Token: "abc123", NewPassword: "salento", ConfirmPassword: "salento"},
			want: validation.Errors{
				"token":       "reset code must be at least 20 characters",
				"newPassword": "password needs at least 8 characters, one upper case letter and one digit",
			},
		},
		{
			name: "mismatch",
			form: ResetPasswordForm{Token: resetCode, NewPassword: "Salento2026", ConfirmPassword: "Salento2025"},
			want: validation.Errors{"confirmPassword": "passwords do not match"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.form.Validate())
		})
	}
}

func TestPasswordResetPayload(t *testing.T) {
	form := ResetPasswordForm{Token: " " + resetCode + " ", NewPassword: "Salento2026", ConfirmPassword: "Salento2026"}

	assert.Equal(t, &PasswordReset{Token: resetCode, NewPassword: "Salento2026"}, form.PasswordReset())
}
