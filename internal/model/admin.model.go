package model

import (
	"strings"
	"time"
)

const MinPasswordLength = 6

type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || r.Password == "" {
		return Validation("email and password are required")
	}
	return nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	if r.OldPassword == "" {
		return Validation("oldPassword is required")
	}
	return validateNewPassword(r.NewPassword)
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return Validation("email is required")
	}
	return nil
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	if r.ResetToken == "" {
		return Validation("resetToken is required")
	}
	return validateNewPassword(r.NewPassword)
}

func validateNewPassword(p string) error {
	if len(p) < MinPasswordLength {
		return Validation("newPassword must be at least %d characters", MinPasswordLength)
	}
	return nil
}
