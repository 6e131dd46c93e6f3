package dtos

import (
	"time"

	"github.com/iamavinashmourya/FarmCare/internal/models"
)

// ----------------------
// Requests
// ----------------------

type RegisterUserRequest struct {
	FullName string `json:"full_name" validate:"required,fullname,max=100"`
	Email    string `json:"email" validate:"required,farmemail,max=254"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required,max=128"`
	State    string `json:"state" validate:"required,max=100"`
	Region   string `json:"region" validate:"required,max=100"`
}

type RegisterAdminRequest struct {
	FullName string `json:"full_name" validate:"required,fullname,max=100"`
	Email    string `json:"email" validate:"required,farmemail,max=254"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required,max=128"`
	AdminKey string `json:"admin_key" validate:"required"`
}

// LoginRequest accepts an email or a mobile number as login_id.
type LoginRequest struct {
	LoginID  string `json:"login_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest only changes the fields that are present. Mobile is
// accepted for compatibility and ignored.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name,omitempty" validate:"omitempty,fullname,max=100"`
	Email           *string `json:"email,omitempty" validate:"omitempty,farmemail,max=254"`
	Mobile          *string `json:"mobile,omitempty"`
	State           *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Region          *string `json:"region,omitempty" validate:"omitempty,max=100"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty" validate:"omitempty,max=128"`
}

// ----------------------
// Responses
// ----------------------

type UserResponse struct {
	ID           string              `json:"id"`
	FullName     string              `json:"full_name"`
	Email        string              `json:"email"`
	Mobile       string              `json:"mobile"`
	IsAdmin      bool                `json:"is_admin"`
	State        *string             `json:"state,omitempty"`
	Region       *string             `json:"region,omitempty"`
	ProfileImage models.ProfileImage `json:"profile_image"`
	LastLogin    *time.Time          `json:"last_login,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		FullName:     u.FullName,
		Email:        u.Email,
		Mobile:       u.Mobile,
		IsAdmin:      u.IsAdmin,
		State:        u.State,
		Region:       u.Region,
		ProfileImage: u.ProfileImage,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type LoginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type ProfileResponse struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
