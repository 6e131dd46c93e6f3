package models

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatusType string

const (
	AccountStatusActive   AccountStatusType = "active"
	AccountStatusDisabled AccountStatusType = "disabled"
)

// ProfileImage is a DiceBear avatar picked at registration.
type ProfileImage struct {
	Collection string `json:"collection"`
	Seed       string `json:"seed"`
	URL        string `json:"url"`
}

// User is a farmer or an administrator. Admins share the table and differ
// only by IsAdmin.
type User struct {
	Versioned

	ID           uuid.UUID         `json:"id"`
	FullName     string            `json:"full_name"`
	Email        string            `json:"email"`
	Mobile       string            `json:"mobile"`
	PasswordHash string            `json:"-"`
	IsAdmin      bool              `json:"is_admin"`
	ProfileImage ProfileImage      `json:"profile_image"`
	State        *string           `json:"state,omitempty"`
	Region       *string           `json:"region,omitempty"`
	Status       AccountStatusType `json:"status"`
	LastLogin    *time.Time        `json:"last_login,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	NotificationPreferences NotificationPreferences `json:"notification_preferences"`
	PushSubscription        *PushSubscription       `json:"-"`
}

func (u *User) GetID() string {
	return u.ID.String()
}
