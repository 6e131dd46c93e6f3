package auth

import (
	"fmt"
	"time"
)

// Role is the minimum privilege a route demands.
type Role int

const (
	RoleAny Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAny:
		return "any"
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Principal is the verified identity behind a request. It is rebuilt from the
// token on every request and never persisted.
type Principal struct {
	SubjectID string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

// Clock supplies the current instant for expiry computations.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
