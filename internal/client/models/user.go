// Package models defines the client-side data models of meetscribe: identity,
// usage, meeting history and the derived session view.
package models

import (
	"strings"
	"time"
)

// UserProfile is the identity record of the active session.
//
// The locally simulated variant fills Name; the backend-issued variant fills
// FirstName/LastName and LastLoginAt. A non-nil profile means the session is
// authenticated.
type UserProfile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// DisplayName returns the best human-readable name, falling back to the email.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Clone returns a deep copy so callers cannot mutate cached identity.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}
