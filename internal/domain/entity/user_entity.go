package entity

import (
	"time"
)

// User is provisioned on first successful identity verification.
// TeamID is a weak reference; nil when the user holds no team.
type User struct {
	ID             string
	Email          string
	Username       string
	GoogleID       string
	ProfilePicture string
	TeamID         *string
	CreatedAt      time.Time
}

// HasTeam reports whether the user currently references a team.
func (u *User) HasTeam() bool {
	return u.TeamID != nil && *u.TeamID != ""
}

// UserSummary is the public projection used for team members, owners and search results.
type UserSummary struct {
	ID             string
	Email          string
	Username       string
	ProfilePicture string
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Username: u.Username, ProfilePicture: u.ProfilePicture}
}
