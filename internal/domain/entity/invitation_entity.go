package entity

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Invitation is owned by a Team and has no lifecycle of its own.
type Invitation struct {
	Email     string
	Token     string
	Status    InvitationStatus
	InvitedAt time.Time
}

// PendingInvitation is an invitation addressed to a user, seen from the invitee's side.
type PendingInvitation struct {
	TeamID    string
	TeamName  string
	Owner     UserSummary
	Token     string
	InvitedAt time.Time
}
