package entity

import "time"

// Team is the aggregate root for membership and invitations.
// The owner is always part of MemberIDs; invitations keep insertion order.
type Team struct {
	ID          string
	Name        string
	OwnerID     string
	MemberIDs   []string
	Invitations []Invitation
	CreatedAt   time.Time
}

func (t *Team) IsOwner(userID string) bool {
	return t.OwnerID == userID
}

func (t *Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// PendingInvitationFor returns the first pending invitation addressed to email.
func (t *Team) PendingInvitationFor(email string) (Invitation, bool) {
	for _, inv := range t.Invitations {
		if inv.Email == email && inv.Status == InvitationPending {
			return inv, true
		}
	}
	return Invitation{}, false
}

// TeamDetails is a team with owner and members expanded to summaries.
type TeamDetails struct {
	Team
	Owner   UserSummary
	Members []UserSummary
}
