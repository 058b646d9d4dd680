package repository

import (
	"context"

	"github.com/oksasatya/deploydash/internal/domain/entity"
)

// TeamRepository owns teams, memberships and invitations.
// Multi-row mutations are atomic: either every row changes or none does.
type TeamRepository interface {
	// Create stores the team, its owner membership and invitations and points the
	// owner at the team. Returns ErrAlreadyInTeam if the owner already holds a team.
	Create(ctx context.Context, t *entity.Team) error
	GetByID(ctx context.Context, id string) (*entity.Team, error)
	UpdateName(ctx context.Context, id, name string) error
	AddInvitations(ctx context.Context, teamID string, invs []entity.Invitation) error
	// Delete clears the team reference of every member and removes the team.
	Delete(ctx context.Context, id string) error
	// RemoveMember drops the membership and clears the user's team reference.
	RemoveMember(ctx context.Context, teamID, userID string) error
	ListPendingInvitations(ctx context.Context, email string) ([]entity.PendingInvitation, error)
	// AcceptInvitation flips a pending invitation for (token, email) to accepted and adds
	// the user as member. Returns ErrInvitationNotPending or ErrAlreadyInTeam.
	AcceptInvitation(ctx context.Context, token, email, userID string) (*entity.Team, error)
	// RejectInvitation flips a pending invitation for (token, email) to rejected.
	RejectInvitation(ctx context.Context, token, email string) error
}
