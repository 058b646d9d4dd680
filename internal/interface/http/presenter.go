package handlers

import (
	"time"

	"github.com/oksasatya/deploydash/internal/domain/entity"
)

// JSON shapes use the field names the dashboard client reads.

type userJSON struct {
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	GoogleID       string    `json:"googleId,omitempty"`
	ProfilePicture string    `json:"profilePicture"`
	TeamID         *string   `json:"teamId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type userSummaryJSON struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

type invitationJSON struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Status    string    `json:"status"`
	InvitedAt time.Time `json:"invitedAt"`
}

// teamJSON carries ids in owner/members, or summaries for the expanded my-team view.
type teamJSON struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Owner       any              `json:"owner"`
	Members     any              `json:"members"`
	Invitations []invitationJSON `json:"invitations"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type pendingInvitationJSON struct {
	TeamID    string          `json:"teamId"`
	TeamName  string          `json:"teamName"`
	Owner     userSummaryJSON `json:"owner"`
	Token     string          `json:"token"`
	InvitedAt time.Time       `json:"invitedAt"`
}

type projectJSON struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Port      int       `json:"port"`
	URL       string    `json:"url"`
	Owner     string    `json:"owner"`
	TeamID    *string   `json:"teamId"`
	CreatedAt time.Time `json:"createdAt"`
}

func presentUser(u *entity.User) userJSON {
	return userJSON{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		GoogleID:       u.GoogleID,
		ProfilePicture: u.ProfilePicture,
		TeamID:         u.TeamID,
		CreatedAt:      u.CreatedAt,
	}
}

func presentSummary(s entity.UserSummary) userSummaryJSON {
	return userSummaryJSON{ID: s.ID, Username: s.Username, Email: s.Email, ProfilePicture: s.ProfilePicture}
}

func presentSummaries(in []entity.UserSummary) []userSummaryJSON {
	out := make([]userSummaryJSON, 0, len(in))
	for _, s := range in {
		out = append(out, presentSummary(s))
	}
	return out
}

func presentInvitations(in []entity.Invitation) []invitationJSON {
	out := make([]invitationJSON, 0, len(in))
	for _, inv := range in {
		out = append(out, invitationJSON{
			Email:     inv.Email,
			Token:     inv.Token,
			Status:    string(inv.Status),
			InvitedAt: inv.InvitedAt,
		})
	}
	return out
}

func presentTeam(t *entity.Team) teamJSON {
	members := t.MemberIDs
	if members == nil {
		members = []string{}
	}
	return teamJSON{
		ID:          t.ID,
		Name:        t.Name,
		Owner:       t.OwnerID,
		Members:     members,
		Invitations: presentInvitations(t.Invitations),
		CreatedAt:   t.CreatedAt,
	}
}

func presentTeamDetails(d *entity.TeamDetails) teamJSON {
	out := presentTeam(&d.Team)
	out.Owner = presentSummary(d.Owner)
	out.Members = presentSummaries(d.Members)
	return out
}

func presentPendingInvitations(in []entity.PendingInvitation) []pendingInvitationJSON {
	out := make([]pendingInvitationJSON, 0, len(in))
	for _, p := range in {
		out = append(out, pendingInvitationJSON{
			TeamID:    p.TeamID,
			TeamName:  p.TeamName,
			Owner:     presentSummary(p.Owner),
			Token:     p.Token,
			InvitedAt: p.InvitedAt,
		})
	}
	return out
}

func presentProject(p *entity.Project) projectJSON {
	return projectJSON{
		ID:        p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Port:      p.Port,
		URL:       p.URL,
		Owner:     p.OwnerID,
		TeamID:    p.TeamID,
		CreatedAt: p.CreatedAt,
	}
}

func presentProjects(in []entity.Project) []projectJSON {
	out := make([]projectJSON, 0, len(in))
	for i := range in {
		out = append(out, presentProject(&in[i]))
	}
	return out
}
