package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	repo "github.com/oksasatya/deploydash/internal/domain/repository"
	"github.com/oksasatya/deploydash/pkg/helpers"
	"github.com/oksasatya/deploydash/pkg/mailer"
)

const maxTeamNameLen = 100

var validate = validator.New()

// TeamService covers the team and invitation lifecycle.
type TeamService struct {
	Users    repo.UserRepository
	Teams    repo.TeamRepository
	Notifier InvitationNotifier
	Logger   *logrus.Logger

	// overridable in tests
	NewToken func() (string, error)
	Now      func() time.Time
}

func NewTeamService(users repo.UserRepository, teams repo.TeamRepository, notifier InvitationNotifier, logger *logrus.Logger) *TeamService {
	return &TeamService{
		Users:    users,
		Teams:    teams,
		Notifier: notifier,
		Logger:   logger,
		NewToken: helpers.GenInvitationToken,
		Now:      time.Now,
	}
}

// CreateTeam creates a team owned by ownerID and invites every address in emails.
// Duplicate addresses are not collapsed.
func (s *TeamService) CreateTeam(ctx context.Context, ownerID, name string, emails []string) (*entity.Team, error) {
	owner, err := s.user(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.HasTeam() {
		return nil, ErrAlreadyInTeam
	}
	name, err = teamName(name)
	if err != nil {
		return nil, err
	}
	invs, err := s.mintInvitations(emails)
	if err != nil {
		return nil, err
	}

	team := &entity.Team{
		ID:          uuid.NewString(),
		Name:        name,
		OwnerID:     owner.ID,
		Invitations: invs,
	}
	if err := s.Teams.Create(ctx, team); err != nil {
		if errors.Is(err, repo.ErrAlreadyInTeam) {
			return nil, ErrAlreadyInTeam
		}
		return nil, err
	}
	s.logInfo("team created", logrus.Fields{"team_id": team.ID, "owner_id": owner.ID, "invitations": len(invs)})

	s.notify(ctx, team.Name, owner.Username, invs)
	return team, nil
}

// GetMyTeam returns the caller's team with owner and members expanded.
func (s *TeamService) GetMyTeam(ctx context.Context, userID string) (*entity.TeamDetails, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasTeam() {
		return nil, ErrTeamNotFound
	}
	team, err := s.Teams.GetByID(ctx, *u.TeamID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return s.expand(ctx, team)
}

func (s *TeamService) RenameTeam(ctx context.Context, callerID, name string) (*entity.Team, error) {
	name, err := teamName(name)
	if err != nil {
		return nil, err
	}
	_, team, err := s.ownedTeam(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.Teams.UpdateName(ctx, team.ID, name); err != nil {
		return nil, err
	}
	team.Name = name
	return team, nil
}

// DeleteTeam clears every member's team reference and removes the team. Owner only.
func (s *TeamService) DeleteTeam(ctx context.Context, callerID string) error {
	_, team, err := s.ownedTeam(ctx, callerID)
	if err != nil {
		return err
	}
	if err := s.Teams.Delete(ctx, team.ID); err != nil {
		return err
	}
	s.logInfo("team deleted", logrus.Fields{"team_id": team.ID, "members": len(team.MemberIDs)})
	return nil
}

func (s *TeamService) LeaveTeam(ctx context.Context, callerID string) error {
	u, team, err := s.currentTeam(ctx, callerID)
	if err != nil {
		return err
	}
	if team.IsOwner(u.ID) {
		return ErrOwnerCannotLeave
	}
	if err := s.Teams.RemoveMember(ctx, team.ID, u.ID); err != nil {
		return err
	}
	s.logInfo("member left team", logrus.Fields{"team_id": team.ID, "user_id": u.ID})
	return nil
}

// Invite appends a pending invitation per address. The caller is expected to filter
// out existing members and pending invitees.
func (s *TeamService) Invite(ctx context.Context, ownerID string, emails []string) (*entity.Team, error) {
	if len(emails) == 0 {
		return nil, invalid("emails", "must contain at least 1 item(s)")
	}
	owner, team, err := s.ownedTeam(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	invs, err := s.mintInvitations(emails)
	if err != nil {
		return nil, err
	}
	if err := s.Teams.AddInvitations(ctx, team.ID, invs); err != nil {
		return nil, err
	}
	team.Invitations = append(team.Invitations, invs...)
	s.logInfo("invitations added", logrus.Fields{"team_id": team.ID, "count": len(invs)})

	s.notify(ctx, team.Name, owner.Username, invs)
	return team, nil
}

// ListMyInvitations returns one pending invitation per team addressed to the caller's email.
func (s *TeamService) ListMyInvitations(ctx context.Context, userID string) ([]entity.PendingInvitation, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Teams.ListPendingInvitations(ctx, u.Email)
}

// AcceptInvitation joins the caller to the inviting team. A token can be accepted once.
func (s *TeamService) AcceptInvitation(ctx context.Context, userID, token string) (*entity.Team, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.HasTeam() {
		return nil, ErrAlreadyInTeam
	}
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidInvitation
	}
	team, err := s.Teams.AcceptInvitation(ctx, token, u.Email, u.ID)
	switch {
	case errors.Is(err, repo.ErrInvitationNotPending):
		return nil, ErrInvalidInvitation
	case errors.Is(err, repo.ErrAlreadyInTeam):
		return nil, ErrAlreadyInTeam
	case err != nil:
		return nil, err
	}
	s.logInfo("invitation accepted", logrus.Fields{"team_id": team.ID, "user_id": u.ID})
	return team, nil
}

func (s *TeamService) RejectInvitation(ctx context.Context, userID, token string) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return ErrInvalidInvitation
	}
	if err := s.Teams.RejectInvitation(ctx, token, u.Email); err != nil {
		if errors.Is(err, repo.ErrInvitationNotPending) {
			return ErrInvalidInvitation
		}
		return err
	}
	return nil
}

func (s *TeamService) user(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// currentTeam loads the caller and the team they reference. A reference to a team
// that no longer exists, or that does not list the caller, counts as no team.
func (s *TeamService) currentTeam(ctx context.Context, userID string) (*entity.User, *entity.Team, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !u.HasTeam() {
		return nil, nil, ErrNotInTeam
	}
	team, err := s.Teams.GetByID(ctx, *u.TeamID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrNotInTeam
		}
		return nil, nil, err
	}
	if !team.HasMember(u.ID) {
		return nil, nil, ErrNotInTeam
	}
	return u, team, nil
}

func (s *TeamService) ownedTeam(ctx context.Context, userID string) (*entity.User, *entity.Team, error) {
	u, team, err := s.currentTeam(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !team.IsOwner(u.ID) {
		return nil, nil, ErrNotOwner
	}
	return u, team, nil
}

func (s *TeamService) mintInvitations(emails []string) ([]entity.Invitation, error) {
	now := s.Now().UTC()
	invs := make([]entity.Invitation, 0, len(emails))
	for i, raw := range emails {
		email := normalizeEmail(raw)
		if email == "" {
			return nil, invalid("emails["+strconv.Itoa(i)+"]", "is required")
		}
		if validate.Var(email, "email") != nil {
			return nil, invalid("emails["+strconv.Itoa(i)+"]", "must be a valid email")
		}
		token, err := s.NewToken()
		if err != nil {
			return nil, err
		}
		invs = append(invs, entity.Invitation{
			Email:     email,
			Token:     token,
			Status:    entity.InvitationPending,
			InvitedAt: now,
		})
	}
	return invs, nil
}

func teamName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return "", invalid("name", "is required")
	case utf8.RuneCountInString(name) > maxTeamNameLen:
		return "", invalid("name", "must be at most 100 characters long")
	}
	return name, nil
}

func (s *TeamService) notify(ctx context.Context, teamName, inviterName string, invs []entity.Invitation) {
	if s.Notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, inv := range invs {
		s.Notifier.NotifyInvitation(ctx, mailer.InvitationNotice{
			To:          inv.Email,
			TeamName:    teamName,
			Token:       inv.Token,
			InviterName: inviterName,
		})
	}
}

func (s *TeamService) expand(ctx context.Context, team *entity.Team) (*entity.TeamDetails, error) {
	ids := make([]string, 0, len(team.MemberIDs)+1)
	ids = append(ids, team.OwnerID)
	for _, id := range team.MemberIDs {
		if id != team.OwnerID {
			ids = append(ids, id)
		}
	}
	users, err := s.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}

	details := &entity.TeamDetails{Team: *team, Members: make([]entity.UserSummary, 0, len(team.MemberIDs))}
	details.Owner = byID[team.OwnerID]
	for _, id := range team.MemberIDs {
		if sum, ok := byID[id]; ok {
			details.Members = append(details.Members, sum)
		}
	}
	return details, nil
}

func (s *TeamService) logInfo(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Info(msg)
	}
}
