// Package memory keeps every repository in process memory. It backs the
// STORAGE_DRIVER=memory local mode and the service and handler tests; state is lost on exit.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/internal/domain/repository"
)

type Store struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	userOrder []string
	teams     map[string]*entity.Team
	teamOrder []string
	projects  []entity.Project

	// Now stamps CreatedAt; replace it for deterministic ordering.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: map[string]*entity.User{},
		teams: map[string]*entity.Team{},
		Now:   time.Now,
	}
}

// UserIDs and TeamIDs list stored ids in insertion order.
func (s *Store) UserIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userOrder...)
}

func (s *Store) TeamIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.teams))
	for _, id := range s.teamOrder {
		if _, ok := s.teams[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func cloneTeam(t *entity.Team) *entity.Team {
	c := *t
	c.MemberIDs = append([]string(nil), t.MemberIDs...)
	c.Invitations = append([]entity.Invitation(nil), t.Invitations...)
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.TeamID != nil {
		id := *u.TeamID
		c.TeamID = &id
	}
	return &c
}

type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.CreatedAt = r.s.Now().UTC()
	r.s.users[u.ID] = cloneUser(u)
	r.s.userOrder = append(r.s.userOrder, u.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByIDs(_ context.Context, ids []string) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

// Each visits a snapshot of the users without holding the store lock during fn.
func (r *UserRepository) Each(ctx context.Context, fn func(entity.User) error) error {
	for _, id := range r.s.UserIDs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		u, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if err := fn(*u); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) SearchByEmail(_ context.Context, query string, limit int) ([]entity.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(query)
	out := []entity.UserSummary{}
	for _, id := range r.s.userOrder {
		u := r.s.users[id]
		if strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u.Summary())
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type TeamRepository struct{ s *Store }

func NewTeamRepository(s *Store) *TeamRepository { return &TeamRepository{s: s} }

func (r *TeamRepository) Create(_ context.Context, t *entity.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner, ok := r.s.users[t.OwnerID]
	if !ok {
		return repository.ErrNotFound
	}
	if owner.TeamID != nil {
		return repository.ErrAlreadyInTeam
	}
	t.CreatedAt = r.s.Now().UTC()
	t.MemberIDs = []string{t.OwnerID}
	r.s.teams[t.ID] = cloneTeam(t)
	r.s.teamOrder = append(r.s.teamOrder, t.ID)
	id := t.ID
	owner.TeamID = &id
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (*entity.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTeam(t), nil
}

func (r *TeamRepository) UpdateName(_ context.Context, id, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teams[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Name = name
	return nil
}

func (r *TeamRepository) AddInvitations(_ context.Context, teamID string, invs []entity.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teams[teamID]
	if !ok {
		return repository.ErrNotFound
	}
	t.Invitations = append(t.Invitations, invs...)
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[id]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range r.s.users {
		if u.TeamID != nil && *u.TeamID == id {
			u.TeamID = nil
		}
	}
	delete(r.s.teams, id)
	return nil
}

func (r *TeamRepository) RemoveMember(_ context.Context, teamID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teams[teamID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := make([]string, 0, len(t.MemberIDs))
	for _, id := range t.MemberIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	t.MemberIDs = kept
	if u, ok := r.s.users[userID]; ok && u.TeamID != nil && *u.TeamID == teamID {
		u.TeamID = nil
	}
	return nil
}

func (r *TeamRepository) ListPendingInvitations(_ context.Context, email string) ([]entity.PendingInvitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.PendingInvitation{}
	for _, id := range r.s.teamOrder {
		t, ok := r.s.teams[id]
		if !ok {
			continue
		}
		inv, ok := t.PendingInvitationFor(email)
		if !ok {
			continue
		}
		var owner entity.UserSummary
		if u, ok := r.s.users[t.OwnerID]; ok {
			owner = u.Summary()
		}
		out = append(out, entity.PendingInvitation{
			TeamID:    t.ID,
			TeamName:  t.Name,
			Owner:     owner,
			Token:     inv.Token,
			InvitedAt: inv.InvitedAt,
		})
	}
	return out, nil
}

func (r *TeamRepository) findPending(token, email string) (*entity.Team, int) {
	for _, t := range r.s.teams {
		for i, inv := range t.Invitations {
			if inv.Token == token && inv.Email == email && inv.Status == entity.InvitationPending {
				return t, i
			}
		}
	}
	return nil, -1
}

func (r *TeamRepository) AcceptInvitation(_ context.Context, token, email, userID string) (*entity.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, i := r.findPending(token, email)
	if t == nil {
		return nil, repository.ErrInvitationNotPending
	}
	u, ok := r.s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if u.TeamID != nil {
		return nil, repository.ErrAlreadyInTeam
	}
	t.Invitations[i].Status = entity.InvitationAccepted
	t.MemberIDs = append(t.MemberIDs, userID)
	id := t.ID
	u.TeamID = &id
	return cloneTeam(t), nil
}

func (r *TeamRepository) RejectInvitation(_ context.Context, token, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, i := r.findPending(token, email)
	if t == nil {
		return repository.ErrInvitationNotPending
	}
	t.Invitations[i].Status = entity.InvitationRejected
	return nil
}

type ProjectRepository struct{ s *Store }

func NewProjectRepository(s *Store) *ProjectRepository { return &ProjectRepository{s: s} }

func (r *ProjectRepository) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.CreatedAt = r.s.Now().UTC()
	r.s.projects = append(r.s.projects, *p)
	return nil
}

func (r *ProjectRepository) ListVisible(_ context.Context, ownerID string, teamID *string) ([]entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.Project{}
	// newest first
	for i := len(r.s.projects) - 1; i >= 0; i-- {
		p := r.s.projects[i]
		if p.OwnerID == ownerID || (teamID != nil && p.TeamID != nil && *p.TeamID == *teamID) {
			out = append(out, p)
		}
	}
	return out, nil
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.UserDirectory     = (*UserRepository)(nil)
	_ repository.UserSource        = (*UserRepository)(nil)
	_ repository.TeamRepository    = (*TeamRepository)(nil)
	_ repository.ProjectRepository = (*ProjectRepository)(nil)
)
