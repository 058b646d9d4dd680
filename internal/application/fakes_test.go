package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/internal/infrastructure/memory"
	"github.com/oksasatya/deploydash/pkg/mailer"
)

type testStore struct {
	*memory.Store
	users    *memory.UserRepository
	teams    *memory.TeamRepository
	projects *memory.ProjectRepository
}

func newTestStore() *testStore {
	s := memory.NewStore()
	return &testStore{
		Store:    s,
		users:    memory.NewUserRepository(s),
		teams:    memory.NewTeamRepository(s),
		projects: memory.NewProjectRepository(s),
	}
}

func (s *testStore) addUser(id, email, name string) *entity.User {
	u := &entity.User{ID: id, Email: email, Username: name}
	if err := s.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (s *testStore) userTeam(id string) *string {
	u, err := s.users.GetByID(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return u.TeamID
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []mailer.InvitationNotice
}

func (n *recordingNotifier) NotifyInvitation(_ context.Context, notice mailer.InvitationNotice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) sent() []mailer.InvitationNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mailer.InvitationNotice(nil), n.notices...)
}

func seqTokens() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("tok-%d", n), nil
	}
}
