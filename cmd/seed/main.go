package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/oksasatya/deploydash/config"
	"github.com/oksasatya/deploydash/internal/domain/entity"
	repo "github.com/oksasatya/deploydash/internal/domain/repository"
	esinfra "github.com/oksasatya/deploydash/internal/infrastructure/elasticsearch"
	pginfra "github.com/oksasatya/deploydash/internal/infrastructure/postgres"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

// seeds two demo users and a team owned by the first one, with a pending invitation
// for the second. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	teams := pginfra.NewTeamRepository(pool)

	owner := ensureUser(ctx, users, "demo.owner@example.com", "demoOwner")
	member := ensureUser(ctx, users, "demo.member@example.com", "demoMember")

	if cfg.UseElasticsearch() {
		indexUsers(ctx, cfg, owner, member)
	}

	if owner.TeamID != nil {
		fmt.Printf("owner already in team %s, nothing to do\n", *owner.TeamID)
		return
	}

	token, err := helpers.GenInvitationToken()
	if err != nil {
		log.Fatalf("failed to mint invitation token: %v", err)
	}
	team := &entity.Team{
		ID:      uuid.NewString(),
		Name:    "Demo Team",
		OwnerID: owner.ID,
		Invitations: []entity.Invitation{{
			Email:     member.Email,
			Token:     token,
			Status:    entity.InvitationPending,
			InvitedAt: time.Now().UTC(),
		}},
	}
	if err := teams.Create(ctx, team); err != nil {
		log.Fatalf("failed to seed team: %v", err)
	}
	fmt.Printf("seeded team: id=%s name=%q owner=%s\n", team.ID, team.Name, owner.Email)
	fmt.Printf("pending invitation for %s: %s\n", member.Email, cfg.AcceptInvitationURL(token))
}

func ensureUser(ctx context.Context, users repo.UserRepository, email, name string) *entity.User {
	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		return u
	}
	if !errors.Is(err, repo.ErrNotFound) {
		log.Fatalf("failed to look up %s: %v", email, err)
	}
	u = &entity.User{ID: uuid.NewString(), Email: email, Username: name}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s\n", u.ID, u.Email, u.Username)
	return u
}

// indexUsers makes seeded users searchable without waiting for their first login.
func indexUsers(ctx context.Context, cfg *config.Config, users ...*entity.User) {
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}
	idx := esinfra.NewUserIndex(es, cfg.ESUsersIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		log.Fatalf("failed to ensure elasticsearch index %q: %v", cfg.ESUsersIndex, err)
	}
	for _, u := range users {
		if err := idx.IndexUser(ctx, u); err != nil {
			log.Fatalf("failed to index user %s: %v", u.Email, err)
		}
	}
	fmt.Printf("indexed %d users into %s\n", len(users), cfg.ESUsersIndex)
}
