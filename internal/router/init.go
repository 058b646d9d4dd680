package router

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/config"
	"github.com/oksasatya/deploydash/internal/application"
	"github.com/oksasatya/deploydash/internal/container"
	repo "github.com/oksasatya/deploydash/internal/domain/repository"
	esinfra "github.com/oksasatya/deploydash/internal/infrastructure/elasticsearch"
	gcsinfra "github.com/oksasatya/deploydash/internal/infrastructure/gcs"
	"github.com/oksasatya/deploydash/internal/infrastructure/identity"
	"github.com/oksasatya/deploydash/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/deploydash/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/deploydash/internal/interface/http"
	"github.com/oksasatya/deploydash/internal/router/modules"
	"github.com/oksasatya/deploydash/pkg/helpers"
	"github.com/oksasatya/deploydash/pkg/mailer"
)

type repositories struct {
	Users    repo.UserRepository
	Teams    repo.TeamRepository
	Projects repo.ProjectRepository
	// Directory serves user search; Indexer is nil unless search runs on Elasticsearch.
	Directory repo.UserDirectory
	Indexer   repo.UserIndexer
}

func buildRepositories(cfg *config.Config) repositories {
	var r repositories
	if store := container.GetMemoryStore(); store != nil {
		users := memory.NewUserRepository(store)
		r.Users, r.Directory = users, users
		r.Teams = memory.NewTeamRepository(store)
		r.Projects = memory.NewProjectRepository(store)
	} else {
		pool := container.GetPGPool()
		users := pginfra.NewUserRepository(pool)
		r.Users, r.Directory = users, users
		r.Teams = pginfra.NewTeamRepository(pool)
		r.Projects = pginfra.NewProjectRepository(pool)
	}

	if cfg.UseElasticsearch() && container.GetES() != nil {
		idx := esinfra.NewUserIndex(container.GetES(), cfg.ESUsersIndex)
		r.Directory, r.Indexer = idx, idx
	}
	return r
}

func buildVerifier(cfg *config.Config) application.IdentityVerifier {
	if v := container.GetIdentityVerifier(); v != nil {
		return v
	}
	return identity.NewGoogleVerifier(cfg.GoogleClientID)
}

// buildAvatarStore returns a nil interface, not a typed nil, when mirroring is off.
func buildAvatarStore(cfg *config.Config) application.AvatarStore {
	if container.GetGCS() == nil || cfg.GCSBucket == "" {
		return nil
	}
	return gcsinfra.NewAvatarStore(container.GetGCS(), cfg.GCSBucket)
}

func buildNotifier(logger *logrus.Logger) application.InvitationNotifier {
	if n := container.GetNotifier(); n != nil {
		return n
	}
	return mailer.LogNotifier{Logger: logger}
}

// InitModules wires repositories, services and handlers from the container and adds
// every feature module to the registry. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	if cfg == nil {
		cfg = config.Load()
	}
	logger := container.GetLogger()
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	jwt := container.GetJWT()
	repos := buildRepositories(cfg)

	authSvc := application.NewAuthService(repos.Users, buildVerifier(cfg), jwt, buildAvatarStore(cfg), repos.Indexer, logger)
	teamSvc := application.NewTeamService(repos.Users, repos.Teams, buildNotifier(logger), logger)
	dirSvc := application.NewDirectoryService(repos.Directory, logger)
	projectSvc := application.NewProjectService(repos.Projects, logger)

	var deploySvc *application.DeployService
	if agent := container.GetDeployAgent(); agent != nil {
		deploySvc = application.NewDeployService(agent, projectSvc, logger)
	}

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), jwt))
	r.Add(modules.NewTeamModule(handlers.NewTeamHandler(teamSvc, dirSvc, logger), jwt))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(projectSvc, deploySvc, logger), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(nil))
	}
}
