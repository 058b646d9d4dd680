package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/config"
	"github.com/oksasatya/deploydash/internal/application"
	"github.com/oksasatya/deploydash/internal/infrastructure/memory"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	memStore    *memory.Store
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client

	jwtManager *helpers.JWTManager

	verifier    application.IdentityVerifier
	notifier    application.InvitationNotifier
	deployAgent application.DeployAgent
)

func SetConfig(c *config.Config)     { cfg = c }
func GetConfig() *config.Config      { return cfg }
func SetLogger(l *logrus.Logger)     { logger = l }
func GetLogger() *logrus.Logger      { return logger }
func SetPGPool(p *pgxpool.Pool)      { pgPool = p }
func GetPGPool() *pgxpool.Pool       { return pgPool }
func SetMemoryStore(s *memory.Store) { memStore = s }
func GetMemoryStore() *memory.Store  { return memStore }
func SetRedis(r *redis.Client)       { redisClient = r }
func GetRedis() *redis.Client        { return redisClient }
func SetGCS(s *storage.Client)       { gcsClient = s }
func GetGCS() *storage.Client        { return gcsClient }
func SetES(c *elasticsearch.Client)  { esClient = c }
func GetES() *elasticsearch.Client   { return esClient }
func SetJWT(m *helpers.JWTManager)   { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

// SetIdentityVerifier overrides the Google verifier built from config.
func SetIdentityVerifier(v application.IdentityVerifier) { verifier = v }
func GetIdentityVerifier() application.IdentityVerifier  { return verifier }

func SetNotifier(n application.InvitationNotifier) { notifier = n }
func GetNotifier() application.InvitationNotifier  { return notifier }

// SetDeployAgent is left unset when no agent URL is configured.
func SetDeployAgent(a application.DeployAgent) { deployAgent = a }
func GetDeployAgent() application.DeployAgent  { return deployAgent }

// Reset clears every component; tests wire a fresh set per case.
func Reset() {
	cfg, logger, pgPool, memStore = nil, nil, nil, nil
	redisClient, gcsClient, esClient = nil, nil, nil
	jwtManager = nil
	verifier, notifier, deployAgent = nil, nil, nil
}
