package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/config"
	"github.com/oksasatya/deploydash/internal/application"
	"github.com/oksasatya/deploydash/internal/container"
	"github.com/oksasatya/deploydash/internal/domain/repository"
	esinfra "github.com/oksasatya/deploydash/internal/infrastructure/elasticsearch"
	"github.com/oksasatya/deploydash/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/deploydash/internal/infrastructure/postgres"
	"github.com/oksasatya/deploydash/internal/interface/middleware"
	"github.com/oksasatya/deploydash/internal/router"
	"github.com/oksasatya/deploydash/pkg/deployagent"
	"github.com/oksasatya/deploydash/pkg/helpers"
	"github.com/oksasatya/deploydash/pkg/mailer"
	"github.com/oksasatya/deploydash/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Storage: Postgres with migrations, or an in-process store for local runs
	var (
		store   *memory.Store
		userSrc repository.UserSource
	)
	if cfg.UseMemoryStorage() {
		logger.Warn("STORAGE_DRIVER=memory: data is kept in process memory and lost on exit")
		store = memory.NewStore()
		container.SetMemoryStore(store)
		userSrc = memory.NewUserRepository(store)
	} else {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		logger.Info("running migrations...")
		ran, err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir)
		if err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		if !ran {
			logger.Info("no migrations to run")
		}
		container.SetPGPool(pool)
		userSrc = pginfra.NewUserRepository(pool)
	}

	// Redis backs rate limiting; requests fail open when it is down
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		logger.WithError(err).Warn("redis unreachable, rate limits are not enforced")
	}

	// GCS only when avatar mirroring is configured
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("GCS unavailable, avatars are not mirrored")
		} else {
			defer func() { _ = gcsClient.Close() }()
			container.SetGCS(gcsClient)
		}
	}

	if cfg.UseElasticsearch() {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		idx := esinfra.NewUserIndex(es, cfg.ESUsersIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			log.Fatalf("failed to ensure elasticsearch index %q: %v", cfg.ESUsersIndex, err)
		}
		// search would miss users created while the index was off or unreachable
		n, err := idx.Backfill(ctx, userSrc, logger)
		if err != nil {
			logger.WithError(err).Warn("user index backfill incomplete")
		} else {
			logger.WithField("users", n).Info("user index backfilled")
		}
		container.SetES(es)
	}

	// Invitation emails: in-process queue in front of RabbitMQ, drained by cmd/email_worker
	var dispatcher *mailer.Dispatcher
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, invitation emails are only logged")
		} else {
			defer pub.Close()
			dispatcher = mailer.NewDispatcher(pub, logger, 256)
			dispatcher.Start()
			container.SetNotifier(mailer.NewQueueNotifier(dispatcher, cfg))
		}
	}

	if cfg.DeployAgentURL != "" {
		container.SetDeployAgent(newDeployAgent(cfg))
	} else {
		logger.Info("DEPLOY_AGENT_URL not set, /api/project/deploy is disabled")
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL))

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.NewMetrics(prometheus.DefaultRegisterer, "deploydash").Handler())
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	if dispatcher != nil {
		dispatcher.Close(5 * time.Second)
	}
	if store != nil {
		logger.WithFields(logrus.Fields{
			"users": len(store.UserIDs()),
			"teams": len(store.TeamIDs()),
		}).Warn("memory store discarded")
	}
	logger.Info("server exited properly")
}

func newDeployAgent(cfg *config.Config) application.DeployAgent {
	return deployagent.New(cfg.DeployAgentURL, cfg.DeployAgentToken, deployagent.WithTimeout(cfg.DeployAgentTimeout))
}
