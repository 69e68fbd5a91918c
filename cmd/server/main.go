package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/api"
	"github.com/lalith-99/interskill/internal/chat"
	"github.com/lalith-99/interskill/internal/config"
	"github.com/lalith-99/interskill/internal/db"
	"github.com/lalith-99/interskill/internal/middleware"
	"github.com/lalith-99/interskill/internal/notify"
	"github.com/lalith-99/interskill/internal/observ"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/repository/memory"
	"github.com/lalith-99/interskill/internal/repository/mongostore"
	"github.com/lalith-99/interskill/internal/repository/postgres"
	"github.com/lalith-99/interskill/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Cancelled on SIGINT/SIGTERM; every background loop stops with it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 3. Open the store
	// ---------------------------------------------------------------
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// ---------------------------------------------------------------
	// 4. Chat fan-out
	//
	// With REDIS_URL every instance publishes to and delivers from one
	// Redis channel, so users on different instances can talk. Without
	// it delivery stays in-process.
	// ---------------------------------------------------------------
	hub := chat.NewHub(logger)
	var relay service.Relay = chat.NewLocalRelay(hub)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}

		redisRelay := chat.NewRedisRelay(rdb, hub, logger)
		if err := redisRelay.Start(ctx); err != nil {
			return err
		}
		relay = redisRelay
		logger.Info("chat relay: redis", zap.String("channel", chat.DefaultRedisChannel))
	}

	// ---------------------------------------------------------------
	// 5. Lead notifications
	// ---------------------------------------------------------------
	var notifier service.LeadNotifier
	if cfg.AMQPURL != "" {
		mq, err := notify.Dial(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer mq.Close()
		notifier = notify.NewPublisher(mq.Ch)

		if cfg.SMTPHost != "" {
			mailer, err := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.NotifyFrom, cfg.NotifyTo)
			if err != nil {
				return fmt.Errorf("create mailer: %w", err)
			}
			worker := notify.NewWorker(mq.Ch, mailer, logger)
			go func() {
				if err := worker.Run(ctx); err != nil {
					logger.Error("notification worker stopped", zap.Error(err))
				}
			}()
		} else {
			logger.Warn("SMTP_HOST not set, lead events are queued but not e-mailed")
		}
	}

	// ---------------------------------------------------------------
	// 6. Services
	// ---------------------------------------------------------------
	users := service.NewUserService(store.Users, store.Requests, cfg.JWTSecret, cfg.TokenTTL, logger)
	if created, err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	} else if created {
		logger.Info("admin account created", zap.String("username", cfg.AdminUsername))
	}

	deps := api.Deps{
		Leads:          service.NewLeadService(store.Leads, notifier, logger),
		Chat:           service.NewChatService(store.Messages, relay, logger),
		Users:          users,
		Requests:       service.NewRequestService(store.Requests, store.Users, logger),
		Stats:          service.NewStatService(store.Stats),
		Categories:     service.NewCategoryService(store.Categories, logger),
		Reviews:        service.NewReviewService(store.Reviews, logger),
		Hub:            hub,
		Ping:           store.Ping,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSOrigins,
		Logger:         logger,
	}
	if cfg.LeadRateLimit > 0 {
		deps.LeadLimiter = middleware.NewLimiter(cfg.LeadRateLimit, time.Minute)
		go deps.LeadLimiter.Cleanup(ctx)
	}

	// ---------------------------------------------------------------
	// 7. HTTP server
	// ---------------------------------------------------------------
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.WithCORS(api.NewRouter(deps), cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting InterSkill",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore connects the configured backend and returns its repositories
// plus a func that releases the connection.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		m, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to mongo: %w", err)
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.Close(ctx); err != nil {
				logger.Warn("close mongo", zap.Error(err))
			}
		}
		if err := mongostore.EnsureIndexes(ctx, m.Database()); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return mongostore.New(m.Database(), m.Health), closeFn, nil

	case config.DriverPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return postgres.New(database.Pool()), database.Close, nil

	default:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.New(), func() {}, nil
	}
}
