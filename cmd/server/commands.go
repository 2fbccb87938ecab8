package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pritamgurung97/Adverts-Nepal/internal/auth"
	"github.com/pritamgurung97/Adverts-Nepal/internal/config"
	"github.com/pritamgurung97/Adverts-Nepal/internal/database"
	"github.com/pritamgurung97/Adverts-Nepal/internal/logging"
	"github.com/pritamgurung97/Adverts-Nepal/internal/metrics"
	"github.com/pritamgurung97/Adverts-Nepal/internal/server"
)

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "adverts",
		Short:         "Adverts Nepal classifieds server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Create the schema if needed and serve HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the users, ads and comments tables and exit",
		RunE: func(*cobra.Command, []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)
			log.Info("schema ready")
			return nil
		},
	})
	return root
}

// bootstrap loads config, builds the logger and opens a migrated database.
func bootstrap() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, dotenv, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, nil, err
	}
	if !dotenv {
		log.Info(".env not loaded, continuing with environment variables")
	}

	db, err := database.Open(cfg.DB, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db, log, server.Models...); err != nil {
		database.Close(db)
		return nil, nil, nil, fmt.Errorf("migrations failed: %w", err)
	}
	return cfg, log, db, nil
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	sessions, closeSessions, err := sessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn("SESSION_SECRET is empty; using a random key, sessions will not survive a restart")
	}
	tokens, err := auth.NewTokenIssuer(secret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	engine, err := server.New(server.Deps{
		DB:                  db,
		Sessions:            sessions,
		Tokens:              tokens,
		Metrics:             metrics.New(),
		Log:                 log,
		SecureCookie:        cfg.CookieSecure,
		TrustForwardedProto: cfg.TrustForwardedProto,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func sessionStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (auth.SessionStore, func(), error) {
	if cfg.RedisAddr == "" {
		log.Info("using in-memory session store")
		return auth.NewMemoryStore(), func() {}, nil
	}
	rdb, err := auth.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("addr", cfg.RedisAddr).Info("using redis session store")
	return auth.NewRedisStore(rdb), func() { rdb.Close() }, nil
}
