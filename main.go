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

	"setshaba-be/config"
	"setshaba-be/controllers"
	"setshaba-be/middlewares"
	"setshaba-be/routes"
	"setshaba-be/seed"
	"setshaba-be/store"
	"setshaba-be/store/memory"
	"setshaba-be/store/mongostore"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "setshaba-be",
		Short:         "Setshaba Connect municipal issue portal backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Create the admin account and load demo data into MongoDB",
			RunE:  func(cmd *cobra.Command, _ []string) error { return seedMongo(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run:   func(cmd *cobra.Command, _ []string) { fmt.Fprintln(cmd.OutOrStdout(), version) },
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("building logger: %w", err)
	}
	return cfg, logger, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.StoreBackend != config.BackendMongo {
		logger.Info("using in-memory store; data resets on restart")
		st := memory.New()
		if cfg.SeedData {
			if err := seed.Demo(ctx, st, time.Now()); err != nil {
				return nil, err
			}
		}
		return st, nil
	}

	db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("MongoDB connection established", zap.String("database", cfg.MongoDatabase))

	st := mongostore.New(db, time.Now)
	if err := st.EnsureIndexes(ctx); err != nil {
		_ = st.Close(context.Background())
		return nil, fmt.Errorf("creating indexes: %w", err)
	}
	return st, nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	if cfg.AdminPassword != "" {
		if _, err := seed.EnsureAdmin(ctx, st, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("creating admin account: %w", err)
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set; no admin account will be created")
	}

	var counter middlewares.Counter
	redisClient, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		counter = middlewares.RedisCounter{Client: redisClient}
		logger.Info("issue rate limiting enabled", zap.Int("daily_limit", cfg.IssueDailyLimit))
	} else {
		logger.Warn("REDIS_ADDRESS not set; issue rate limits are counted in process memory",
			zap.Int("daily_limit", cfg.IssueDailyLimit))
	}

	h := controllers.NewHandler(st, cfg, controllers.WithVersion(version))
	router, err := routes.NewRouter(cfg, h, logger, counter)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seedMongo(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.StoreBackend != config.BackendMongo {
		return fmt.Errorf("seed targets MongoDB; set STORE_BACKEND=mongo")
	}
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	if _, err := seed.EnsureAdmin(ctx, st, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}
	if err := seed.Demo(ctx, st, time.Now()); err != nil {
		return err
	}
	logger.Info("seeded MongoDB", zap.String("database", cfg.MongoDatabase))
	return nil
}
