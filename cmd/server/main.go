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

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/config"
	"resto_pos_terminal/internal/database"
	"resto_pos_terminal/internal/events"
	"resto_pos_terminal/internal/gateway"
	"resto_pos_terminal/internal/repositories"
	"resto_pos_terminal/internal/router"
	"resto_pos_terminal/internal/services"
	"resto_pos_terminal/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)
	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTTTL)
	if cfg.JWTSecret == "" {
		utils.LogWarn("JWT_SECRET not set, using the built-in development secret", map[string]interface{}{"gin_mode": cfg.GinMode})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := gateway.NewClient(gateway.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})

	sessions, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		utils.LogError(err, "Failed to open session store", map[string]interface{}{"store": cfg.SessionStore})
		os.Exit(1)
	}
	defer closeSessions()

	var publisher events.Publisher = events.LogPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATSURL, "resto-pos-"+cfg.TerminalID)
		if err != nil {
			utils.LogError(err, "NATS unavailable, events will only be logged")
		} else {
			publisher = natsPublisher
		}
	}
	defer publisher.Close()

	feedback := services.NewFeedbackService(cfg.NotificationTTL)
	state := services.NewStateService(backend, services.StateOptions{
		Publisher:     publisher,
		CurrencyScale: cfg.CurrencyScale,
	})
	auth := services.NewAuthService(backend, sessions, cfg.TerminalID, cfg.AdminRoleCode)

	if cfg.SeedFile != "" {
		seed, err := config.LoadSeed(cfg.SeedFile)
		if err != nil {
			utils.LogError(err, "Failed to load seed file", map[string]interface{}{"path": cfg.SeedFile})
			os.Exit(1)
		}
		if err := state.SeedTables(seed.Tables); err != nil {
			utils.LogError(err, "Invalid seed tables")
			os.Exit(1)
		}
		if err := state.SeedIngredients(seed.Ingredients); err != nil {
			utils.LogError(err, "Invalid seed ingredients")
			os.Exit(1)
		}
	}

	if session, err := auth.Restore(ctx); err != nil {
		utils.LogError(err, "Failed to restore terminal session")
	} else if session != nil {
		utils.LogInfo("Terminal session restored", map[string]interface{}{"principal": session.User.DisplayName})
	}
	if err := state.Hydrate(ctx); err != nil {
		// The terminal still works from the seed until the backend answers.
		utils.LogError(err, "Initial state load failed")
	}

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	router.Setup(engine, router.Deps{
		State:          state,
		Auth:           auth,
		Customers:      services.NewCustomerService(backend, auth),
		Promotions:     services.NewPromotionService(backend),
		Settings:       services.NewSettingService(sessions, cfg.TerminalID),
		Feedback:       feedback,
		Suppliers:      backend,
		Archive:        backend,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "terminal_id": cfg.TerminalID})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
}

// openSessionStore picks the session repository named by SESSION_STORE.
func openSessionStore(ctx context.Context, cfg *config.Config) (repositories.SessionRepository, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		db, err := database.OpenDB(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresSessionRepository(db), func() { db.Close() }, nil
	case config.SessionStoreRedis:
		client, err := repositories.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisSessionRepository(client, "", cfg.SessionTTL), func() { client.Close() }, nil
	default:
		return repositories.NewMemorySessionRepository(), func() {}, nil
	}
}
