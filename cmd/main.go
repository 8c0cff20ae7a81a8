package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playcrest/playcrest-backend/internal/bots/generators"
	"github.com/playcrest/playcrest-backend/internal/bots/orchestrator"
	"github.com/playcrest/playcrest-backend/internal/bots/safety"
	"github.com/playcrest/playcrest-backend/internal/db"
	"github.com/playcrest/playcrest-backend/internal/handlers"
	"github.com/playcrest/playcrest-backend/internal/middleware"
	"github.com/playcrest/playcrest-backend/internal/observability"
	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/relay"
	"github.com/playcrest/playcrest-backend/internal/relay/bus"
	"github.com/playcrest/playcrest-backend/internal/server"
	"github.com/playcrest/playcrest-backend/internal/services"
	"github.com/playcrest/playcrest-backend/internal/stores"
	"github.com/playcrest/playcrest-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "playcrest-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	port := utils.GetEnv("PORT", "8080", log)
	tickMS := utils.GetEnvAsInt("ORCHESTRATOR_TICK_MS", 5000, log)

	// Postgres (optional; memory stores keep the service usable without it)
	var taskStore stores.TaskStore
	var safetyStore stores.SafetyStore
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Warn("Postgres init failed, using in-memory stores", "error", err)
		taskStore = stores.NewMemoryTaskStore()
		safetyStore = stores.NewMemorySafetyStore()
	} else {
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Warn("Postgres auto migration failed", "error", err)
		}
		taskStore = stores.NewGormTaskStore(postgresService.DB(), log)
		safetyStore = stores.NewGormSafetyStore(postgresService.DB(), log)
	}

	// Generators
	log.Info("Setting up generators from main...")
	templates, err := generators.LoadTemplates()
	if err != nil {
		log.Error("Could not load generator templates", "error", err)
		os.Exit(1)
	}
	imageClient := services.NewImageGenClient(log)
	identityGen := generators.NewIdentityGenerator(log, templates)
	designGen := generators.NewDesignGenerator(log, templates, imageClient)
	schoolGen := generators.NewSchoolGenerator(log, templates)

	// Safety
	moderator := safety.NewModerator(log, safetyStore)

	// Orchestrator
	log.Info("Setting up orchestrator from main...")
	orch := orchestrator.New(log, taskStore, identityGen, designGen, schoolGen, moderator, orchestrator.Config{
		TickInterval: time.Duration(tickMS) * time.Millisecond,
		InsightCap:   utils.GetEnvAsInt("ORCHESTRATOR_INSIGHT_CAP", 0, log),
	})
	orch.Start(ctx)

	// Relay
	log.Info("Setting up relay hub from main...")
	var eventBus bus.Bus
	if utils.GetEnvAsBool("RELAY_BUS_ENABLED", false, log) {
		eventBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Warn("Relay bus init failed, running single-node", "error", err)
			eventBus = nil
		}
	}
	hub := relay.NewHub(log, moderator, eventBus)
	if err := hub.StartForwarder(ctx); err != nil {
		log.Warn("Relay forwarder failed to start", "error", err)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	cardService := services.NewCardArtService(log)
	tasksHandler := handlers.NewTasksHandler(orch)
	cardsHandler := handlers.NewCardsHandler(cardService)
	relayHandler := handlers.NewRelayHandler(log, hub)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware: authMiddleware,
		TasksHandler:   tasksHandler,
		CardsHandler:   cardsHandler,
		RelayHandler:   relayHandler,
	})

	srv := &http.Server{Addr: ":" + port, Handler: router}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Printf("Server listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		orch.Stop()
		if eventBus != nil {
			_ = eventBus.Close()
		}
		if otelShutdown != nil {
			_ = otelShutdown(shutdownCtx)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
