package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BlackEmpir7199/StudySphere/internal/assistant"
	"github.com/BlackEmpir7199/StudySphere/internal/cache"
	"github.com/BlackEmpir7199/StudySphere/internal/config"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/handler"
	"github.com/BlackEmpir7199/StudySphere/internal/hub"
	"github.com/BlackEmpir7199/StudySphere/internal/middleware"
	"github.com/BlackEmpir7199/StudySphere/internal/moderation"
	"github.com/BlackEmpir7199/StudySphere/internal/registry"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
	"github.com/BlackEmpir7199/StudySphere/internal/service"
	"github.com/BlackEmpir7199/StudySphere/pkg/database"
	"github.com/BlackEmpir7199/StudySphere/pkg/jwt"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
	"github.com/BlackEmpir7199/StudySphere/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	l := log.L()
	l.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("starting studysphere")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := database.New(&cfg.Database)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.GroupModel{},
		&domain.GroupMemberModel{},
		&domain.ChannelModel{},
		&domain.MessageModel{},
		&domain.EventModel{},
		&domain.ResourceModel{},
	); err != nil {
		l.Fatal().Err(err).Msg("failed to auto-migrate")
	}

	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	groupRepo := repository.NewGormGroupRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	eventRepo := repository.NewGormEventRepository(db)
	resourceRepo := repository.NewGormResourceRepository(db)

	// Redis-backed presence and history cache, when configured
	var reg registry.Registry = registry.NewNoopRegistry()
	var msgCache cache.MessageCache = cache.NewNoopMessageCache()
	if cfg.Redis.Enabled() {
		advertiseAddress := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		redisReg, err := registry.NewRedisRegistry(cfg.Redis, advertiseAddress)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to connect to redis registry")
		}
		reg = redisReg

		redisCache, err := cache.NewRedisMessageCache(cfg.Redis, "history")
		if err != nil {
			l.Fatal().Err(err).Msg("failed to connect to redis cache")
		}
		msgCache = redisCache
		l.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
	}
	defer reg.Close()
	defer msgCache.Close()

	if err := reg.StartHeartbeat(ctx); err != nil {
		l.Fatal().Err(err).Msg("failed to start registry heartbeat")
	}
	defer reg.StopHeartbeat()

	// Generative model behind quiz, summaries and gemini moderation
	var asst *assistant.Assistant
	if cfg.GenAI.APIKey != "" {
		asst, err = assistant.New(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to create assistant")
		}
		l.Info().Str("model", cfg.GenAI.Model).Msg("assistant enabled")
	}

	// Moderation backend is fixed at startup; oracle errors fail closed.
	var moderator moderation.Moderator
	switch cfg.Moderation.Backend {
	case "gemini":
		moderator, err = moderation.NewGeminiModerator(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to create gemini moderator")
		}
	default:
		moderator = moderation.NewKeywordModerator()
	}
	l.Info().Str("backend", cfg.Moderation.Backend).Msg("moderation configured")

	// Blob storage for resource uploads
	var store storage.Storage
	var localStore *storage.LocalStorage
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewS3Storage(ctx, cfg.Storage.S3)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to create s3 storage")
		}
	default:
		localStore, err = storage.NewLocalStorage(cfg.Storage.Local)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to create local storage")
		}
		store = localStore
	}

	// Auth
	jwtManager := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, cfg.Auth.CookieSecure)

	// Hub
	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()

	// Services
	chatSvc := service.NewChatService(wsHub, moderator, messageRepo, reg)
	authSvc := service.NewAuthService(userRepo, jwtManager)
	profileSvc := service.NewProfileService(userRepo, groupRepo, asst)
	groupSvc := service.NewGroupService(groupRepo, userRepo)
	historySvc := service.NewHistoryService(messageRepo, msgCache, cfg.Redis.CacheTTL)
	eventSvc := service.NewEventService(eventRepo, groupRepo, wsHub)
	resourceSvc := service.NewResourceService(resourceRepo, groupRepo, moderator, store, asst, wsHub)

	// Router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinMiddleware(log.L()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if localStore != nil {
		r.Static("/uploads", localStore.BasePath())
	}

	api := r.Group("/api")
	handler.NewAuthHandler(authSvc, authMiddleware).RegisterRoutes(api)
	handler.NewProfileHandler(profileSvc, authMiddleware).RegisterRoutes(api)
	handler.NewGroupHandler(groupSvc, authMiddleware).RegisterRoutes(api)
	handler.NewMessageHandler(historySvc, authMiddleware).RegisterRoutes(api)
	handler.NewEventHandler(eventSvc, authMiddleware).RegisterRoutes(api)
	handler.NewResourceHandler(resourceSvc, authMiddleware).RegisterRoutes(api)

	wsHandler := handler.NewWSHandler(wsHub, chatSvc, jwtManager, cfg.WebSocket)
	r.GET("/ws", gin.WrapF(wsHandler.HandleWebSocket))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("forced shutdown")
	}

	l.Info().Msg("stopped")
}
