// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labportal-service/internal/config"
	"labportal-service/internal/db"
	authHandler "labportal-service/internal/handlers/auth"
	resultHandler "labportal-service/internal/handlers/results"
	wsHandler "labportal-service/internal/handlers/websocket"
	"labportal-service/internal/identity"
	"labportal-service/internal/middleware"
	"labportal-service/internal/pkg/bridgetoken"
	"labportal-service/internal/pkg/jwt"
	"labportal-service/internal/pkg/ratelimit"
	"labportal-service/internal/pkg/roles"
	"labportal-service/internal/pkg/session"
	"labportal-service/internal/pkg/signedurl"
	"labportal-service/internal/repository/postgres"
	authUsecase "labportal-service/internal/service/auth"
	resultUsecase "labportal-service/internal/service/results"
	"labportal-service/internal/websocket"
)

const (
	rateLimitRequests = 10
	rateLimitWindow   = 60 * time.Second
	signedURLTTL      = 10 * time.Minute
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Identity provider -----
	provider, err := identity.NewClient(s.cfg.Provider)
	if err != nil {
		return fmt.Errorf("identity provider: %w", err)
	}

	// ----- Crypto building blocks -----
	codec, err := bridgetoken.New(s.cfg.BridgeSecret)
	if err != nil {
		return fmt.Errorf("bridge token codec: %w", err)
	}
	jwtManager, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("session token manager: %w", err)
	}
	signer, err := signedurl.New(s.cfg.SignedURLSecret, s.cfg.StorageBaseURL, signedURLTTL)
	if err != nil {
		return fmt.Errorf("signed url signer: %w", err)
	}

	// ----- Session & role layers -----
	sessionManager := session.NewManager(redisClient)
	resolver := roles.NewResolver(s.cfg.AdminEmails)
	consumer := authUsecase.NewRedisBridgeConsumer(redisClient)

	// ----- Rate limiter -----
	var limiter ratelimit.Limiter
	if s.cfg.RateLimitBackend == "redis" {
		limiter = ratelimit.NewRedisLimiter(redisClient, rateLimitRequests, rateLimitWindow)
	} else {
		limiter = ratelimit.NewMemoryLimiter(rateLimitRequests, rateLimitWindow)
	}

	// ----- Repositories -----
	profileRepo := postgres.NewClientProfileRepository(pool)
	resultRepo := postgres.NewResultRepository(pool)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		provider,
		profileRepo,
		sessionManager,
		consumer,
		codec,
		resolver,
		jwtManager,
		logger,
	)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(authService, logger)
	go hub.Run(ctx)

	resultService := resultUsecase.NewResultService(resultRepo, signer, hub, logger)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, s.cfg.SignInPath, logger)
	resultHandlerInst := resultHandler.NewResultHandler(resultService, logger)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService, s.cfg.SignInPath)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
		middleware.RateLimitMiddleware(limiter, logger, "/api/v1/auth/", "/ws"),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:    authHandlerInst,
		ResultHandler:  resultHandlerInst,
		WSHandler:      wsHandlerInst,
		AuthMiddleware: authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
