package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"realtime-service/internal/auth"
	"realtime-service/internal/config"
	"realtime-service/internal/db"
	"realtime-service/internal/handlers"
	"realtime-service/internal/logging"
	"realtime-service/internal/middleware"
	"realtime-service/internal/notify"
	"realtime-service/internal/observability"
	"realtime-service/internal/presence"
	"realtime-service/internal/repositories"
	"realtime-service/internal/telemetry"
	"realtime-service/internal/ws"
)

const serviceName = "realtime-service"

func main() {
	cfg, err := config.Load(config.NewViper())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	shutdownTracing, err := telemetry.InitTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(ctx) }()

	database, err := db.Connect(logger, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}

	publisher := observability.NewPublisher(logger, cfg.AMQPURL, cfg.AMQPExchange)
	observability.SetPublisher(publisher)
	defer func() { _ = publisher.Close() }()

	notificationRepo := repositories.NewNotificationRepo(database)
	friendshipRepo := repositories.NewFriendshipRepo(database)
	userRepo := repositories.NewUserRepo(database)

	verifier, err := auth.NewJWTVerifier(auth.JWTVerifierConfig{
		SigningSecret: []byte(cfg.JWTSecret),
		Issuer:        cfg.JWTIssuer,
	}, userRepo)
	if err != nil {
		logger.Fatal("failed to build verifier", zap.Error(err))
	}

	registry := presence.NewRegistry(logger)
	hub := ws.NewHub(logger)
	engine := notify.NewEngine(notificationRepo, hub, logger)
	gateway := ws.NewGateway(verifier, hub, registry, friendshipRepo, engine, logger)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	presenceHandler := handlers.NewPresenceHandler(registry)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(verifier)

	router.GET("/notifications", authMiddleware, notificationHandler.ListNotifications)
	router.PUT("/notifications/:id/read", authMiddleware, notificationHandler.MarkRead)
	router.POST("/notifications/read", authMiddleware, notificationHandler.MarkManyRead)
	router.POST("/notifications/read-all", authMiddleware, notificationHandler.MarkAllRead)
	router.DELETE("/notifications/:id", authMiddleware, notificationHandler.DeleteNotification)

	router.GET("/users/online", authMiddleware, presenceHandler.OnlineUsers)

	router.GET("/ws", gateway.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("listening", zap.String("address", cfg.HTTPAddress))
	if err := router.Run(cfg.HTTPAddress); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
