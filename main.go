package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"forkful/config"
	"forkful/database"
	"forkful/handlers"
	"forkful/middleware"
	"forkful/routes"
	"forkful/services"
	"forkful/validation"
)

func newLogger(env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Env)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	gin.SetMode(cfg.GinMode)
	validation.Init()

	// Mongo, with a short retry for slow-starting local stacks.
	var db *database.Mongo
	var err error
	for i := 1; i <= 3; i++ {
		db, err = database.Connect(cfg.MongoURI, cfg.MongoDB)
		if err == nil {
			break
		}
		logger.WithError(err).Warnf("mongodb connection attempt %d failed", i)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to mongodb")
	}
	logger.Info("connected to mongodb")

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.EnsureIndexes(ctx); err != nil {
			cancel()
			logger.WithError(err).Fatal("failed to create indexes")
		}
		cancel()
	}

	// Redis backs the rate limiter when configured; otherwise the limiter
	// falls back to per-process counters.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, rate limiting falls back to memory")
			rdb = nil
		}
	}

	// Services
	notifSvc := &services.NotificationService{
		DB:  db,
		Log: logger,
		WebPush: services.WebPushConfig{
			PublicKey:  cfg.VAPIDPublicKey,
			PrivateKey: cfg.VAPIDPrivateKey,
			Subscriber: cfg.VAPIDSubscriber,
		},
	}
	followSvc := &services.FollowService{DB: db, Log: logger, Notifs: notifSvc}
	postSvc := &services.PostService{
		DB:       db,
		Log:      logger,
		Follows:  followSvc,
		Notifs:   notifSvc,
		MaxLimit: int64(cfg.FeedMaxLimit),
	}
	commentSvc := &services.CommentService{DB: db, Log: logger, Posts: postSvc, Notifs: notifSvc}
	userSvc := &services.UserService{DB: db, Log: logger, JWTSecret: cfg.JWTSecret, JWTTTL: cfg.JWTTTL}
	adminSvc := &services.AdminService{DB: db, Log: logger}
	mealSvc := &services.MealService{DB: db, Log: logger}
	reportSvc := &services.ReportService{DB: db, Log: logger}

	maxLimit := int64(cfg.FeedMaxLimit)
	h := routes.Handlers{
		Auth:          &handlers.AuthHandler{Users: userSvc},
		Users:         &handlers.UserHandler{Users: userSvc},
		Posts:         &handlers.PostHandler{Posts: postSvc},
		Comments:      &handlers.CommentHandler{Comments: commentSvc, MaxLimit: maxLimit},
		Follows:       &handlers.FollowHandler{Follows: followSvc, MaxLimit: maxLimit},
		Notifications: &handlers.NotificationHandler{Notifs: notifSvc, MaxLimit: maxLimit},
		Meals:         &handlers.MealHandler{Meals: mealSvc, MaxLimit: maxLimit},
		Admin:         &handlers.AdminHandler{Admin: adminSvc, MaxLimit: maxLimit},
		Reports:       &handlers.ReportHandler{Reports: reportSvc},
	}

	authLimiter := middleware.NewLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, logger)
	router := routes.Setup(cfg, logger, h, authLimiter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.WithError(err).Error("mongodb disconnect failed")
	}

	logger.Info("server stopped")
}
