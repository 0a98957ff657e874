// Package main runs the event platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/schedo/server/config"
	"github.com/schedo/server/internal/accounts"
	"github.com/schedo/server/internal/emaillog"
	"github.com/schedo/server/internal/events"
	"github.com/schedo/server/internal/mailer"
	"github.com/schedo/server/internal/middleware"
	"github.com/schedo/server/internal/notifications"
	"github.com/schedo/server/internal/registrations"
	"github.com/schedo/server/pkg/database"
	"github.com/schedo/server/pkg/redis"
	"github.com/schedo/server/pkg/response"
	"github.com/schedo/server/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var thumbnails events.ThumbnailStore
	if cfg.AWS.AccessKeyID != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			ThumbnailBucket: cfg.AWS.ThumbnailBucket,
		}
		s3Client, err := storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			thumbnails = s3Client
		}
	}

	mail := mailer.NewMailer(cfg.Email.APIKey, cfg.Email.FromName, cfg.Email.FromAddress)
	if !mail.Enabled {
		logger.Warn("mailer disabled, confirmation emails will be logged as failed")
	}

	tokens := accounts.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpireHours, accounts.NewRedisRevocationStore(rdb.Client))

	// Accounts
	accountRepo := accounts.NewRepository(pool)
	accountHandler := accounts.NewHandler(accountRepo, tokens, logger)

	// Email logs and notifications
	emailLogRepo := emaillog.NewRepository(pool)
	notificationRepo := notifications.NewRepository(pool)
	notificationHandler := notifications.NewHandler(notificationRepo, logger)

	// Events and registrations
	eventRepo := events.NewRepository(pool)
	registrationRepo := registrations.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, thumbnails, registrationRepo, emailLogRepo, logger)
	registrationHandler := registrations.NewHandler(
		registrationRepo, registrationRepo, eventRepo, mail, emailLogRepo, notificationRepo, logger)

	jwtValidate := func(ctx context.Context, token string) (*middleware.Identity, error) {
		claims, err := tokens.Validate(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Identity{
			UserID:    claims.UserID,
			Email:     claims.Email,
			TokenID:   claims.ID,
			ExpiresAt: claims.ExpiresAt.Time,
		}, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: signup/login, public event browsing, attendee registration,
	// ticket lookup.
	router.POST("/accounts/signup/", accountHandler.Signup)
	router.POST("/accounts/login/", accountHandler.Login)
	router.GET("/events/public/", eventHandler.ListPublic)
	router.GET("/events/event/:id/", eventHandler.GetByID)
	router.POST("/registrations/attendee/create/", registrationHandler.CreateAttendee)
	router.GET("/registrations/ticket/:code/", registrationHandler.FetchTicket)

	// Protected API (bearer token required)
	api := router.Group("")
	api.Use(middleware.Auth(jwtValidate))
	{
		api.POST("/accounts/logout/", accountHandler.Logout)
		api.POST("/accounts/profile/create/", accountHandler.CreateProfile)
		api.GET("/accounts/profile/", accountHandler.GetProfile)
		api.PUT("/accounts/profile/edit/", accountHandler.EditProfile)

		api.GET("/events/user/", eventHandler.ListUserEvents)
		api.GET("/events/attendance/", eventHandler.Attendance)
		api.GET("/events/event/:id/emails/", eventHandler.ListEmailLogs)
		api.POST("/events/create/", eventHandler.Create)
		api.PUT("/events/update/:id/", eventHandler.Update)
		api.POST("/events/archive/:id/", eventHandler.Archive)
		api.POST("/events/restore/:id/", eventHandler.Restore)
		api.DELETE("/events/delete/:id/", eventHandler.Delete)
		api.GET("/events/archives/", eventHandler.ListArchives)
		api.POST("/events/archives/restore/all/", eventHandler.RestoreAll)
		api.DELETE("/events/archives/delete/all/", eventHandler.DeleteAll)

		api.GET("/registrations/attendees/:event_id/", registrationHandler.ListAttendees)
		api.GET("/registrations/scan/:code/", registrationHandler.ScanTicket)

		api.GET("/notifications/", notificationHandler.List)
		api.POST("/notifications/:id/read/", notificationHandler.MarkRead)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
