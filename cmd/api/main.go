package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"eventhub/config"
	adapterauth "eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	"eventhub/internal/adapters/storage"
	delivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"

	"golang.org/x/crypto/bcrypt"
)

// @title EventHub API
// @version 1.0
// @description Event management API with RSVPs, invitations, comments, and likes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config failed", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database failed", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	likeRepo := postgres.NewEventLikeRepository(db)

	hasher := adapterauth.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := adapterauth.NewJWTCodec(cfg.JWTSecret)
	images := storage.NewDiskImageStore(cfg.UploadDir)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
		Logger: logger,
	})
	if err != nil {
		logger.Error("create mailer failed", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	authService := services.NewAuthService(userRepo, hasher, tokens, tokens, cfg.JWTExpiry, emailService, logger, cfg.BaseURL)
	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo, rsvpRepo, commentRepo, likeRepo, time.Now)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo, userRepo, hasher, emailService, logger, cfg.BaseURL, time.Now)
	commentService := services.NewCommentService(commentRepo, eventRepo, time.Now)

	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, eventService, images)
	rsvpController := controllers.NewRSVPController(logger, rsvpService)
	commentController := controllers.NewCommentController(logger, commentService)
	userController := controllers.NewUserController(logger, userService)

	mux := delivery.NewRouter(
		logger,
		tokens,
		authController,
		eventController,
		rsvpController,
		commentController,
		userController,
		cfg.UploadDir,
	)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("server starting", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
