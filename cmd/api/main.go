package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"eventhubconnect/config"
	"eventhubconnect/internal/adapters/auth"
	"eventhubconnect/internal/adapters/certificate"
	"eventhubconnect/internal/adapters/email"
	httpdelivery "eventhubconnect/internal/delivery/http"
	"eventhubconnect/internal/delivery/http/controllers"
	"eventhubconnect/internal/delivery/http/middleware"
	"eventhubconnect/internal/repository/postgres"
	"eventhubconnect/internal/services"
)

// @title EventHub Connect API
// @version 1.0
// @description Event management service: events, topics, speakers, registrations, attendance, and certificates.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	topicRepo := postgres.NewTopicRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	certRepo := postgres.NewCertificateRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	resetRepo := postgres.NewPasswordResetTokenRepository(db)
	dashboardRepo := postgres.NewDashboardRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(12)
	tokenCodec := auth.NewJWTSessionCodec(cfg.SessionSecret)
	renderer := certificate.NewPDFRenderer("EventHub Connect")
	store, err := certificate.NewLocalStore(cfg.CertificateDir)
	if err != nil {
		logger.Error("certificate store", "err", err)
		os.Exit(1)
	}
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFrom,
		FromName:    "EventHub Connect",
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}, logger)
	if err != nil {
		logger.Error("mailer", "err", err)
		os.Exit(1)
	}
	templates, err := email.NewTemplateRenderer()
	if err != nil {
		logger.Error("email templates", "err", err)
		os.Exit(1)
	}

	// Services
	activityLogger := services.NewActivityLogger(activityRepo, logger)
	emailService := services.NewEmailService(mailer, templates)
	authService := services.NewAuthService(userRepo, sessionRepo, resetRepo, hasher, tokenCodec, cfg.SessionTTL, emailService, activityLogger, logger, cfg.AppBaseURL)
	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo, topicRepo, userRepo, activityLogger)
	registrationService := services.NewRegistrationService(eventRepo, regRepo, userRepo, certRepo, renderer, store, emailService, activityLogger, logger, cfg.AppBaseURL)
	dashboardService := services.NewDashboardService(dashboardRepo, activityRepo)

	// HTTP
	mux := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Logger:       logger,
		Verifier:     tokenCodec,
		Sessions:     sessionRepo,
		Users:        userRepo,
		Auth:         controllers.NewAuthController(logger, authService, cfg.SessionTTL, cfg.CookieSecure),
		User:         controllers.NewUserController(logger, userService),
		Event:        controllers.NewEventController(logger, eventService),
		Registration: controllers.NewRegistrationController(logger, registrationService),
		Dashboard:    controllers.NewDashboardController(logger, dashboardService),
	})

	// Expired session rows are dead weight once the cookie TTL passes.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := sessionRepo.DeleteExpired(context.Background(), time.Now())
			if err != nil {
				logger.Error("session cleanup", "err", err)
				continue
			}
			if n > 0 {
				logger.Info("session cleanup", "deleted", n)
			}
		}
	}()

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	handler := middleware.CORS(allowedOrigins, middleware.LoggingMiddleware(logger, mux))

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
