// @title Event RSVP API
// @version 1.0
// @description Invitation emails with signed response links, RSVP recording and per-event guest response reports.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT returned by /auth/login.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventrsvp/config"
	_ "eventrsvp/docs"
	"eventrsvp/internal/adapters/auth"
	"eventrsvp/internal/adapters/email"
	deliveryhttp "eventrsvp/internal/delivery/http"
	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/platform/otel"
	"eventrsvp/internal/repository/postgres"
	"eventrsvp/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "eventrsvp:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stdout, cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.OTel.Endpoint, cfg.OTel.ServiceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown", "err", err)
		}
	}()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.RunMigrations(ctx, db, logger); err != nil {
		return err
	}

	mailer, err := email.NewMailer(ctx, email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	guestRepo := postgres.NewGuestRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)

	signer := auth.NewResponseLinkSigner(cfg.LinkSecret, cfg.LinkTTL)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	verificationSigner := auth.NewVerificationLinkSigner(cfg.LinkSecret, cfg.VerificationTTL)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(0), auth.NewJWTIssuer(cfg.JWTSecret), verificationSigner, emailService, logger, services.AuthSettings{
		JWTExpiry:            cfg.JWTExpiry,
		ContextTimeout:       cfg.ContextTimeout,
		BaseURL:              cfg.AppBaseURL,
		RequireVerifiedEmail: cfg.RequireVerifiedEmail,
	})
	eventService := services.NewEventService(eventRepo, cfg.ContextTimeout)
	guestService := services.NewGuestService(guestRepo, eventRepo, cfg.ContextTimeout)
	invitationService := services.NewInvitationService(eventRepo, invitationRepo, emailService, signer, logger, services.InvitationSettings{
		BaseURL:        cfg.AppBaseURL,
		Concurrency:    cfg.SendConcurrency,
		SendTimeout:    cfg.SendTimeout,
		ContextTimeout: cfg.ContextTimeout,
	})
	rsvpService := services.NewRSVPService(eventRepo, invitationRepo, signer, logger, cfg.ContextTimeout)

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:       controllers.NewAuthController(logger, authService),
		Event:      controllers.NewEventController(logger, eventService),
		Guest:      controllers.NewGuestController(logger, guestService),
		Invitation: controllers.NewInvitationController(logger, invitationService),
		RSVP:       controllers.NewRSVPController(logger, rsvpService),
		Health:     controllers.NewHealthController(logger, db),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.ContextTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
