package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/eventms/appserver/config"
	"github.com/eventms/appserver/internal/db"
	"github.com/eventms/appserver/internal/handlers"
	"github.com/eventms/appserver/internal/mail"
	"github.com/eventms/appserver/internal/services"
	"github.com/eventms/appserver/internal/session"
	"github.com/eventms/appserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("SESSION_SECRET is required")
	}
	sessions := session.NewManager(cfg.SessionSecret)

	var mailer services.MailSender
	if cfg.SMTP.Host != "" {
		m, err := mail.New(cfg.SMTP)
		if err != nil {
			_ = dbConn.Close()
			return nil, err
		}
		mailer = m
	} else {
		slog.Info("SMTP not configured, registration notifications disabled")
	}

	userRepo := store.NewUserRepository(dbConn)
	eventRepo := store.NewEventRepository(dbConn)
	regRepo := store.NewRegistrationRepository(dbConn)

	userService := services.NewUserService(userRepo, mailer)
	eventService := services.NewEventService(eventRepo)
	regService := services.NewRegistrationService(regRepo, eventRepo)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		handlers.APIRouter(r, userService, eventService, regService, sessions)
	})
	router.Group(func(r chi.Router) {
		handlers.PageRouter(r, userService, eventService, regService, sessions)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		db:         dbConn,
	}, nil
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
