package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fixmate/internal/auth-service/adapters/driven/db"
	"fixmate/internal/auth-service/adapters/driven/mail"
	"fixmate/internal/auth-service/adapters/driver/myhttp/handle"
	"fixmate/internal/auth-service/adapters/driver/myhttp/middleware"
	"fixmate/internal/auth-service/core/service"
	"fixmate/internal/config"
	"fixmate/internal/mylogger"
)

const WaitTime = 10

type Server struct {
	mux   *http.ServeMux
	cfg   *config.Config
	srv   *http.Server
	mylog mylogger.Logger
	db    *db.DB
	ctx   context.Context
	mu    sync.Mutex
}

func NewServer(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:   ctx,
		cfg:   cfg,
		mylog: mylog,
		mux:   http.NewServeMux(),
	}
}

// Run wires the adapters, configures routes and starts listening. It
// returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	db, err := db.New(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	mylog.Info("Successful database connection")

	if err := s.db.Migrate(s.ctx, s.cfg.DB.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.AuthServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.AuthServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure sets up repositories, services, handlers and routes.
func (s *Server) Configure() {
	// Repositories and driven adapters
	identityRepo := db.NewIdentityRepo(s.db)
	otpRepo := db.NewOtpRepo(s.db)
	mailer := mail.New(s.cfg.Smtp, s.mylog)

	// services
	authService := service.NewAuthService(s.ctx, s.cfg, identityRepo, mailer, s.mylog)
	otpService := service.NewOtpService(s.ctx, otpRepo, mailer, s.mylog)

	// handlers
	authHandler := handle.NewAuthHandler(authService, s.mylog)
	otpHandler := handle.NewOtpHandler(otpService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// Register routes
	s.mux.Handle("POST /signup", authHandler.Signup())
	s.mux.Handle("POST /login", authHandler.Login())
	s.mux.Handle("GET /profile", authMiddleware.Wrap(authHandler.Profile()))
	s.mux.Handle("PUT /mechanics/location", authMiddleware.WrapRole("mechanic", authHandler.UpdateLocation()))

	s.mux.Handle("POST /otp/send", otpHandler.Send())
	s.mux.Handle("POST /otp/verify", otpHandler.Verify())

	s.mux.Handle("POST /sos/send", authMiddleware.Wrap(authHandler.Sos()))
}
