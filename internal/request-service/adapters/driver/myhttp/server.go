package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fixmate/internal/config"
	"fixmate/internal/mylogger"
	"fixmate/internal/request-service/adapters/driven/bm"
	"fixmate/internal/request-service/adapters/driven/db"
	"fixmate/internal/request-service/adapters/driven/maps"
	"fixmate/internal/request-service/adapters/driven/notification"
	"fixmate/internal/request-service/adapters/driven/storage"
	"fixmate/internal/request-service/adapters/driver/myhttp/handle"
	"fixmate/internal/request-service/adapters/driver/myhttp/middleware"
	"fixmate/internal/request-service/adapters/driver/myhttp/ws"
	"fixmate/internal/request-service/core/domain/model"
	"fixmate/internal/request-service/core/ports"
	"fixmate/internal/request-service/core/services"
)

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     ports.IRequestsBroker
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
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

	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	if err := s.Configure(); err != nil {
		return fmt.Errorf("failed to configure server: %w", err)
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.RequestServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.RequestServicePort)

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

	// Closing the broker ends the consumer deliveries, which lets the
	// notification workers drain and exit.
	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	s.wg.Wait()

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
func (s *Server) Configure() error {
	// Repositories and driven adapters
	requestsRepo := db.NewRequestsRepo(s.db)

	imageStore, err := storage.New(s.appCtx, s.cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to init image store: %w", err)
	}

	mapsProvider := maps.New(*s.cfg.Maps, s.mylog)

	// services
	requestsService := services.NewRequestsService(s.appCtx, s.mylog, requestsRepo, imageStore)
	mapsService := services.NewMapsService(s.appCtx, s.mylog, mapsProvider, requestsService)

	// handlers
	requestsHandler := handle.NewRequestsHandler(requestsService, s.mb, s.mylog)
	mapsHandler := handle.NewMapsHandler(mapsService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// websocket fan-out and the notification worker feeding it
	dispatcher := ws.NewDispatcher(s.appCtx, s.mylog, s.cfg.App.JwtSecret)
	worker := notification.New(s.appCtx, &s.wg, s.mylog, dispatcher, s.mb)
	if err := worker.Run(); err != nil {
		return fmt.Errorf("failed to start notification worker: %w", err)
	}

	// Register routes
	s.mux.Handle("POST /requests", authMiddleware.WrapRole(string(model.RoleUser), requestsHandler.CreateRequest()))
	s.mux.Handle("GET /requests", authMiddleware.Wrap(requestsHandler.ListRequests()))
	s.mux.Handle("GET /myrequests", authMiddleware.WrapRole(string(model.RoleMechanic), requestsHandler.ListMine()))
	s.mux.Handle("GET /requests/{request_id}/accept", authMiddleware.WrapRole(string(model.RoleMechanic), requestsHandler.Accept()))
	s.mux.Handle("PUT /myrequests/{request_id}/cancel", authMiddleware.Wrap(requestsHandler.Cancel()))
	s.mux.Handle("PUT /myrequests/{request_id}/completed", authMiddleware.Wrap(requestsHandler.Complete()))
	s.mux.Handle("GET /request-location/{request_id}", authMiddleware.Wrap(requestsHandler.Destination()))

	s.mux.Handle("GET /maps/coordinates", authMiddleware.Wrap(mapsHandler.Coordinates()))
	s.mux.Handle("GET /maps/distance-time", authMiddleware.Wrap(mapsHandler.DistanceTime()))
	s.mux.Handle("GET /maps/suggestions", authMiddleware.Wrap(mapsHandler.Suggestions()))
	s.mux.Handle("GET /maps/directions", authMiddleware.Wrap(mapsHandler.Directions()))

	// websocket routes
	s.mux.Handle("/ws/users/{user_id}", dispatcher.WsHandler())

	return nil
}
