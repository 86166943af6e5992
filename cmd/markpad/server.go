package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickward/markpad/internal/config"
	"github.com/patrickward/markpad/internal/crypto"
	"github.com/patrickward/markpad/internal/editor"
	"github.com/patrickward/markpad/internal/files"
	"github.com/patrickward/markpad/internal/flash"
	"github.com/patrickward/markpad/internal/rendering"
	"github.com/patrickward/markpad/internal/watcher"
	"github.com/patrickward/markpad/internal/workers"
)

const cacheRefreshInterval = 5 * time.Minute

// Server holds the application state and configuration
type Server struct {
	dataDir           string
	config            config.Config
	rootManager       *files.RootManager
	repo              *files.Repository
	sessions          *editor.Store
	flashManager      *flash.Manager
	backgroundWorker  *workers.BackgroundWorker
	renderer          *rendering.MarkdownRenderer
	baseTempl         *template.Template // Common templates (layouts, partials)
	httpServer        *http.Server
	encryptionManager *crypto.Manager
	watchDocuments    bool
}

// ServerOption for configuring the server with functional options pattern
type ServerOption func(*Server) error

// NewServer initializes the server with the given data directory
func NewServer(ctx context.Context, dataDir string, cfg config.Config, opts ...ServerOption) (*Server, error) {
	rootManager, err := files.NewRootManager(dataDir)
	if err != nil {
		return nil, err
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	s := &Server{
		dataDir:          dataDir,
		config:           cfg,
		rootManager:      rootManager,
		repo:             files.NewRepository(rootManager, files.DefaultConfig),
		sessions:         editor.NewStore(editor.Config{TTL: cfg.Session.TTL.Duration, MaxSessions: cfg.Session.MaxSessions}),
		flashManager:     flash.NewManager(),
		backgroundWorker: workers.NewBackgroundWorker(ctx),
		renderer:         rendering.NewMarkdownRenderer(),
		baseTempl:        tmpl,
		watchDocuments:   true,
	}

	if err := s.repo.Initialize(); err != nil {
		return nil, fmt.Errorf("could not initialize document repository: %w", err)
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.setupBackgroundTasks()

	return s, nil
}

// WithEncryptionManager sets the encryption manager for the server
func WithEncryptionManager(manager *crypto.Manager) ServerOption {
	return func(s *Server) error {
		s.encryptionManager = manager
		s.repo.SetEncryptionManager(manager)
		return nil
	}
}

// WithoutWatcher disables the filesystem watcher. External edits are then
// picked up by the periodic cache refresh only.
func WithoutWatcher() ServerOption {
	return func(s *Server) error {
		s.watchDocuments = false
		return nil
	}
}

func (s *Server) setupBackgroundTasks() {
	s.backgroundWorker.AddPeriodicTask(
		"cache-refresh",
		cacheRefreshInterval,
		func(ctx context.Context) error {
			s.repo.ReloadIfStale(cacheRefreshInterval)
			return nil
		},
	)

	s.backgroundWorker.AddPeriodicTask(
		"session-sweep",
		s.config.Session.SweepInterval.Duration,
		func(ctx context.Context) error {
			if n := s.sessions.Sweep(); n > 0 {
				log.Printf("Expired %d editor sessions", n)
			}
			return nil
		},
	)

	if s.watchDocuments {
		s.backgroundWorker.AddOneTimeTask("document-watcher", s.watchDataDirectory)
	}
}

// watchDataDirectory keeps the document cache and open sessions in step with
// edits made outside the app.
func (s *Server) watchDataDirectory(ctx context.Context) error {
	cfg := watcher.DefaultConfig()
	cfg.IgnoreDirs = files.DefaultConfig.ExcludeDirectories

	w, err := watcher.New(s.dataDir, cfg)
	if err != nil {
		return fmt.Errorf("could not watch %s: %w", s.dataDir, err)
	}

	log.Printf("Watching %s for document changes", s.dataDir)
	return w.Run(ctx, s.handleDocumentEvent, func(err error) {
		log.Printf("Watcher error: %v", err)
	})
}

func (s *Server) handleDocumentEvent(event watcher.Event) {
	s.repo.ReloadFile(event.Path)

	id, ok := s.repo.IDForPath(event.Path)
	if !ok {
		return
	}
	if n := s.sessions.InvalidateDocument(id); n > 0 {
		log.Printf("Document %s changed (%s), invalidated %d sessions", id, event.Op, n)
	}
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Start starts the server and all background tasks
func (s *Server) Start() error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Server.Addr, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:         serverAddr,
		ReadTimeout:  s.config.Server.ReadTimeout.Duration,
		WriteTimeout: s.config.Server.WriteTimeout.Duration,
		IdleTimeout:  s.config.Server.IdleTimeout.Duration,
		Handler:      s.Handler(),
	}

	// Start background tasks
	s.backgroundWorker.Start()

	// Channel to receive OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the http server in a separate goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", serverAddr)
		log.Printf("Data directory: %s", s.dataDir)
		serverErrors <- s.httpServer.ListenAndServe()
	}()

	// Wait for either termination signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating shutdown", sig)
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server and background tasks
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if s.httpServer != nil {
		log.Println("Shutting down HTTP server...")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during HTTP server shutdown: %v", err)
		}
	}

	s.backgroundWorker.Shutdown()

	log.Println("Server shutdown complete")
	return nil
}
