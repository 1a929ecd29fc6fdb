// Package devserver is an in-memory content service for local development.
// It speaks the same HTTP API as the production service.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/homeadmin/internal/config"
)

var devserverLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	devserverLogger = l
}

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 64 << 20
	maxPhotoBytes = 16 << 20
)

type Server struct {
	cfg       config.DevServerConfig
	maxPhotos int
	store     *Store
	sessions  *Sessions
	handler   http.Handler
}

type Option func(*Server)

// WithMaxPhotos sets how many image parts one upload may carry.
func WithMaxPhotos(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxPhotos = n
		}
	}
}

func WithStore(store *Store) Option {
	return func(s *Server) { s.store = store }
}

func New(cfg config.DevServerConfig, opts ...Option) *Server {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	s := &Server{
		cfg:       cfg,
		maxPhotos: 6,
		store:     NewStore(),
		sessions:  NewSessions(ttl),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.APIStatus, s.serveStatus)
	mux.HandleFunc(config.APILogin, s.serveLogin)
	mux.HandleFunc(config.APIHome, s.serveHome)
	mux.HandleFunc(config.APICopy, s.requireSession(s.serveCopy))
	mux.HandleFunc(config.APINotices, s.requireSession(s.serveNotices))
	mux.HandleFunc(config.APITheme, s.requireSession(s.serveTheme))
	mux.HandleFunc(config.APICollage, s.requireSession(s.serveCollage))
	mux.HandleFunc(config.CollagePhotoPath+"{id}", s.servePhoto)

	s.handler = withRequestLogger(secureHeaders(mux.ServeHTTP))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		devserverLogger.Info().Str("addr", s.cfg.Addr).Msg("Content service listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	devserverLogger.Info().Msg("Content service stopped")
	return nil
}
