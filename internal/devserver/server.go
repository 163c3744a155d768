// Package devserver serves the built static assets during local
// development.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Listen address, e.g. 127.0.0.1:7000
	Listen string
	// Directory holding the built assets
	Dir string
	// Public URL prefix the assets are served under
	PublicPath string
	// Allowed CORS origins; empty allows none
	CORSOrigins []string
}

type Server struct {
	config Config
}

func New(config Config) *Server {
	if config.PublicPath == "" {
		config.PublicPath = "/static/"
	}
	return &Server{config: config}
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.config.PublicPath, http.StripPrefix(s.config.PublicPath,
		http.FileServer(http.Dir(s.config.Dir))))

	handler := cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	}).Handler(AccessLog(mux))

	srv := &http.Server{
		Addr:              s.config.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("dev server shutdown")
		}
	}()

	log.Info().
		Str("listen", s.config.Listen).
		Str("dir", s.config.Dir).
		Str("public_path", s.config.PublicPath).
		Msg("serving assets")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
