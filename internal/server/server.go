package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rptrscope/rptrscope/internal/utils"
	"github.com/rptrscope/rptrscope/pkg/ingest"
	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/rptrscope/rptrscope/pkg/storage"
)

// Backend is the ingestion collaborator the HTTP layer exposes.
type Backend interface {
	StartIngestion(ctx context.Context) error
	LoadExport() ([]repeater.Record, storage.SchemaVersion, time.Time, error)
	ExportFilePath() (string, bool)
	Status() ingest.Status
}

type Server struct {
	Backend Backend
}

func New(backend Backend) *Server {
	return &Server{Backend: backend}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/repeaters", s.handleRepeaters)
	mux.HandleFunc("POST /api/scrape", s.handleScrape)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/download", s.handleDownload)
	return mux
}

// Start serves the API on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Log.Infof("Starting server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
