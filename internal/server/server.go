// Package server exposes the simulation service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"fjacquet/budget-sim/internal/budgeterror"
	"fjacquet/budget-sim/internal/export"
	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"
	"fjacquet/budget-sim/internal/report"
	"fjacquet/budget-sim/internal/service"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// SimulationResponse is the body returned by POST /api/simulate.
type SimulationResponse struct {
	Success bool              `json:"success"`
	Results *SimulationResult `json:"results,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// SimulationResult is a run report plus the name of its CSV export.
type SimulationResult struct {
	*report.RunReport
	CSVFilename string `json:"csv_filename"`
}

// Server routes HTTP requests to the simulation service.
type Server struct {
	svc      *service.Service
	exporter *export.Exporter
	logger   logging.Logger
	router   *mux.Router
}

// New creates a Server and registers its routes.
func New(svc *service.Service, exporter *export.Exporter, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetLogger()
	}
	s := &Server{
		svc:      svc,
		exporter: exporter,
		logger:   logger,
		router:   mux.NewRouter(),
	}

	s.router.Use(s.logRequests)
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/simulate", s.simulate).Methods(http.MethodPost)
	api.HandleFunc("/download/{filename}", s.download).Methods(http.MethodGet)

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", logging.Field{Key: logging.FieldAddress, Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	var input models.BudgetInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, SimulationResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	run, err := s.svc.Simulate(r.Context(), input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, budgeterror.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, SimulationResponse{Error: err.Error()})
		return
	}

	name := export.FileName(run.Result.Input, run.ID)
	if _, err := s.exporter.Export(name, run.Result, false); err != nil {
		s.logger.WithError(err).Error("Failed to export simulation CSV",
			logging.Field{Key: logging.FieldRunID, Value: run.ID})
		writeJSON(w, http.StatusInternalServerError, SimulationResponse{Error: "failed to export results"})
		return
	}

	writeJSON(w, http.StatusOK, SimulationResponse{
		Success: true,
		Results: &SimulationResult{RunReport: run.Report(true), CSVFilename: name},
	})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]
	if !export.ValidFilename(name) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid file name"})
		return
	}

	path := s.exporter.Path(name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Handled request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start).String()})
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
