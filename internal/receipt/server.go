package receipt

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// Server handles HTTP requests for receipts
type Server struct {
	service *Service
	mux     *http.ServeMux
	logger  *slog.Logger
	version string
	srv     *http.Server
}

// NewServer creates a new Server with default mux
func NewServer(service *Service, logger *slog.Logger, version string) *Server {
	return NewServerWithMux(service, logger, version, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, logger *slog.Logger, version string, mux *http.ServeMux) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service: service,
		mux:     mux,
		logger:  logger,
		version: version,
	}
	s.srv = &http.Server{Handler: s.handler()}
	s.registerRoutes()
	return s
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with an id and writes an access log record
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.InfoContext(r.Context(), "Handled request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all API routes on the server's mux.
// The mobile client calls the /api prefixed paths.
func (s *Server) registerRoutes() {
	for _, prefix := range []string{"", "/api"} {
		s.mux.HandleFunc("POST "+prefix+"/process-receipt", s.handleProcessReceipt)
		s.mux.HandleFunc("PUT "+prefix+"/update-receipt", s.handleUpdateReceipt)
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// handler wraps the mux with the middleware chain
func (s *Server) handler() http.Handler {
	return s.requestLogger(corsMiddleware(s.mux))
}

// Start starts the HTTP server and blocks until it stops.
// It returns nil after a call to Shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting server", "address", addr)
	s.srv.Addr = addr
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops a server started with Start
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler().ServeHTTP(w, r)
}
