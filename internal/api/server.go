package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/kumarlokesh/trie-server/internal/trie"
)

// maxBodyBytes bounds the size of a request body
const maxBodyBytes = 1 << 20

// Server represents the HTTP API server
type Server struct {
	dispatcher *Dispatcher
	server     *http.Server
	addr       string
	logger     zerolog.Logger
	cancel     context.CancelFunc
	ctx        context.Context
}

// NewServer creates a new API server
func NewServer(addr string, dispatcher *Dispatcher, logger zerolog.Logger) *Server {
	s := &Server{
		dispatcher: dispatcher,
		addr:       addr,
		logger:     logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	r := mux.NewRouter()

	// Add request logging middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("Handled request")
		})
	})

	r.HandleFunc("/", s.dispatch).Methods("POST")
	r.HandleFunc("/health", s.health).Methods("GET")

	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("No route matched")
		http.NotFound(w, r)
	})

	// Ensure the address includes a host if not specified
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = "0.0.0.0:" + addr
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the address the server is configured to listen on
func (s *Server) Addr() string {
	return s.addr
}

// Start starts the HTTP server and blocks until the server is shut down
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until the server is shut down
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("Server listening")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server...")
	s.cancel()
	return s.server.Shutdown(ctx)
}

// Helper functions for HTTP responses
func (s *Server) respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.respondText(w, status, "Error: "+err.Error())
}

// statusFor maps a dispatch error onto an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, trie.ErrInvalidKey),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrNoAction),
		errors.Is(err, ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, trie.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, trie.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSaveFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTP Handlers
// dispatch handles POST / - run the action named in the JSON body
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		s.respondError(w, http.StatusUnsupportedMediaType, errors.New("non-JSON request received"))
		return
	}

	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("failed to decode request body: %w", err))
		return
	}

	result, err := s.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		event := s.logger.Warn()
		if status == http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.Err(err).Str("action", req.Action).Int("status", status).Msg("Request failed")
		s.respondError(w, status, err)
		return
	}

	s.respondText(w, http.StatusOK, result)
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"keys":   s.dispatcher.Len(),
	})
}
