package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"volumelockr/internal/domain"
	"volumelockr/internal/logging"
	"volumelockr/internal/usecase"
)

// Server is a primary adapter that exposes HTTP API + UI.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.VolumeUseCase
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.VolumeUseCase, addr string) *Server {
	srv := &Server{usecase: uc}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(srv.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Handler returns the route table; exposed for httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/volumes", s.handleStatus)
	mux.HandleFunc("PUT /api/volumes/{stream}", s.handleSetVolume)
	mux.HandleFunc("POST /api/locks/{stream}", s.handleLock)
	mux.HandleFunc("DELETE /api/locks/{stream}", s.handleUnlock)
	mux.HandleFunc("GET /api/mode", s.handleGetMode)
	mux.HandleFunc("PUT /api/mode", s.handleSetMode)
	mux.HandleFunc("GET /api/protection", s.handleGetProtection)
	mux.HandleFunc("PUT /api/protection", s.handleSetProtection)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return mux
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondStatus(w)
}

// respondStatus re-reads every control after a mutation.
func (s *Server) respondStatus(w http.ResponseWriter) {
	st, err := s.usecase.Status()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, NewStatusView(st))
}

func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	stream, err := domain.ParseStream(r.PathValue("stream"))
	if err != nil {
		respondError(w, err)
		return
	}
	var req volumePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var v domain.Volume
	switch {
	case req.Value != nil:
		v, err = s.usecase.SetVolume(stream, *req.Value)
	case req.Lower != nil && req.Upper != nil:
		v, err = s.usecase.AdjustRange(stream, *req.Lower, *req.Upper)
	default:
		http.Error(w, "value or lower/upper required", http.StatusBadRequest)
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, volumeToView(v))
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	stream, err := domain.ParseStream(r.PathValue("stream"))
	if err != nil {
		respondError(w, err)
		return
	}
	var req lockPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	switch {
	case req.Lower != nil && req.Upper != nil:
		err = s.usecase.Lock(stream, *req.Lower, *req.Upper)
	case req.From != nil && req.To != nil:
		err = s.usecase.LockFraction(stream, *req.From, *req.To)
	default:
		http.Error(w, "lower/upper or from/to required", http.StatusBadRequest)
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	s.respondStatus(w)
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	stream, err := domain.ParseStream(r.PathValue("stream"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.usecase.Unlock(stream); err != nil {
		respondError(w, err)
		return
	}
	s.respondStatus(w)
}

func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	st, err := s.usecase.Status()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, modePayload{Mode: int(st.Mode)})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req modePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := s.usecase.SetMode(domain.Mode(req.Mode)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleGetProtection(w http.ResponseWriter, r *http.Request) {
	st, err := s.usecase.Status()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, protectionPayload{Protected: st.Protected})
}

func (s *Server) handleSetProtection(w http.ResponseWriter, r *http.Request) {
	var req protectionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := s.usecase.SetProtected(req.Protected); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidBounds),
		errors.Is(err, domain.ErrUnsupportedStream),
		errors.Is(err, domain.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccessLocked),
		errors.Is(err, domain.ErrControlDisabled),
		errors.Is(err, domain.ErrWriteNotAllowed),
		errors.Is(err, usecase.ErrReadOnly):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Errorf("request failed: %v", err)
	}
	respondJSON(w, status, errorPayload{Error: err.Error(), Code: errorCode(err)})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Warnf("encode JSON: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Infof("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}
