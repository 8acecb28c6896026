package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"publicsuffix/engine"
)

const cacheTTL = 1 * time.Minute

// Server exposes the engine's query API over HTTP.
type Server struct {
	Engine *engine.Engine
	srv    *http.Server
	cache  *TTLCache
	log    *zap.SugaredLogger
}

// NewServer creates a new query server instance.
func NewServer(addr string, eng *engine.Engine, log *zap.SugaredLogger) *Server {
	s := &Server{
		Engine: eng,
		cache:  NewTTLCache(),
		log:    log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/resolve", getOnly(s.handleResolve))
	mux.HandleFunc("/api/v1/tld", getOnly(s.handleTld))
	mux.HandleFunc("/api/v1/domain", getOnly(s.handleDomain))
	mux.HandleFunc("/healthz", getOnly(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// getOnly restricts a handler to GET requests, matching the behavior of
// the "GET /path" ServeMux patterns that require Go 1.22+.
func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (s *Server) Start() error {
	s.log.Infow("query server listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Stop() error {
	s.cache.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

type resolveResponse struct {
	Host             string `json:"host"`
	PublicSuffix     string `json:"public_suffix"`
	RegisteredDomain string `json:"registered_domain,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// resolve produces the result for a raw host, via the cache.
func (s *Server) resolve(host string) (engine.Result, error) {
	if res, ok := s.cache.Get(host); ok {
		return res, nil
	}
	res, err := s.Engine.Resolve(host)
	if err != nil {
		return engine.Result{}, err
	}
	s.cache.Set(host, res, cacheTTL)
	return res, nil
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")
	res, err := s.resolve(host)
	if err != nil {
		s.writeError(w, host, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Host:             host,
		PublicSuffix:     res.PublicSuffix,
		RegisteredDomain: res.RegisteredDomain,
	})
}

func (s *Server) handleTld(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")
	res, err := s.resolve(host)
	if err != nil {
		s.writeError(w, host, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"host": host,
		"tld":  res.PublicSuffix,
	})
}

func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")
	res, err := s.resolve(host)
	if err != nil {
		s.writeError(w, host, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"host":   host,
		"domain": res.RegisteredDomain,
	})
}

func (s *Server) writeError(w http.ResponseWriter, host string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, engine.ErrInvalidHost) {
		status = http.StatusBadRequest
	}
	s.log.Debugw("query rejected", "host", host, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
