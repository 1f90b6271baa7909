package plot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/raykavin/lwcharts/pkg/logger"
)

// staleAfter marks the scene unhealthy when nothing was drawn for that long.
const staleAfter = 10 * time.Minute

// Server exposes a Remote over HTTP:
//
//	GET /health        503 when the scene went stale
//	GET /scene?view=   JSON snapshot
//	GET /ws?view=      snapshot followed by live changes
type Server struct {
	log    logger.Logger
	remote *Remote
	mux    *http.ServeMux
}

// NewServer registers the handlers for remote.
func NewServer(log logger.Logger, remote *Remote) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{log: log, remote: remote, mux: http.NewServeMux()}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/scene", s.handleScene)
	s.mux.HandleFunc("/ws", remote.Hub().HandleWebSocket)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdown)
	}()

	s.log.WithField("addr", addr).Info("scene server listening")
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	last := s.remote.LastUpdate()
	if time.Since(last) > staleAfter {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(last.String())); err != nil {
			s.log.WithError(err).Error("failed to write health status")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot(s.remote.Scene(), r.URL.Query().Get("view"))); err != nil {
		s.log.WithError(err).Error("failed to encode scene")
	}
}
