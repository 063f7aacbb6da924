package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/tracegate/internal/domain"
	"github.com/hamed0406/tracegate/internal/probe"
	"github.com/hamed0406/tracegate/internal/state"
)

// Server exposes the stack's health over HTTP while `tracegate serve` runs.
type Server struct {
	Logger   *zap.Logger
	Services []domain.Service
	Store    *state.Store
	Checker  probe.Checker
	Timeout  time.Duration // per on-demand probe
}

func NewServer(l *zap.Logger, services []domain.Service, st *state.Store, c probe.Checker, timeout time.Duration) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Server{Logger: l, Services: services, Store: st, Checker: c, Timeout: timeout}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/services", s.handleListServices)
	r.Post("/api/services/{name}/check", s.handleCheckNow)

	return r
}

type serviceStatus struct {
	Service domain.Service      `json:"service"`
	Latest  *domain.ProbeRecord `json:"latest,omitempty"`
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	out := make([]serviceStatus, 0, len(s.Services))
	for _, svc := range s.Services {
		st := serviceStatus{Service: svc}
		if rec, ok := s.Store.Get(svc.Name); ok {
			st.Latest = rec
		}
		out = append(out, st)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleCheckNow(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	svc, ok := s.findService(name)
	if !ok {
		http.Error(w, "unknown service", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()
	out := s.Checker.Check(ctx, svc.HealthURL)

	rec := &domain.ProbeRecord{
		Service:    svc.Name,
		Up:         out.Success,
		HTTPStatus: out.StatusCode,
		LatencyMS:  out.LatencyMS,
		Reason:     out.Message,
		CheckedAt:  time.Now().UTC(),
	}
	s.Store.Set(rec)

	s.Logger.Info("checked_service",
		zap.String("service", svc.Name),
		zap.Bool("up", out.Success),
		zap.Int("status", out.StatusCode),
		zap.Float64("latency_ms", out.LatencyMS),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rec)
}

func (s *Server) findService(name string) (domain.Service, bool) {
	for _, svc := range s.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return domain.Service{}, false
}
