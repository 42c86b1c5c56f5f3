// Package twin is an in-memory fake of the Facebook Graph and LinkedIn APIs.
//
// It serves fixture data with the same paths, envelopes and error payloads
// as the real services, so the bindings can be exercised end to end.
package twin

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server routes twin requests. Graph is mounted under /facebook, LinkedIn
// under /linkedin and the admin endpoints under /admin.
type Server struct {
	Router *chi.Mux

	store    *Store
	logger   log.Interface
	requests *prometheus.CounterVec
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l log.Interface) Option {
	return func(s *Server) { s.logger = l }
}

// WithRegisterer counts served requests in reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Server) {
		s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "social_twin",
			Name:      "requests_total",
			Help:      "Requests served by the twin, by API, status code and method.",
		}, []string{"api", "code", "method"})
		reg.MustRegister(s.requests)
	}
}

// New builds a Server over store.
func New(store *Store, opts ...Option) *Server {
	s := &Server{store: store, logger: log.Log}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLog)

	r.Route("/facebook", func(r chi.Router) {
		r.Use(s.instrument("facebook"))
		s.facebookRoutes(r)
	})
	r.Route("/linkedin", func(r chi.Router) {
		r.Use(s.instrument("linkedin"))
		s.linkedinRoutes(r)
	})
	r.Route("/admin", s.adminRoutes)

	s.Router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"elapsed":    time.Since(start),
			"request_id": chimw.GetReqID(r.Context()),
		}).Debug("twin: request")
	})
}

func (s *Server) instrument(api string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if s.requests == nil {
			return next
		}
		return promhttp.InstrumentHandlerCounter(s.requests.MustCurryWith(prometheus.Labels{"api": api}), next)
	}
}

func (s *Server) adminRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
		s.store.Reset()
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	})
	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.store.Snapshot())
	})
	r.Post("/state", func(w http.ResponseWriter, r *http.Request) {
		fx, err := LoadFixture(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.store.Load(fx)
		writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
	})
}

// bearerToken returns the access token from the Authorization header or from
// the given query parameter.
func bearerToken(r *http.Request, queryParam string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return r.URL.Query().Get(queryParam)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// selectFields keeps only the named top-level keys of obj. "id" is always kept.
func selectFields(obj Object, fields []string) Object {
	if len(fields) == 0 {
		return obj
	}
	out := Object{}
	if id, ok := obj["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		if v, ok := obj[f]; ok {
			out[f] = v
		}
	}
	return out
}
