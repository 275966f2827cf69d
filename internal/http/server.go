// Package http serves the budget dashboard: the JSON budget API used by
// hosted-function clients and the server-rendered htmx dashboard.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"budgetdash/internal/budget"
	"budgetdash/internal/format"
	"budgetdash/internal/log"
	"budgetdash/internal/middleware/ratelimit"
	"budgetdash/internal/middleware/security"
	appweb "budgetdash/web"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Options tunes a Server. Zero values pick defaults.
type Options struct {
	Formatter *format.Formatter
	Logger    *log.Logger
	// Limiter throttles the budget endpoints; nil disables rate limiting.
	Limiter *ratelimit.Limiter
	// TrustedProxies are extra CIDRs allowed to set forwarding headers.
	TrustedProxies []string
}

type Server struct {
	http.Server
	svc       *budget.Service
	fmt       *format.Formatter
	logger    *log.Logger
	templates *template.Template
	limiter   *ratelimit.Limiter
	clientIP  *security.ClientIP
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *budget.Service, opts Options) *Server {
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		svc:     svc,
		fmt:     opts.Formatter,
		logger:  opts.Logger,
		limiter: opts.Limiter,
	}
	if s.fmt == nil {
		s.fmt = format.Default
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)

	clientIP, err := security.NewClientIP(opts.TrustedProxies...)
	if err != nil {
		s.logger.Warn("Ignoring invalid trusted proxies", log.FieldError, err)
		clientIP, _ = security.NewClientIP()
	}
	s.clientIP = clientIP

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.WithComponent(log.ComponentTemplate).Error("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.resolveClientIP)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestIDMiddleware(middleware.GetReqID))
	r.Use(log.AccessLog)
	r.Use(recoverJSON)
	// Every response carries the CORS headers; OPTIONS is answered here.
	r.Use(security.CORS(security.DefaultCORSConfig()))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	}

	// JSON API.
	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit(writeRateLimitedJSON))
		r.Post("/functions/v1/get-budget", s.handleGetBudget)
		r.Post("/api/budget", s.handleGetBudget)
		r.Get("/api/departments", s.handleDepartments)
	})

	// Dashboard.
	r.Group(func(r chi.Router) {
		r.Use(security.Headers(security.DefaultHeadersConfig()))
		r.Get("/", s.handleIndex)
		r.With(s.rateLimit(writeRateLimitedHTMX)).Get("/ui/budget", s.handleBudgetPartial)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// resolveClientIP replaces RemoteAddr with the address resolved through
// trusted proxies so logging and rate limiting see the real caller.
func (s *Server) resolveClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.RemoteAddr = s.clientIP.Extract(r)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	if s.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return s.limiter.Middleware(func(r *http.Request) string { return r.RemoteAddr }, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, r.RemoteAddr,
			log.FieldPath, r.URL.Path)
		onLimit(w, r)
	})
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		m := s.limiter.GetMetrics()
		s.logger.Info("Rate limiter stopped",
			log.FieldOperation, log.OpShutdown,
			"limited_requests", m.TotalHits,
			"tracked_clients", m.ClientCount)
		s.limiter.Stop()
	}
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.Ping(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
