// Package web serves the browser UI and JSON API.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/helmcode/cricshot/pkg/advisor"
	"github.com/helmcode/cricshot/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures a Server.
type Options struct {
	// AllowedOrigins lists cross-origin callers of /api and /ws.
	AllowedOrigins []string
}

// Server wires sessions, pages and the API together.
type Server struct {
	logger    *zap.Logger
	sessions  *sessionStore
	templates *template.Template
	upgrader  websocket.Upgrader
	origins   []string

	done     chan struct{}
	doneOnce sync.Once
}

func NewServer(requester advisor.Requester, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		logger:    logger,
		templates: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")),
		origins:   opts.AllowedOrigins,
		done:      make(chan struct{}),
	}
	s.sessions = newSessionStore(func(n session.Notifier) *session.Controller {
		return session.NewController(requester, n, logger)
	})
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.HealthCheck)
	r.Get("/", s.Index)
	r.Post("/selection", s.FormSelection)
	r.Post("/analyze", s.FormAnalyze)
	r.Get("/field.svg", s.FieldSVG)
	r.Get("/ws", s.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Get("/options", s.ListOptions)
		r.Get("/state", s.GetState)
		r.Put("/selection", s.PutSelection)
		r.Post("/analyze", s.PostAnalyze)
	})

	return r
}

// Shutdown closes open WebSocket streams. Pass it to
// http.Server.RegisterOnShutdown.
func (s *Server) Shutdown() {
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	for _, allowed := range s.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
