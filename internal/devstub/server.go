// Package devstub is a self-contained stand-in for the intake backend. It
// keeps everything in memory and implements exactly the API surface the
// client consumes, so the CLI and the test suites can run against a real HTTP
// server without any deployment. Email template routes are deliberately
// absent; the client's local template library covers that gap, as it does
// against the production backend.
package devstub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	appmodels "intake/internal/application/models"
	authmodels "intake/internal/auth/models"
	emailmodels "intake/internal/email/models"
	usermodels "intake/internal/user/models"
)

const tokenTTL = 24 * time.Hour

type account struct {
	user         authmodels.User
	passwordHash []byte
}

// Server is the in-memory backend. It is safe for concurrent use.
type Server struct {
	mu           sync.RWMutex
	accounts     map[string]*account // keyed by lowercase email
	applications map[string]appmodels.Application
	configs      map[string]usermodels.FormConfig // keyed by owner user id
	history      []emailmodels.HistoryEntry

	secret []byte
	logger *slog.Logger
	router chi.Router
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New constructs the stub with the given JWT signing secret.
func New(secret string, opts ...Option) *Server {
	s := &Server{
		accounts:     make(map[string]*account),
		applications: make(map[string]appmodels.Application),
		configs:      make(map[string]usermodels.FormConfig),
		secret:       []byte(secret),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/login", s.handleLogin)
		r.Post("/users/register", s.handleRegister)
		r.Post("/applications/submit/{ownerID}", s.handleSubmitApplication)
		r.Get("/users/{ownerID}/form-config", s.handlePublicFormConfig)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/users/logout", s.handleLogout)
			r.Get("/users/profile", s.handleProfile)
			r.Put("/users/profile", s.handleUpdateProfile)
			r.Post("/users/refresh-token", s.handleRefreshToken)
			r.Get("/users/form-config", s.handleFormConfig)
			r.Put("/users/form-config", s.handleUpdateFormConfig)
			r.Get("/users/dashboard-stats", s.handleDashboardStats)

			r.Get("/applications", s.handleListApplications)
			r.Get("/applications/recent", s.handleRecentApplications)
			r.Get("/applications/stats", s.handleApplicationStats)
			r.Get("/applications/{id}", s.handleGetApplication)
			r.Patch("/applications/{id}/status", s.handleUpdateStatus)
			r.Patch("/applications/{id}/remarks", s.handleAddRemarks)
			r.Patch("/applications/bulk/status", s.handleBulkStatus)

			r.Post("/emails/send", s.handleSendEmail)
			r.Get("/emails/history", s.handleEmailHistory)
		})
	})
	return r
}

// requestLogger logs one line per request with a coarse device label parsed
// from the user agent, mirroring what the hosted backend records.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.UserAgent())
		browser, _ := ua.Browser()
		device := "desktop"
		if ua.Mobile() {
			device = "mobile"
		} else if ua.Bot() {
			device = "bot"
		}
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"device", device,
			"browser", browser,
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func (s *Server) issueToken(userID, email string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
		"jti":   uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (s *Server) checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
