// Package devapi is an in-memory backend speaking the HTTP contract the desk
// consumes. It exists for local runs and tests and keeps nothing on disk.
package devapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/jwt"
	"github.com/folio-desk/folio/shared/middleware"
	"github.com/folio-desk/folio/shared/middleware/ratelimiter"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Config struct {
	JwtSecret string
	JwtTTL    time.Duration
	OtpLen    int
	OtpTTL    time.Duration
	// CodeRate and CodeBurst bound how often codes are sent to one email.
	CodeRate  float64
	CodeBurst float64
}

func DefaultConfig() Config {
	return Config{
		JwtSecret: "folio-dev-secret",
		JwtTTL:    24 * time.Hour,
		OtpLen:    6,
		OtpTTL:    5 * time.Minute,
		CodeRate:  1.0 / 30,
		CodeBurst: 5,
	}
}

type account struct {
	user     domain.User
	passHash []byte
}

type pendingRegistration struct {
	name     string
	passHash []byte
}

type otpKey struct {
	email   domain.Email
	purpose domain.OtpPurpose
}

type otpEntry struct {
	hash    []byte
	expires time.Time
}

type Server struct {
	cfg Config
	jwt *jwt.Jwt
	now func() time.Time

	mu         sync.Mutex
	accounts   map[domain.Email]*account
	pending    map[domain.Email]pendingRegistration
	otps       map[otpKey]otpEntry
	lastCodes  map[domain.Email]string
	boards     map[domain.BoardId]domain.Board
	boardOrder []domain.BoardId
	tasks      map[domain.TaskId]domain.Task
	taskOrder  []domain.TaskId

	handler http.Handler
}

func New(cfg Config) *Server {
	s := &Server{
		cfg:       cfg,
		jwt:       jwt.New(cfg.JwtSecret, cfg.JwtTTL),
		now:       time.Now,
		accounts:  make(map[domain.Email]*account),
		pending:   make(map[domain.Email]pendingRegistration),
		otps:      make(map[otpKey]otpEntry),
		lastCodes: make(map[domain.Email]string),
		boards:    make(map[domain.BoardId]domain.Board),
		tasks:     make(map[domain.TaskId]domain.Task),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// LastCode returns the most recent one-time code issued for email.
func (s *Server) LastCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCodes[normalizeEmail(email)]
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Post("/token", s.Token)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register-verify", s.RegisterVerify)
		r.Post("/verify-otp", s.VerifyOtp)
		r.Post("/reset-password", s.ResetPassword)

		// endpoints that send a code
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ratelimiter.New(s.cfg.CodeRate, s.cfg.CodeBurst, time.Hour), codeKey))
			r.Post("/register-request", s.RegisterRequest)
			r.Post("/request-otp", s.RequestOtp)
			r.Post("/request-reset-password", s.RequestResetPassword)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.NeedBearer(s))
		r.Get("/users/me", s.Me)
		r.Get("/boards", s.ListBoards)
		r.Post("/boards", s.CreateBoard)
		r.Delete("/boards/{id}", s.DeleteBoard)
		r.Get("/boards/{id}/tasks", s.ListTasks)
		r.Post("/tasks", s.CreateTask)
		r.Put("/tasks/{id}", s.UpdateTask)
		r.Delete("/tasks/{id}", s.DeleteTask)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	return r
}

// codeKey limits by email, or by client address when the body has none so
// that validation still answers with 422.
func codeKey(r *http.Request) (string, error) {
	if email, err := middleware.GetEmailFromBody(r); err == nil {
		return "email:" + email, nil
	}
	ip, err := middleware.GetIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + ip, nil
}
