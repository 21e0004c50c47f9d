package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/fitcoach/internal/account"
	"github.com/dukerupert/fitcoach/internal/coach"
	"github.com/dukerupert/fitcoach/internal/handler"
	"github.com/dukerupert/fitcoach/internal/middleware"
	ws "github.com/dukerupert/fitcoach/internal/websocket"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// WorkoutStore is the persistence the HTTP surface and the plan generator
// share.
type WorkoutStore interface {
	handler.WorkoutStore
	coach.WorkoutHistory
}

type Deps struct {
	Users    account.UserStore
	Workouts WorkoutStore
	Tokens   Tokens
	// LLM may be nil when no provider key is configured.
	LLM         coach.TextGenerator
	CoachOpts   coach.Options
	CORSOrigins []string
	// TrustProxyHeaders keys rate limits and logs on X-Forwarded-For and
	// CF-Connecting-IP. Leave it off unless a proxy sets those headers.
	TrustProxyHeaders bool
}

type Tokens interface {
	account.TokenIssuer
	middleware.TokenVerifier
}

type Server struct {
	hub         *ws.Hub
	tokens      Tokens
	authH       *handler.AuthHandler
	workoutH    *handler.WorkoutHandler
	recommendH  *handler.RecommendationHandler
	rateLimiter *middleware.RateLimiter
	corsOrigins []string
	clientIP    func(*http.Request) string
	logger      *slog.Logger
}

func New(deps Deps, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	accounts := account.NewService(deps.Users, deps.Tokens, logger.With("component", "account"))
	generator := coach.NewGenerator(deps.LLM, deps.Workouts, deps.CoachOpts, logger.With("component", "coach"))

	return &Server{
		hub:         hub,
		tokens:      deps.Tokens,
		authH:       handler.NewAuthHandler(accounts, logger.With("component", "auth")),
		workoutH:    handler.NewWorkoutHandler(deps.Workouts, hub, logger.With("component", "workout")),
		recommendH:  handler.NewRecommendationHandler(generator, logger.With("component", "recommendation")),
		rateLimiter: middleware.NewRateLimiter(),
		corsOrigins: deps.CORSOrigins,
		clientIP:    middleware.ClientIP(deps.TrustProxyHeaders),
		logger:      logger,
	}
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /api/health", s.healthHandler)
	mux.Handle("POST /api/auth/register", s.rateLimited(http.HandlerFunc(s.authH.Register)))
	mux.Handle("POST /api/auth/login", s.rateLimited(http.HandlerFunc(s.authH.Login)))

	// Protected routes
	mux.Handle("GET /api/workouts", s.protected(http.HandlerFunc(s.workoutH.List)))
	mux.Handle("POST /api/workouts", s.protected(http.HandlerFunc(s.workoutH.Create)))
	mux.Handle("GET /api/ai-recommendation", s.protected(http.HandlerFunc(s.recommendH.Get)))
	mux.Handle("GET /api/ws", middleware.Chain(
		ws.HandleWebSocket(s.hub, s.corsOrigins, s.logger.With("component", "websocket")),
		middleware.TokenFromQuery("access_token"),
		middleware.RequireAuth(s.tokens),
	))

	return middleware.Chain(mux,
		middleware.RequestLogger(s.logger.With("component", "http"), s.clientIP),
		middleware.Recover(s.logger.With("component", "http")),
		middleware.CORS(s.corsOrigins),
	)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK", "message": "Server is running"})
}

func (s *Server) protected(h http.Handler) http.Handler {
	return middleware.Chain(h, middleware.RequireAuth(s.tokens))
}

func (s *Server) rateLimited(h http.Handler) http.Handler {
	return middleware.Chain(h, middleware.RateLimit(s.rateLimiter, s.clientIP, authRateLimit, authRateWindow))
}
