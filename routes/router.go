package routes

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"civicsync-dashboard/controllers"
	"civicsync-dashboard/middlewares"
	"civicsync-dashboard/services"
)

// Deps is everything the router needs to build its handlers.
type Deps struct {
	Logger         *slog.Logger
	Auth           *services.AuthService
	Issues         *services.IssueService
	Cookie         controllers.CookieConfig
	AllowedOrigins []string
	RateCounter    middlewares.Counter
	RateQueue      string
	RateLimit      int
	RateWindow     time.Duration
}

// NewRouter wires middleware, controllers and routes into a gin engine.
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := controllers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Logger))
	r.Use(cors.New(corsConfig(d.AllowedOrigins)))

	auth := middlewares.AuthMiddleware(d.Auth)
	limiter := middlewares.IssueRateLimiter(d.RateCounter, d.RateQueue, d.RateLimit, d.RateWindow)

	sessions := d.Auth.Sessions()
	ac := controllers.NewAuthController(d.Auth, d.Cookie)
	ic := controllers.NewIssueController(d.Issues)
	sc := controllers.NewSessionController(d.Issues, sessions)

	MetaRoutes(r)
	AuthRoutes(r, ac, auth)
	IssueRoutes(r, ic, sc, auth, limiter)
	SessionRoutes(r, sc, auth)
	return r, nil
}

// corsConfig allows credentialed requests from the listed origins, or
// uncredentialed requests from anywhere when none are listed.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
