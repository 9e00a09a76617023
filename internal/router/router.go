package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/bloodlink/bloodlink-api/internal/handler/prometheus"
	"github.com/bloodlink/bloodlink-api/internal/middleware"
	"github.com/bloodlink/bloodlink-api/internal/model"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AuthHandler mounts public routes and routes behind the given
// authentication middleware.
type AuthHandler interface {
	RegisterRoutes(r *gin.RouterGroup, authenticate gin.HandlerFunc)
}

type Handlers struct {
	Auth         AuthHandler
	Admin        Handler
	Staff        Handler
	Donor        Handler
	Organizer    Handler
	Notification Handler
	Health       Handler
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	RequestTimeout   time.Duration
	MaxBodyBytes     int64
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *prometheus.Handler
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, metrics *prometheus.Handler, config RouterConfig) *Router {
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  metrics,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
	)
	if metrics != nil {
		engine.Use(metrics.Middleware())
	}

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if config.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = config.MaxBodyBytes
	}
	engine.Use(
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(sizeLimit),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	// Health and public routes
	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(api)
	}
	r.handlers.Auth.RegisterRoutes(api, r.auth.Authenticate())

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.handlers.Notification.RegisterRoutes(rg)

	r.handlers.Admin.RegisterRoutes(rg.Group("", r.auth.RequireRole(model.RoleAdmin)))
	r.handlers.Staff.RegisterRoutes(rg.Group("", r.auth.RequireRole(model.RoleStaff)))
	r.handlers.Donor.RegisterRoutes(rg.Group("", r.auth.RequireRole(model.RoleDonor)))
	r.handlers.Organizer.RegisterRoutes(rg.Group("", r.auth.RequireRole(model.RoleOrganizer)))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
