package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jwalitptl/his-api/internal/cache"
	"github.com/jwalitptl/his-api/internal/handler/prometheus"
	"github.com/jwalitptl/his-api/internal/middleware"
	"github.com/jwalitptl/his-api/internal/model"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers groups the route owners by the surface they are mounted on.
type Handlers struct {
	Health Handler

	// Mounted under /api/v1. Auth is public, the rest require a session.
	Auth       Handler
	Client     Handler
	Program    Handler
	Enrollment Handler
	Dashboard  Handler
	User       Handler

	// Mounted under /api.
	APIKey Handler
	Public Handler
}

type RouterConfig struct {
	ServiceName    string
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	SizeLimit      middleware.SizeLimitConfig
	// RateLimit is nil when rate limiting is disabled.
	RateLimit *middleware.RateLimiterConfig
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	cache    *cache.PageCache
	metrics  *prometheus.Handler
	handlers Handlers
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	pageCache *cache.PageCache,
	metrics *prometheus.Handler,
	handlers Handlers,
	config RouterConfig,
) *Router {
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		cache:    pageCache,
		metrics:  metrics,
		handlers: handlers,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		metrics.Middleware(),
		otelgin.Middleware(config.ServiceName),
		middleware.SecurityHeaders(config.Security),
		middleware.CORS(config.CORS),
	)

	if config.RateLimit != nil {
		engine.Use(middleware.NewRateLimiter(*config.RateLimit).RateLimit())
	}

	engine.Use(
		middleware.SizeLimit(config.SizeLimit),
		middleware.Timeout(config.RequestTimeout),
		auth.Session(),
	)

	return r
}

func (r *Router) Setup() {
	r.handlers.Health.RegisterRoutes(&r.engine.RouterGroup)
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Auth.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.RequireSession())
	r.setupProtectedRoutes(protected)

	rest := r.engine.Group("/api")
	r.setupRESTRoutes(rest)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.handlers.Client.RegisterRoutes(rg)
	r.handlers.Program.RegisterRoutes(rg)
	r.handlers.Enrollment.RegisterRoutes(rg)
	r.handlers.Dashboard.RegisterRoutes(rg)
	r.handlers.User.RegisterRoutes(rg)
}

func (r *Router) setupRESTRoutes(rg *gin.RouterGroup) {
	keys := rg.Group("")
	keys.Use(r.auth.RequireRole(model.RoleAdmin))
	r.handlers.APIKey.RegisterRoutes(keys)

	public := rg.Group("")
	public.Use(
		r.auth.RequireAPIKeyOrSession(),
		middleware.ResponseCache(r.cache),
	)
	r.handlers.Public.RegisterRoutes(public)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
