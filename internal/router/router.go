package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/odontoapp/clinic-api/internal/handler"
	anamnesisHandler "github.com/odontoapp/clinic-api/internal/handler/anamnesis"
	auditHandler "github.com/odontoapp/clinic-api/internal/handler/audit"
	authHandler "github.com/odontoapp/clinic-api/internal/handler/auth"
	catalogHandler "github.com/odontoapp/clinic-api/internal/handler/catalog"
	patientHandler "github.com/odontoapp/clinic-api/internal/handler/patient"
	"github.com/odontoapp/clinic-api/internal/middleware"
	"github.com/odontoapp/clinic-api/internal/model"
)

type Config struct {
	RateLimit rate.Limit
	RateBurst int
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_api",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func New(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	patientH *patientHandler.Handler,
	anamnesisH *anamnesisHandler.Handler,
	auditH *auditHandler.Handler,
	catalogH *catalogHandler.Handler,
	healthH *handler.HealthHandler,
	cfg Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		metrics: newRouterMetrics(),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		limiter.RateLimit(),
		r.metricsMiddleware(),
	)

	engine.GET("/health", healthH.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := engine.Group("/api/v1")
	authH.RegisterRoutes(public)

	api := engine.Group("/api/v1")
	api.Use(auth.Authenticate())

	// Patients and encounters: reception can manage demographics.
	patientGroup := api.Group("")
	patientGroup.Use(auth.RequireRole(model.RoleRecep, model.RoleOdont))
	patientH.RegisterRoutes(patientGroup)

	// Clinical records: dentists only.
	clinical := api.Group("")
	clinical.Use(auth.RequireRole(model.RoleOdont))
	anamnesisH.RegisterRoutes(clinical)

	// Audit trail: admins only.
	admin := api.Group("")
	admin.Use(auth.RequireRole(model.RoleAdmin))
	auditH.RegisterRoutes(admin)

	// Catalogs: any authenticated role.
	catalogH.RegisterRoutes(api)

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
