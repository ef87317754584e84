package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/dayplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/dayplanner-backend/internal/http/middleware"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	CategoryHandler *httpH.CategoryHandler
	ScheduleHandler *httpH.ScheduleHandler
	HabitHandler    *httpH.HabitHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "dayplanner"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck", "/metrics"))
	r.Use(httpMW.Metrics(cfg.Metrics, "/healthcheck", "/metrics"))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Activity categories
		if cfg.CategoryHandler != nil {
			protected.GET("/categories/getAllData", cfg.CategoryHandler.GetAllData)
			protected.POST("/categories/upsert", cfg.CategoryHandler.Upsert)
		}

		// Schedules
		if cfg.ScheduleHandler != nil {
			protected.POST("/schedules/init", cfg.ScheduleHandler.Init)
			protected.POST("/schedules/upsert", cfg.ScheduleHandler.Upsert)
			protected.GET("/schedules/chart", cfg.ScheduleHandler.Chart)
			protected.GET("/schedules/chart.png", cfg.ScheduleHandler.ChartPNG)
		}

		// Habits
		if cfg.HabitHandler != nil {
			protected.GET("/habit/goal/init", cfg.HabitHandler.GoalInit)
			protected.POST("/habit/goal/upsert", cfg.HabitHandler.GoalUpsert)
			protected.GET("/habit/log/init", cfg.HabitHandler.LogInit)
			protected.POST("/habit/log/store", cfg.HabitHandler.LogStore)
		}
	}

	return r
}
