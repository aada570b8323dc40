package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/officeboard/backend/internal/clock"
	"github.com/officeboard/backend/internal/config"
	"github.com/officeboard/backend/internal/http/handlers"
	"github.com/officeboard/backend/internal/http/middleware"
	"github.com/officeboard/backend/internal/service"

	_ "github.com/officeboard/backend/docs"
)

type Deps struct {
	Store   handlers.Pinger
	Agenda  *service.AgendaService
	Brokers *service.BrokerStatusService
	Boards  *service.BoardRegistry
	Clock   clock.Clock
}

func Router(cfg config.Config, deps Deps, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.TenantHeader, middleware.APIKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"ETag", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = config.SplitList(cfg.CORSAllowed)
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     deps.Store,
		Agenda:    deps.Agenda,
		Brokers:   deps.Brokers,
		Boards:    deps.Boards,
		Clock:     deps.Clock,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.APIKey(cfg.APIKey), middleware.Tenant())
	{
		api.GET("/agenda", h.AgendaView)
		api.GET("/agenda/week.ics", h.WeekICS)
		api.GET("/brokers/status", h.BrokerStatuses)
		api.GET("/dashboard", h.Dashboard)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
