package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aegis-sentinel/backend/internal/api/handler"
	"github.com/aegis-sentinel/backend/internal/api/middleware"
	"github.com/aegis-sentinel/backend/internal/core/service"
	mongodb "github.com/aegis-sentinel/backend/internal/infrastructure/db/mongo"
	"github.com/aegis-sentinel/backend/internal/infrastructure/realtime"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb is nil when the Redis relay is disabled.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	hub *realtime.Hub,
	uploads handler.UploadStore,
	jwtSecret string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("sentinel"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	incidentRepo := mongodb.NewIncidentRepository(db)
	unitRepo := mongodb.NewUnitRepository(db)

	tokenService := service.NewTokenService(jwtSecret, 0)
	authService := service.NewAuthService(userRepo, tokenService)
	incidentService := service.NewIncidentService(incidentRepo, userRepo, hub, log)
	unitService := service.NewUnitService(unitRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	incidentHandler := handler.NewIncidentHandler(incidentService)
	detectionHandler := handler.NewDetectionHandler(incidentService, uploads, log)
	unitHandler := handler.NewUnitHandler(unitService)
	analyticsHandler := handler.NewAnalyticsHandler(incidentService)

	authGate := middleware.Auth(tokenService)

	// --- Auth routes (no gate) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Incident routes ---
	e.GET("/incidents", incidentHandler.List, authGate)
	e.POST("/incidents", incidentHandler.Create, authGate)
	e.PATCH("/incidents/:id", incidentHandler.Update, authGate)
	e.DELETE("/incidents/:id", incidentHandler.Delete, authGate)
	e.POST("/ai/simulate", detectionHandler.Simulate, authGate)

	// --- Unit routes ---
	e.GET("/units", unitHandler.List, authGate)
	e.POST("/units", unitHandler.Create, authGate)
	e.DELETE("/units/:id", unitHandler.Delete, authGate)

	// --- Analytics ---
	e.GET("/analytics", analyticsHandler.Get, authGate)

	// --- Realtime channel (no gate: subscribers are not authenticated) ---
	e.GET("/ws", func(c echo.Context) error {
		return realtime.ServeWS(hub, log, c.Response(), c.Request())
	})

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
