package main

import (
	"homecare-service/internal/handler"
	"homecare-service/internal/middleware"
	"homecare-service/pkg/config"
	"homecare-service/pkg/database"
	"homecare-service/pkg/jwtutil"
	"homecare-service/pkg/logger"
	"homecare-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting home care coordination service...", zap.String("environment", cfg.Server.Env))

	// Initialize database (now includes migrations automatically)
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Initialize token validation
	jwtutil.Init(cfg.Auth.SigningKey)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.IdentityMiddleware(cfg))

	// Public routes
	e.GET("/", handler.Hello)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", prometheus.HandlerFunc())

	api := e.Group("/api/v1")

	persons := api.Group("/persons")
	persons.GET("", handler.ListPersons)
	persons.POST("", handler.CreatePerson)
	persons.GET("/:id", handler.GetPerson)
	persons.PATCH("/:id", handler.UpdatePerson)

	organizations := api.Group("/organizations")
	organizations.GET("", handler.ListOrganizations)
	organizations.POST("", handler.CreateOrganization)
	organizations.GET("/:id", handler.GetOrganization)
	organizations.PATCH("/:id", handler.UpdateOrganization)

	locations := api.Group("/locations")
	locations.GET("", handler.ListLocations)
	locations.POST("", handler.CreateLocation)
	locations.GET("/:id", handler.GetLocation)
	locations.PATCH("/:id", handler.UpdateLocation)

	memberships := api.Group("/memberships")
	memberships.GET("", handler.ListMemberships)
	memberships.POST("", handler.CreateMembership)
	memberships.GET("/:id", handler.GetMembership)
	memberships.PATCH("/:id", handler.UpdateMembership)

	relationships := api.Group("/care-relationships")
	relationships.GET("", handler.ListCareRelationships)
	relationships.POST("", handler.CreateCareRelationship)
	relationships.GET("/:id", handler.GetCareRelationship)
	relationships.PATCH("/:id", handler.UpdateCareRelationship)

	arrangements := api.Group("/care-arrangements")
	arrangements.GET("", handler.ListCareArrangements)
	arrangements.POST("", handler.CreateCareArrangement)
	arrangements.GET("/:id", handler.GetCareArrangement)
	arrangements.PATCH("/:id", handler.UpdateCareArrangement)

	assignments := api.Group("/assignments-24x7")
	assignments.GET("", handler.ListAssignments)
	assignments.POST("", handler.CreateAssignment)
	assignments.GET("/:id", handler.GetAssignment)
	assignments.PATCH("/:id", handler.UpdateAssignment)

	visits := api.Group("/visits")
	visits.GET("", handler.ListVisits)
	visits.POST("", handler.CreateVisit)
	visits.GET("/:id", handler.GetVisit)
	visits.PATCH("/:id", handler.UpdateVisit)
	visits.POST("/:id/start", handler.StartVisit)
	visits.POST("/:id/end", handler.EndVisit)

	tasks := api.Group("/tasks")
	tasks.GET("", handler.ListTasks)
	tasks.POST("", handler.CreateTask)
	tasks.GET("/:id", handler.GetTask)
	tasks.PATCH("/:id", handler.UpdateTask)

	notes := api.Group("/visit-notes")
	notes.GET("", handler.ListVisitNotes)
	notes.POST("", handler.CreateVisitNote)
	notes.GET("/:id", handler.GetVisitNote)
	notes.PATCH("/:id", handler.UpdateVisitNote)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
