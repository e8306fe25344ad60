package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	academicapp "github.com/acadreg/backend/internal/application/academic"
	tuitionapp "github.com/acadreg/backend/internal/application/tuition"
	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/infrastructure/auth"
	"github.com/acadreg/backend/internal/infrastructure/cache"
	"github.com/acadreg/backend/internal/infrastructure/config"
	"github.com/acadreg/backend/internal/infrastructure/event"
	"github.com/acadreg/backend/internal/infrastructure/logger"
	"github.com/acadreg/backend/internal/infrastructure/persistence"
	"github.com/acadreg/backend/internal/infrastructure/telemetry"
	"github.com/acadreg/backend/internal/interfaces/http/handler"
	"github.com/acadreg/backend/internal/interfaces/http/middleware"
	"github.com/acadreg/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Academic Registry API
//	@version		1.0
//	@description	Academic program consistency and tuition regulation backend

//	@contact.name	API Support
//	@contact.url	https://github.com/acadreg/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Academic Registry Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with gorm log level mapped from app log level
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize telemetry (tracing and metrics) when enabled
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	subjectRepo := persistence.NewGormSubjectRepository(db.DB)
	curriculumRepo := persistence.NewGormCurriculumRepository(db.DB)
	programRepo := persistence.NewGormTrainingProgramRepository(db.DB)
	openListRepo := persistence.NewGormOpenSubjectListRepository(db.DB)
	regulationRepo := persistence.NewGormRegulationRepository(db.DB)
	recordRepo := persistence.NewGormTuitionRecordRepository(db.DB)
	historyRepo := persistence.NewGormFeeHistoryRepository(db.DB)
	unitOfWork := persistence.NewGormUnitOfWork(db.DB)

	// Cascade lock (Redis with in-process fallback) and settings cache
	lockFactory := cache.NewCascadeLockFactory(cfg.Redis, cfg.Cascade.LockTTL, cache.WithLogger(log))
	cascadeLock, err := lockFactory.CreateLock()
	if err != nil {
		log.Fatal("Failed to create cascade lock", zap.Error(err))
	}
	settingsCache := cache.NewInMemorySettingsCache(cfg.Cascade.SettingsCache)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	subjectService := academicapp.NewSubjectService(subjectRepo, regulationRepo, eventBus)
	curriculumService := academicapp.NewCurriculumService(curriculumRepo, subjectService, eventBus)
	trainingProgramService := academicapp.NewTrainingProgramService(programRepo, subjectService)
	termParity := academic.NewTermParity(cfg.Academic.ProgramSemesters)
	openSubjectService := academicapp.NewOpenSubjectService(openListRepo, programRepo, subjectService, termParity, eventBus)
	regulationService := tuitionapp.NewRegulationService(
		regulationRepo,
		recordRepo,
		historyRepo,
		unitOfWork,
		cascadeLock,
		settingsCache,
		eventBus,
		log,
	)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Register event handlers for cross-context integration
	// Regulation settings updated -> subject total-period recomputation
	periodRecalcHandler := event.NewPeriodRecalcHandler(subjectRepo, regulationRepo, log)
	eventBus.Subscribe(periodRecalcHandler)

	log.Info("Event handlers registered",
		zap.Strings("period_recalc_events", periodRecalcHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	subjectHandler := handler.NewSubjectHandler(subjectService)
	curriculumHandler := handler.NewCurriculumHandler(curriculumService)
	trainingProgramHandler := handler.NewTrainingProgramHandler(trainingProgramService)
	openSubjectHandler := handler.NewOpenSubjectHandler(openSubjectService)
	regulationHandler := handler.NewRegulationHandler(regulationService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. Tracing/Metrics - OpenTelemetry instrumentation (if enabled)
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("http.server"), true))
	}

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Subject catalog routes
	subjectRoutes := router.NewDomainGroup("subjects", "/subjects")
	subjectRoutes.POST("", subjectHandler.Create)
	subjectRoutes.GET("", subjectHandler.List)
	subjectRoutes.POST("/resolve", subjectHandler.Resolve)
	subjectRoutes.GET("/code/:code", subjectHandler.GetByCode)
	subjectRoutes.GET("/:id", subjectHandler.GetByID)
	subjectRoutes.PUT("/:id", subjectHandler.Update)
	subjectRoutes.DELETE("/:id", subjectHandler.Delete)

	// Curriculum routes
	curriculumRoutes := router.NewDomainGroup("curriculum", "/curriculum")
	curriculumRoutes.POST("", curriculumHandler.Create)
	curriculumRoutes.GET("", curriculumHandler.List)
	curriculumRoutes.POST("/check", curriculumHandler.Check)
	curriculumRoutes.GET("/track", curriculumHandler.ListTrack)
	curriculumRoutes.GET("/:id", curriculumHandler.GetByID)
	curriculumRoutes.PUT("/:id", curriculumHandler.Update)
	curriculumRoutes.DELETE("/:id", curriculumHandler.Delete)

	// Training program routes
	programRoutes := router.NewDomainGroup("training-programs", "/training-programs")
	programRoutes.POST("", trainingProgramHandler.Create)
	programRoutes.GET("", trainingProgramHandler.List)
	programRoutes.GET("/group", trainingProgramHandler.ListGroup)
	programRoutes.GET("/:id", trainingProgramHandler.GetByID)
	programRoutes.PUT("/:id", trainingProgramHandler.Update)
	programRoutes.DELETE("/:id", trainingProgramHandler.Delete)

	// Open subject list routes
	openSubjectRoutes := router.NewDomainGroup("open-subjects", "/open-subjects")
	openSubjectRoutes.POST("", openSubjectHandler.Create)
	openSubjectRoutes.GET("", openSubjectHandler.List)
	openSubjectRoutes.GET("/bucket", openSubjectHandler.GetBucket)
	openSubjectRoutes.POST("/validate-coverage", openSubjectHandler.ValidateCoverage)
	openSubjectRoutes.GET("/:id", openSubjectHandler.GetByID)
	openSubjectRoutes.DELETE("/:id", openSubjectHandler.Delete)
	openSubjectRoutes.PUT("/:id/subjects", openSubjectHandler.ReplaceSubjects)
	openSubjectRoutes.POST("/:id/subjects/:code", openSubjectHandler.AddSubject)
	openSubjectRoutes.DELETE("/:id/subjects/:code", openSubjectHandler.RemoveSubject)
	openSubjectRoutes.PUT("/:id/visibility", openSubjectHandler.SetVisibility)

	// Regulation routes (settings and tuition records)
	regulationRoutes := router.NewDomainGroup("regulation", "/regulation")
	regulationRoutes.GET("/settings", regulationHandler.GetSettings)
	regulationRoutes.PUT("/settings", regulationHandler.UpdateSettings)
	regulationRoutes.GET("/records", regulationHandler.ListRecords)
	regulationRoutes.GET("/records/:id", regulationHandler.GetRecord)
	regulationRoutes.GET("/records/:id/history", regulationHandler.RecordHistory)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(subjectRoutes).
		Register(curriculumRoutes).
		Register(programRoutes).
		Register(openSubjectRoutes).
		Register(regulationRoutes).
		Register(systemRoutes)

	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
