package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/api/handlers"
	"github.com/masthead-press/masthead/internal/api/middleware"
	"github.com/masthead-press/masthead/internal/api/routes"
	"github.com/masthead-press/masthead/internal/domain/attendance"
	"github.com/masthead-press/masthead/internal/domain/export"
	"github.com/masthead-press/masthead/internal/domain/forms"
	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/internal/domain/reporter"
	"github.com/masthead-press/masthead/internal/domain/submission"
	"github.com/masthead-press/masthead/internal/domain/sysconfig"
	"github.com/masthead-press/masthead/internal/domain/task"
	"github.com/masthead-press/masthead/internal/infrastructure/cache"
	"github.com/masthead-press/masthead/internal/infrastructure/formsprovider"
	"github.com/masthead-press/masthead/internal/infrastructure/persistence/postgres/connection"
	"github.com/masthead-press/masthead/internal/infrastructure/persistence/postgres/migrations"
	"github.com/masthead-press/masthead/internal/infrastructure/scheduler"
	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/broker"
	"github.com/masthead-press/masthead/pkg/config"
	"github.com/masthead-press/masthead/pkg/logger"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(middleware.NewMetricsMiddleware().CollectMetrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Type",
			"Authorization",
			middleware.WebhookSecretHeader,
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"Content-Disposition",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Select the tabular store and lock backend
	var (
		tab      store.Tabular
		locker   store.Locker
		appCache cache.Cache
	)
	switch cfg.Store.Mode {
	case "postgres":
		db, err := connection.NewDatabase(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := migrations.AutoMigrate(db, log.Logger); err != nil {
			log.Fatal("Failed to run database migrations", zap.Error(err))
		}
		tab = store.NewPostgresStore(db)

		redisClient, err := cache.NewRedisClient(
			fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			cfg.Redis.Password,
			cfg.Redis.DB,
		)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		locker = store.NewRedisLocker(redisClient, cfg.Store.LockTTL)
		appCache = cache.NewRedisCache(redisClient)
	default:
		tab = store.NewMemoryStore()
		locker = store.NewMemoryLocker()
		appCache = cache.NewMemoryCache()
	}
	log.Info("Store initialized", zap.String("mode", cfg.Store.Mode))

	// Select the form provider
	var provider forms.Provider
	if cfg.Forms.Mode == "http" {
		provider = formsprovider.NewHTTPProvider(cfg.Forms.BaseURL, cfg.Forms.APIToken, cfg.Forms.RequestTimeout)
	} else {
		provider = formsprovider.NewMemoryProvider()
	}
	log.Info("Form provider initialized", zap.String("mode", cfg.Forms.Mode))

	// Initialize repositories
	memberRepo := member.NewRepository(tab)
	taskRepo := task.NewRepository(tab)
	assignmentRepo := task.NewAssignmentRepository(tab)
	formsRepo := forms.NewRepository(tab)
	attendanceRepo := attendance.NewRepository(tab)
	sysconfigRepo := sysconfig.NewRepository(tab)
	submissionRepo := submission.NewRepository(tab)

	// Initialize services
	errReporter := reporter.New(tab, log)
	sysconfigService := sysconfig.NewService(sysconfigRepo, appCache, cfg.Cache.TTL, cfg.Forms.AttendanceSuffix, log)
	memberService := member.NewService(memberRepo, sysconfigService, log)
	formSyncer := forms.NewSyncer(formsRepo, provider, locker, cfg.Store.LockTimeout, log)
	taskService := task.NewService(taskRepo, assignmentRepo, memberRepo, formSyncer, locker, cfg.Store.LockTimeout, log)
	attendanceService := attendance.NewService(attendanceRepo, locker, cfg.Store.LockTimeout, log)
	exportService := export.NewService(taskRepo, assignmentRepo, memberRepo, log)

	// Initialize logrus logger for the broker machinery
	brokerLogger := logrus.New()
	brokerLogger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "production" {
		brokerLogger.SetLevel(logrus.InfoLevel)
	} else {
		brokerLogger.SetLevel(logrus.DebugLevel)
	}

	// Submission routing: webhook publishes, consumer routes
	messageBroker := broker.NewInMemoryBroker(brokerLogger, 256)
	defer messageBroker.Close()

	submissionRouter := submission.NewRouter(
		submissionRepo,
		memberRepo,
		taskRepo,
		taskService,
		attendanceService,
		provider,
		sysconfigService,
		errReporter,
		log,
	)
	consumer := submission.NewBrokerConsumer(messageBroker, submissionRouter, brokerLogger)
	if err := consumer.Start(context.Background()); err != nil {
		log.Fatal("Failed to start submission consumer", zap.Error(err))
	}
	defer consumer.Stop()

	// Start the overdue assignment sweep
	sweep := scheduler.NewScheduler(taskService, log)
	sweep.Start()
	defer sweep.Stop()
	log.Info("Overdue sweep scheduler started")

	// Initialize handlers
	memberHandler := handlers.NewMemberHandler(memberService)
	taskHandler := handlers.NewTaskHandler(taskService)
	formsHandler := handlers.NewFormsHandler(formsRepo, formSyncer)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	sysconfigHandler := handlers.NewSysconfigHandler(sysconfigService)
	submissionHandler := handlers.NewSubmissionHandler(messageBroker, submissionRepo)
	exportHandler := handlers.NewExportHandler(exportService)

	// Health check routes
	routes.SetupHealthRoutes(router)

	// Domain routes (protected)
	jwtSecret, jwtIssuer := cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer

	routes.NewMemberRoutes(memberHandler, jwtSecret, jwtIssuer).RegisterRoutes(router)
	log.Info("Registered member routes at /api/members")

	routes.NewTaskRoutes(taskHandler, exportHandler, jwtSecret, jwtIssuer).RegisterRoutes(router)
	log.Info("Registered task routes at /api/tasks and /api/assignments")

	routes.NewFormsRoutes(formsHandler, jwtSecret, jwtIssuer).RegisterRoutes(router)
	log.Info("Registered forms routes at /api/forms")

	routes.NewAttendanceRoutes(attendanceHandler, jwtSecret, jwtIssuer).RegisterRoutes(router)
	log.Info("Registered attendance routes at /api/attendance")

	routes.NewSysconfigRoutes(sysconfigHandler, jwtSecret, jwtIssuer).RegisterRoutes(router)
	log.Info("Registered config routes at /api/config")

	routes.NewSubmissionRoutes(submissionHandler, jwtSecret, jwtIssuer, cfg.Auth.WebhookSecret).RegisterRoutes(router)
	log.Info("Registered submission routes at /webhooks/submissions and /api/submissions")

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
