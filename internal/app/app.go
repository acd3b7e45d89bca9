package app

import (
	"context"
	"educonnect_backend/internal/config"
	"educonnect_backend/internal/controller"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/service"
	"educonnect_backend/pkg/database"
	"educonnect_backend/pkg/logger"
	"educonnect_backend/pkg/monitoring"
	"educonnect_backend/pkg/security"
	"educonnect_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	enrollment  *repository.EnrollmentRepository
	assessment  *repository.AssessmentRepository
	certificate *repository.CertificateRepository
	material    *repository.MaterialRepository
	liveClass   *repository.LiveClassRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	course      *service.CourseService
	enrollment  *service.EnrollmentService
	assessment  *service.AssessmentService
	certificate *service.CertificateService
	material    *service.MaterialService
	liveClass   *service.LiveClassService
	classHub    *service.ClassHub
}

type controllers struct {
	auth        *controller.AuthController
	course      *controller.CourseController
	assessment  *controller.AssessmentController
	certificate *controller.CertificateController
	material    *controller.MaterialController
	liveClass   *controller.LiveClassController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		assessment:  repository.NewAssessmentRepository(db),
		certificate: repository.NewCertificateRepository(db),
		material:    repository.NewMaterialRepository(db),
		liveClass:   repository.NewLiveClassRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course)
	s.certificate = service.NewCertificateService(repos.certificate, repos.assessment, repos.course, cfg.Certificate.ValidityYears)
	s.assessment = service.NewAssessmentService(repos.assessment, repos.course, s.certificate)
	s.material = service.NewMaterialService(repos.material, s.storage)

	s.classHub = service.NewClassHub(rdb)
	go s.classHub.Run()

	s.liveClass = service.NewLiveClassService(repos.liveClass, repos.course, repos.enrollment, s.classHub)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		course:      controller.NewCourseController(s.course, s.enrollment),
		assessment:  controller.NewAssessmentController(s.assessment),
		certificate: controller.NewCertificateController(s.certificate),
		material:    controller.NewMaterialController(s.material),
		liveClass:   controller.NewLiveClassController(s.liveClass, s.classHub),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("educonnect-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.registerShutdownHook(func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		})
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// ApplyConfig takes a hot-reloaded config. Only settings that are safe to
// change on a running server are applied; listeners and middleware keep their
// startup values.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Certificate = cfg.Certificate
	a.Config.RateLimit = cfg.RateLimit
	if a.services != nil && a.services.certificate != nil {
		a.services.certificate.ValidityYears = cfg.Certificate.ValidityYears
	}
	logger.Log.Info("Configuration reloaded",
		zap.Int("certificateValidityYears", cfg.Certificate.ValidityYears))
}

var shutdownHooks []func()

func (a *App) registerShutdownHook(hook func()) {
	shutdownHooks = append(shutdownHooks, hook)
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Drop websocket connections and presence keys before closing the listener.
	if a.services != nil && a.services.classHub != nil {
		a.services.classHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	for _, hook := range shutdownHooks {
		hook()
	}

	log.Println("Server exiting")
}
