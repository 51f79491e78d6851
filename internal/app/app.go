package app

import (
	"context"
	"kpi_tracker_backend/internal/config"
	"kpi_tracker_backend/internal/controller"
	"kpi_tracker_backend/internal/repository"
	"kpi_tracker_backend/internal/service"
	"kpi_tracker_backend/pkg/cache"
	"kpi_tracker_backend/pkg/database"
	"kpi_tracker_backend/pkg/logger"
	"kpi_tracker_backend/pkg/monitoring"
	"kpi_tracker_backend/pkg/security"
	"kpi_tracker_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
}

type repositories struct {
	user   *repository.UserRepository
	team   *repository.TeamRepository
	goal   *repository.GoalRepository
	kpi    *repository.KPIRepository
	update *repository.KPIUpdateRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	storage   *service.StorageService
	team      *service.TeamService
	goal      *service.GoalService
	kpi       *service.KPIService
	checkin   *service.CheckinService
	dashboard *service.DashboardService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	team      *controller.TeamController
	goal      *controller.GoalController
	kpi       *controller.KPIController
	update    *controller.UpdateController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 由配置监听器调用
func (a *App) ApplyConfig(cfg *config.Config) {
	logger.ApplyConfig(cfg)
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:   repository.NewUserRepository(db),
		team:   repository.NewTeamRepository(db),
		goal:   repository.NewGoalRepository(db),
		kpi:    repository.NewKPIRepository(db),
		update: repository.NewKPIUpdateRepository(db),
	}
}

// dashboardCache Redis 可用时共享缓存，否则使用进程内 LRU
func dashboardCache(cfg *config.Config, rdb *redis.Client) cache.Cache {
	if rdb != nil {
		return cache.NewRedisCache(rdb)
	}
	return cache.NewLRUCache(cfg.Cache.LRUSize, cfg.Cache.DashboardTTL())
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.team, s.storage)
	s.team = service.NewTeamService(repos.team, repos.user)

	s.dashboard = service.NewDashboardService(
		s.team,
		repos.goal,
		repos.kpi,
		repos.update,
		dashboardCache(cfg, rdb),
		cfg.Cache.DashboardTTL(),
	)

	s.goal = service.NewGoalService(repos.goal, repos.kpi, repos.update, s.team, s.dashboard)
	s.kpi = service.NewKPIService(repos.kpi, repos.goal, repos.update, s.team, s.dashboard)
	s.checkin = service.NewCheckinService(repos.update, repos.kpi, repos.goal, s.team, s.dashboard)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		user:      controller.NewUserController(s.user),
		team:      controller.NewTeamController(s.team),
		goal:      controller.NewGoalController(s.goal),
		kpi:       controller.NewKPIController(s.kpi),
		update:    controller.NewUpdateController(s.checkin),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 连接数据库和 Redis 后组装应用
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := NewAppWithDB(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	return app
}

// NewAppWithDB 使用现成的连接组装应用，rdb 可以为 nil
func NewAppWithDB(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	gin.SetMode(cfg.Server.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	app.RegisterConfigCallback(func(next *config.Config) {
		app.services.dashboard.SetTTL(next.Cache.DashboardTTL())
	})

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.ReleaseMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

// Close 释放后台协程和连接
func (a *App) Close() {
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracing.Shutdown(ctx, a.tracer); err != nil {
		logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}

// Context 应用生命周期，Close 后结束
func (a *App) Context() context.Context {
	return a.ctx
}
