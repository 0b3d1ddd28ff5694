package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"studypath_backend/internal/config"
	"studypath_backend/internal/controller"
	"studypath_backend/internal/repository"
	"studypath_backend/internal/service"
	"studypath_backend/pkg/configwatcher"
	"studypath_backend/pkg/database"
	"studypath_backend/pkg/logger"
	"studypath_backend/pkg/monitoring"
	"studypath_backend/pkg/security"
	"studypath_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	program    *repository.ProgramRepository
	content    *repository.ContentItemRepository
	enrollment *repository.EnrollmentRepository
	quiz       *repository.QuizRepository
}

type services struct {
	auth       *service.AuthService
	stats      *service.StatsService
	sync       *service.ProgressSyncService
	enrollment *service.EnrollmentService
	content    *service.ContentService
	quiz       *service.QuizService
}

type controllers struct {
	auth       *controller.AuthController
	content    *controller.ContentController
	enrollment *controller.EnrollmentController
	quiz       *controller.QuizController
	stats      *controller.StatsController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		program:    repository.NewProgramRepository(db),
		content:    repository.NewContentItemRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		quiz:       repository.NewQuizRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	// 同一把键锁在报名写路径和重同步之间共享
	locks := service.NewKeyLocker()

	s.auth = service.NewAuthService(repos.user, cfg)
	s.stats = service.NewStatsService(repos.enrollment, rdb, time.Duration(cfg.Stats.CacheTTLSeconds)*time.Second)
	s.sync = service.NewProgressSyncService(repos.enrollment, repos.content, s.stats, locks)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.program, s.sync, s.stats, locks)
	s.content = service.NewContentService(repos.content, repos.program, s.sync)
	s.quiz = service.NewQuizService(repos.quiz, s.enrollment)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		content:    controller.NewContentController(s.content),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		quiz:       controller.NewQuizController(s.quiz),
		stats:      controller.NewStatsController(s.stats),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("studypath-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	// 配置热更新
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("Config reloaded")
		app.Config = newCfg
		for _, cb := range app.configCallbacks {
			cb(newCfg)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
