package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lineboost_console/internal/config"
	"lineboost_console/internal/controller"
	"lineboost_console/internal/middleware"
	"lineboost_console/internal/model"
	"lineboost_console/internal/repository"
	"lineboost_console/internal/router"
	"lineboost_console/internal/service"
	"lineboost_console/internal/session"
	"lineboost_console/internal/task"
	"lineboost_console/internal/tracker"
	"lineboost_console/internal/view"
	"lineboost_console/pkg/database"
	"lineboost_console/pkg/logger"
	"lineboost_console/pkg/net"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	// 1. 初始化存储 (PostgreSQL 必需，Redis 可选)
	db := initDatabase(cfg)
	rdb, guard := initRedis(cfg)

	// 2. 初始化依赖
	deps := initDependencies(cfg, db, rdb, guard)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := setupEngine(deps)

	// 5. 启动服务
	startServer(cfg, r, deps)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Sessions    *session.Manager
	Guard       middleware.InFlightGuard
	Tracker     *tracker.Tracker
	Services    *Services
	Controllers *router.Controllers
	Tasks       *task.TaskManager
	CORSOrigins []string
}

// Services 服务集合
type Services struct {
	Store      *service.StoreService
	Auth       *service.AuthService
	Line       *service.LineService
	Inbox      *service.InboxService
	Broadcast  *service.BroadcastService
	Order      *service.OrderService
	Site       *service.SiteService
	Analytics  *service.AnalyticsService
	Knowledge  *service.KnowledgeService
	Admin      *service.AdminService
	Storefront *service.StorefrontService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := database.InitDB(cfg.DBDSN,
		// Session
		&model.ConsoleSession{},
	)
	if err != nil {
		logger.Get().Fatalf("数据库初始化失败: %v", err)
	}
	return db
}

// initRedis 配置了 REDIS_ADDR 才连接，失败回退到数据库会话 + 本地锁
func initRedis(cfg *config.Config) (*redis.Client, middleware.InFlightGuard) {
	if cfg.RedisAddr == "" {
		logger.Module("main").Info("REDIS_ADDR 未配置，使用数据库会话与本地防重锁")
		return nil, middleware.NewLocalGuard()
	}

	rdb, locker, err := database.InitRedis(context.Background(), cfg.RedisAddr, cfg.RedisPass, 3)
	if err != nil {
		logger.Module("main").Warnf("Redis 不可用，回退到本地实现: %v", err)
		return nil, middleware.NewLocalGuard()
	}
	return rdb, middleware.NewRedisGuard(locker, 2*time.Minute)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB, rdb *redis.Client, guard middleware.InFlightGuard) *Dependencies {
	// -------- 会话 --------
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:  cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		Issuer:     "lineboost-console",
		CookieName: "lb_console",
		Secure:     strings.HasPrefix(cfg.PublicBaseURL, "https://"),
	})

	var persister session.Persister
	if rdb != nil {
		persister = session.NewRedisPersister(rdb)
	} else {
		persister = session.NewDBPersister(repository.NewSessionRepository(db))
	}
	sessions := session.NewManager(persister, cfg.SessionTTL)

	// -------- 后端客户端 --------
	api := net.NewClient(net.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Debug:   cfg.LogLevel == "debug",
	})

	// -------- 业务服务 --------
	svc := &Services{
		Store:     service.NewStoreService(api),
		Line:      service.NewLineService(api),
		Inbox:     service.NewInboxService(api),
		Order:     service.NewOrderService(api),
		Knowledge: service.NewKnowledgeService(api),
		Admin:     service.NewAdminService(api),
	}
	svc.Auth = service.NewAuthService(api, sessions, svc.Store)
	svc.Broadcast = service.NewBroadcastService(api, svc.Line)
	svc.Site = service.NewSiteService(api, svc.Store, cfg.PublicBaseURL)
	svc.Analytics = service.NewAnalyticsService(api, svc.Store, svc.Site, svc.Line)

	// -------- 公开店铺 --------
	gateway := service.NewSiteGateway(api)
	t := tracker.New(gateway, cfg.TrackingEnabled, 20)
	svc.Storefront = service.NewStorefrontService(gateway, t, time.Minute, 2*time.Hour)

	// -------- Controller 层 --------
	controllers := initControllers(cfg, svc)

	return &Dependencies{
		DB:          db,
		Redis:       rdb,
		Sessions:    sessions,
		Guard:       guard,
		Tracker:     t,
		Services:    svc,
		Controllers: controllers,
		CORSOrigins: cfg.CORSOrigins,
	}
}

// initControllers 初始化所有控制器
func initControllers(cfg *config.Config, svc *Services) *router.Controllers {
	return &router.Controllers{
		Page:       controller.NewPageController(),
		Session:    controller.NewSessionController(svc.Auth, svc.Store),
		Store:      controller.NewStoreController(svc.Store),
		Line:       controller.NewLineController(svc.Line),
		Inbox:      controller.NewInboxController(svc.Inbox),
		Broadcast:  controller.NewBroadcastController(svc.Broadcast),
		Order:      controller.NewOrderController(svc.Order),
		Site:       controller.NewSiteController(svc.Site),
		Analytics:  controller.NewAnalyticsController(svc.Analytics, svc.Site),
		Knowledge:  controller.NewKnowledgeController(svc.Knowledge),
		Admin:      controller.NewAdminController(svc.Admin),
		Storefront: controller.NewStorefrontController(svc.Storefront, svc.Site, cfg.LiffID),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	deps.Tasks = task.NewTaskManager(&task.TaskManagerDeps{
		Sessions: deps.Sessions,
		Visitors: deps.Services.Storefront,
	}, task.DefaultConfig())

	if err := deps.Tasks.Start(); err != nil {
		logger.Module("main").Errorf("定时任务启动失败: %v", err)
		return
	}
	logger.Module("main").Info("定时任务已启动")
}

// ==================== 服务启动 ====================

// setupEngine 创建 gin 引擎并注册路由
func setupEngine(deps *Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(view.Templates())

	router.InitRoutes(r, *deps.Controllers, router.Guards{
		Sessions:    deps.Sessions,
		InFlight:    deps.Guard,
		CORSOrigins: deps.CORSOrigins,
	})
	return r
}

// startServer 启动服务
func startServer(cfg *config.Config, r *gin.Engine, deps *Dependencies) {
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		logger.Module("main").Infof("服务启动在 :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Module("main").Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Module("main").Errorf("服务强制关闭: %v", err)
	}

	// 停止定时任务，等待在途埋点
	if deps.Tasks != nil {
		deps.Tasks.Stop()
	}
	deps.Tracker.Wait(ctx)

	if deps.Redis != nil {
		_ = deps.Redis.Close()
	}
	if sqlDB, err := deps.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Module("main").Info("服务已退出")
}
