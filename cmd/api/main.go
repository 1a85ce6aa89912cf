package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appinventory "github.com/xiebiao/stockpile/internal/application/inventory"
	appsession "github.com/xiebiao/stockpile/internal/application/session"
	"github.com/xiebiao/stockpile/internal/domain/inventory"
	"github.com/xiebiao/stockpile/internal/infrastructure/config"
	infmq "github.com/xiebiao/stockpile/internal/infrastructure/mq"
	"github.com/xiebiao/stockpile/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/stockpile/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/stockpile/internal/interface/http/handler"
	"github.com/xiebiao/stockpile/internal/interface/http/middleware"
	"github.com/xiebiao/stockpile/pkg/jwt"
	"github.com/xiebiao/stockpile/pkg/metrics"
	"github.com/xiebiao/stockpile/pkg/response"
	"github.com/xiebiao/stockpile/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供Wire版本的组装,两者保持一致）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 自动落盘: %t\n", cfg.Snapshot.Autosave)

	// 2. 初始化Prometheus指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("stockpile-api", cfg.Tracing.CollectorURL)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("⚠️ 链路追踪关闭失败: %v", err)
			}
		}()
	}

	// 4. 初始化数据库连接（快照存储）
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接（会话存储）
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	snapshotRepo := mysql.NewSnapshotRepository(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 告警通知（可选,MQ未启用时编辑流程跳过发布）
	var notifier inventory.AlertNotifier
	if cfg.MQ.Enabled {
		mqNotifier, err := infmq.NewAlertNotifier(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
		if err != nil {
			log.Fatalf("初始化告警通知失败: %v", err)
		}
		defer mqNotifier.Close()
		notifier = mqNotifier
	}

	// 领域层
	inventoryService := inventory.NewService()

	// 启动恢复：从最近一次快照重建全量状态
	snapshotUseCase := appinventory.NewSnapshotUseCase(inventoryService, snapshotRepo, cfg.Snapshot.SaveTimeout)
	if cfg.Snapshot.RestoreOnStart {
		if err := snapshotUseCase.RestoreOnStart(context.Background()); err != nil {
			log.Fatalf("快照恢复失败: %v", err)
		}
	}

	// 应用层
	autosaver := appinventory.NewAutosaver(inventoryService, snapshotRepo, cfg.Snapshot.Autosave, cfg.Snapshot.SaveTimeout)
	addUseCase := appinventory.NewAddItemUseCase(inventoryService, autosaver)
	editUseCase := appinventory.NewEditItemUseCase(inventoryService, notifier, autosaver)
	removeUseCase := appinventory.NewRemoveItemUseCase(inventoryService, autosaver)
	queryUseCase := appinventory.NewQueryItemsUseCase(inventoryService)
	alertsUseCase := appinventory.NewManageAlertsUseCase(inventoryService, autosaver)
	dashboardUseCase := appinventory.NewDashboardUseCase(inventoryService)
	loginUseCase := appsession.NewLoginUseCase(cfg.Admin, jwtManager, sessionStore)
	logoutUseCase := appsession.NewLogoutUseCase(sessionStore)

	// 接口层
	itemHandler := handler.NewItemHandler(addUseCase, editUseCase, removeUseCase, queryUseCase)
	alertHandler := handler.NewAlertHandler(alertsUseCase)
	dashboardHandler := handler.NewDashboardHandler(dashboardUseCase, snapshotUseCase, autosaver)
	sessionHandler := handler.NewSessionHandler(loginUseCase, logoutUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}

	// 8. 注册路由
	registerRoutes(r, itemHandler, alertHandler, dashboardHandler, sessionHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   操作员登录: POST http://localhost%s/api/v1/session/login\n", addr)
	fmt.Printf("   商品入库: POST http://localhost%s/api/v1/items (需要登录)\n", addr)
	fmt.Printf("   前缀搜索: GET http://localhost%s/api/v1/items/search?prefix=笔\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	itemHandler *handler.ItemHandler,
	alertHandler *handler.AlertHandler,
	dashboardHandler *handler.DashboardHandler,
	sessionHandler *handler.SessionHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// HTTP指标采集
	r.Use(middleware.Metrics())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 会话模块
		session := v1.Group("/session")
		{
			session.POST("/login", sessionHandler.Login) // ✅ 登录
			session.POST("/logout", authMiddleware.RequireAuth(), sessionHandler.Logout)
		}

		// 商品模块
		items := v1.Group("/items")
		{
			// 查询接口（公开,不需要登录）
			items.GET("", itemHandler.ListItems)                     // ✅ 列表/过滤
			items.GET("/search", itemHandler.SearchItems)            // ✅ 名称前缀搜索
			items.GET("/:code", itemHandler.GetItem)                 // ✅ 详情
			items.GET("/:code/history", itemHandler.GetHistory)      // ✅ 编辑历史
			items.GET("/:code/alerts", alertHandler.TriggeredAlerts) // ✅ 即时告警求值

			// 变更接口（需要登录）
			items.POST("", authMiddleware.RequireAuth(), itemHandler.AddItem)            // ✅ 入库
			items.PATCH("/:code", authMiddleware.RequireAuth(), itemHandler.EditItem)    // ✅ 编辑
			items.DELETE("/:code", authMiddleware.RequireAuth(), itemHandler.RemoveItem) // ✅ 删除
		}

		// 告警模块
		alerts := v1.Group("/alerts")
		{
			alerts.GET("", alertHandler.ListRules)
			alerts.POST("", authMiddleware.RequireAuth(), alertHandler.RegisterRule)
			alerts.DELETE("/:id", authMiddleware.RequireAuth(), alertHandler.RemoveRule)
		}

		// 仪表盘与快照
		v1.GET("/stats", dashboardHandler.GetStats)
		v1.POST("/snapshot", authMiddleware.RequireAuth(), dashboardHandler.SaveSnapshot)
		v1.PUT("/snapshot/autosave", authMiddleware.RequireAuth(), dashboardHandler.SetAutosave)
	}
}
