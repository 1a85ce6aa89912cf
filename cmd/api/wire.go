//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewSnapshotRepository）
// - Injector: 声明最终要构造的目标类型（如*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

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
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接、快照仓储
var infrastructureSet = wire.NewSet(
	config.Load,                 // 加载配置文件
	mysql.NewDB,                 // 创建MySQL连接
	mysql.NewSnapshotRepository, // 快照仓储
	redis.NewClient,             // 创建Redis连接
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	inventory.NewService, // 库存领域服务
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	provideAutosaver,                    // 自动落盘组件（需要从config提取参数）
	provideSnapshotUseCase,              // 快照用例
	provideAlertNotifier,                // 告警通知（MQ未启用时为nil）
	appinventory.NewAddItemUseCase,      // 商品入库用例
	appinventory.NewEditItemUseCase,     // 商品编辑用例
	appinventory.NewRemoveItemUseCase,   // 商品删除用例
	appinventory.NewQueryItemsUseCase,   // 商品查询用例
	appinventory.NewManageAlertsUseCase, // 告警管理用例
	appinventory.NewDashboardUseCase,    // 仪表盘用例
	provideLoginUseCase,                 // 操作员登录用例
	appsession.NewLogoutUseCase,         // 操作员登出用例
)

// middlewareSet 中间件依赖
// 包含：JWT管理器、认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewItemHandler,      // 商品处理器
	handler.NewAlertHandler,     // 告警处理器
	handler.NewDashboardHandler, // 仪表盘处理器
	handler.NewSessionHandler,   // 会话处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取
// 这时需要编写自定义Provider函数

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideAutosaver 从配置创建自动落盘组件
func provideAutosaver(cfg *config.Config, service inventory.Service, repo inventory.SnapshotRepository) *appinventory.Autosaver {
	return appinventory.NewAutosaver(service, repo, cfg.Snapshot.Autosave, cfg.Snapshot.SaveTimeout)
}

// provideSnapshotUseCase 从配置创建快照用例
func provideSnapshotUseCase(cfg *config.Config, service inventory.Service, repo inventory.SnapshotRepository) *appinventory.SnapshotUseCase {
	return appinventory.NewSnapshotUseCase(service, repo, cfg.Snapshot.SaveTimeout)
}

// provideAlertNotifier 从配置创建告警通知器
// 教学要点：MQ未启用时返回nil接口,编辑用例会跳过事件发布
func provideAlertNotifier(cfg *config.Config) (inventory.AlertNotifier, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	notifier, err := infmq.NewAlertNotifier(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, err
	}
	return notifier, nil
}

// provideLoginUseCase 从配置创建登录用例
func provideLoginUseCase(cfg *config.Config, jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *appsession.LoginUseCase {
	return appsession.NewLoginUseCase(cfg.Admin, jwtManager, sessionStore)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	itemHandler *handler.ItemHandler,
	alertHandler *handler.AlertHandler,
	dashboardHandler *handler.DashboardHandler,
	sessionHandler *handler.SessionHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	// 设置运行模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}

	// 路由注册与main.go共用同一份registerRoutes
	// (健康检查、/metrics、Swagger、/api/v1全在里面)
	registerRoutes(r, itemHandler, alertHandler, dashboardHandler, sessionHandler, authMiddleware)

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎
// 错误：如果任何依赖创建失败
func InitializeApp() (*gin.Engine, error) {
	// wire.Build 的参数是所有的 Provider
	// Wire会在编译期分析依赖关系，生成初始化代码
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 领域层
		domainSet,

		// 应用层
		applicationSet,

		// 中间件层
		middlewareSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)

	// 返回值类型必须与wire.Build的最终产出一致
	// Wire会在wire_gen.go中生成实际的初始化代码
	return nil, nil
}
