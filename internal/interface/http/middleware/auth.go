package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/stockpile/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/stockpile/pkg/jwt"
	"github.com/xiebiao/stockpile/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性
// 3. 检查Token黑名单
// 4. 将操作员信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.POST("/items", handler.AddItem)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, 40100, "请先登录")
			c.Abort()
			return
		}

		// 2. 解析Token格式
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, 40101, "Token格式错误")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. 检查Token是否在黑名单中（操作员已登出或Token被强制失效）
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.ErrorWithCode(c, 50000, "验证Token失败")
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, 40102, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		// 4. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// 5. 将操作员信息注入到Context（后续Handler可以使用）
		// 学习要点：使用Context传递请求级别的数据
		c.Set("operator", claims.Operator)
		c.Set("access_token", tokenString)

		// 6. 继续处理请求
		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetOperator 从Context获取当前登录操作员
// 使用示例：
//
//	operator := middleware.GetOperator(c)
//	if operator == "" {
//	    // 未登录
//	}
func GetOperator(c *gin.Context) string {
	if operator, exists := c.Get("operator"); exists {
		if op, ok := operator.(string); ok {
			return op
		}
	}
	return ""
}

// GetAccessToken 从Context获取当前请求携带的Token(登出时需要拉黑它)
func GetAccessToken(c *gin.Context) string {
	if token, exists := c.Get("access_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// MustGetOperator 从Context获取操作员（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetOperator(c *gin.Context) string {
	operator := GetOperator(c)
	if operator == "" {
		panic("operator not found in context")
	}
	return operator
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 中间件执行顺序
//    r.Use(Logger())        // 1. 日志中间件
//    r.Use(Recovery())      // 2. Recovery中间件
//    r.Use(Auth())          // 3. 认证中间件
//    r.GET("/api", handler) // 4. 业务Handler
//
// 2. c.Abort() vs c.Next()
//    - c.Abort(): 终止后续Handler执行（用于鉴权失败）
//    - c.Next(): 继续执行后续Handler
//
// 3. Context传递数据
//    - c.Set("key", value): 写入数据
//    - c.Get("key"): 读取数据
//    - 数据仅在当前请求的生命周期内有效
//
// 4. 安全建议
//    - 始终检查Token黑名单（防止已登出Token继续使用）
//    - Token泄露后可以通过黑名单强制失效
