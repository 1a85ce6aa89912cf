package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/stockpile/pkg/tracing"
)

// Tracing HTTP链路追踪中间件
// 每个请求开一个根Span,下游用例通过c.Request.Context()自动挂为子Span
// Span名用路由模板,与指标的path标签同一口径
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		spanName := c.Request.Method + " " + c.FullPath()
		ctx, span := tracing.StartSpan(c.Request.Context(), "stockpile-api", spanName)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.status_code", strconv.Itoa(status)),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
