package breaker

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceyewan/fuse/xerrors"
)

// ========================================
// Gin 中间件 (Gin Middleware)
// ========================================

// GinKeyFunc 从 HTTP 请求中提取熔断器标识
type GinKeyFunc func(c *gin.Context) string

// RouteLevelKey 路由级别标识，按注册的路由模板熔断
// 返回示例: "/api/orders/:id"
func RouteLevelKey() GinKeyFunc {
	return func(c *gin.Context) string {
		if path := c.FullPath(); path != "" {
			return path
		}
		return c.Request.URL.Path
	}
}

// GinMiddleware 返回 Gin 熔断中间件
// 按 KeyFunc 提取的标识从工厂获取熔断器；熔断器打开时返回 503，
// 后续 handler 返回 5xx 或写入错误时计为一次失败。
// keyFn 为 nil 时使用 RouteLevelKey。
//
// 短路判定基于 handler 是否被执行，而非 Fire 的返回错误：
// 配置了降级函数时短路错误会被降级吞掉，但 HTTP 链路无法消费
// 降级值，此时依然必须阻断 handler 并返回 503。
//
// 使用示例:
//
//	factory, _ := breaker.NewFactory(cfg, breaker.WithRedisConnector(conn))
//	router.Use(factory.GinMiddleware(nil))
func (f *Factory) GinMiddleware(keyFn GinKeyFunc) gin.HandlerFunc {
	if keyFn == nil {
		keyFn = RouteLevelKey()
	}
	return func(c *gin.Context) {
		brk, err := f.Get(keyFn(c))
		if err != nil {
			c.Next()
			return
		}

		handlerRan := false
		_, _ = brk.Fire(c.Request.Context(), func(ctx context.Context) (any, error) {
			handlerRan = true
			c.Next()
			if len(c.Errors) > 0 {
				return nil, c.Errors.Last()
			}
			if status := c.Writer.Status(); status >= http.StatusInternalServerError {
				return nil, xerrors.Errorf("breaker: upstream returned status %d", status)
			}
			return nil, nil
		})

		if !handlerRan {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "service temporarily unavailable",
			})
		}
	}
}
