package breaker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGinRouter(t *testing.T, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	factory, err := NewFactory(&Config{
		Driver:           DriverMemory,
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(factory.GinMiddleware(nil))
	router.GET("/api/orders/:id", handler)
	return router
}

func TestGinMiddlewareTripsOnServerErrors(t *testing.T) {
	router := newGinRouter(t, func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	}

	// 熔断后直接返回 503，handler 不再执行
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/2", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "service temporarily unavailable")
}

func TestGinMiddlewarePassesHealthyTraffic(t *testing.T) {
	router := newGinRouter(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

// 配置降级函数后短路错误会被降级吞掉，但中间件依然必须阻断 handler 并返回 503
func TestGinMiddlewareFallbackStillBlocksWhenOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	factory, err := NewFactory(&Config{
		Driver:           DriverMemory,
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
	}, WithFallback(func(ctx context.Context, cause error) (any, error) {
		return "cached", nil
	}))
	require.NoError(t, err)

	handlerCalls := 0
	router := gin.New()
	router.Use(factory.GinMiddleware(nil))
	router.GET("/api/orders/:id", func(c *gin.Context) {
		handlerCalls++
		c.Status(http.StatusBadGateway)
	})

	// 一次 502 即触发熔断
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	require.Equal(t, 1, handlerCalls)

	// 打开后 handler 不再执行，即使降级函数把短路错误吞成了成功
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 1, handlerCalls)
}

func TestGinMiddlewareClientErrorsDoNotTrip(t *testing.T) {
	router := newGinRouter(t, func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}
