package breaker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func newInterceptorFactory(t *testing.T, opts ...Option) *Factory {
	factory, err := NewFactory(&Config{
		Driver:           DriverMemory,
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
	}, opts...)
	require.NoError(t, err)
	return factory
}

func TestUnaryInterceptorPassesHealthyCalls(t *testing.T) {
	factory := newInterceptorFactory(t)
	interceptor := factory.UnaryClientInterceptor(MethodLevelKey())

	calls := 0
	healthy := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		calls++
		return nil
	}

	err := interceptor(context.Background(), "/pkg.Service/Get", nil, nil, nil, healthy)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

// 降级函数不能把 RPC 结果伪装成成功：失败调用返回原始错误，
// 短路调用返回 ErrOpenState 且 invoker 不被执行。
func TestUnaryInterceptorFallbackNeverFakesSuccess(t *testing.T) {
	factory := newInterceptorFactory(t,
		WithFallback(func(ctx context.Context, cause error) (any, error) {
			return "cached", nil
		}))
	interceptor := factory.UnaryClientInterceptor(MethodLevelKey())
	ctx := context.Background()

	failing := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return errBoom
	}

	// 一次失败即触发熔断，降级吞掉错误也必须透传真实 RPC 结果
	err := interceptor(ctx, "/pkg.Service/Get", nil, nil, nil, failing)
	assert.ErrorIs(t, err, errBoom)

	// 打开后 invoker 不被执行，reply 无法填充，必须以 ErrOpenState 收场
	calls := 0
	healthy := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		calls++
		return nil
	}
	err = interceptor(ctx, "/pkg.Service/Get", nil, nil, nil, healthy)
	assert.ErrorIs(t, err, ErrOpenState)
	assert.Zero(t, calls)
}

func TestUnaryInterceptorOpenWithoutFallback(t *testing.T) {
	factory := newInterceptorFactory(t)
	interceptor := factory.UnaryClientInterceptor(MethodLevelKey())
	ctx := context.Background()

	failing := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return errBoom
	}
	err := interceptor(ctx, "/pkg.Service/Get", nil, nil, nil, failing)
	assert.ErrorIs(t, err, errBoom)

	calls := 0
	healthy := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		calls++
		return nil
	}
	err = interceptor(ctx, "/pkg.Service/Get", nil, nil, nil, healthy)
	assert.ErrorIs(t, err, ErrOpenState)
	assert.Zero(t, calls)
}

func TestStreamInterceptorFallbackNeverFakesStream(t *testing.T) {
	factory := newInterceptorFactory(t,
		WithFallback(func(ctx context.Context, cause error) (any, error) {
			return "cached", nil
		}))
	interceptor := factory.StreamClientInterceptor(MethodLevelKey())
	ctx := context.Background()

	failing := func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		return nil, errBoom
	}
	_, err := interceptor(ctx, &grpc.StreamDesc{}, nil, "/pkg.Service/Watch", failing)
	assert.ErrorIs(t, err, errBoom)

	// 打开后 streamer 不被执行，降级值不会被当作流返回
	calls := 0
	healthy := func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		calls++
		return nil, nil
	}
	stream, err := interceptor(ctx, &grpc.StreamDesc{}, nil, "/pkg.Service/Watch", healthy)
	assert.ErrorIs(t, err, ErrOpenState)
	assert.Nil(t, stream)
	assert.Zero(t, calls)
}
