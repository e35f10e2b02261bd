package breaker

import (
	"context"

	"google.golang.org/grpc"
)

// ========================================
// gRPC 客户端拦截器 (gRPC Interceptor)
// ========================================

// UnaryClientInterceptor 返回 gRPC 一元调用客户端拦截器
// 按 KeyFunc 提取的标识从工厂获取熔断器，为每个调用提供熔断保护。
// keyFn 为 nil 时使用 ServiceLevelKey。
//
// 拦截器始终透传 invoker 的真实结果：降级值无法写入 reply，
// 因此即使配置了降级函数，短路调用也返回 ErrOpenState、
// 失败调用也返回原始 RPC 错误，绝不伪装成功。
//
// 使用示例:
//
//	factory, _ := breaker.NewFactory(cfg, breaker.WithRedisConnector(conn))
//	cc, _ := grpc.NewClient("localhost:9001",
//		grpc.WithUnaryInterceptor(factory.UnaryClientInterceptor(breaker.MethodLevelKey())),
//	)
func (f *Factory) UnaryClientInterceptor(keyFn KeyFunc) grpc.UnaryClientInterceptor {
	if keyFn == nil {
		keyFn = ServiceLevelKey()
	}
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		brk, err := f.Get(keyFn(ctx, method, cc))
		if err != nil {
			// 熔断器创建失败不应阻断业务调用
			return invoker(ctx, method, req, reply, cc, opts...)
		}

		invoked := false
		var rpcErr error
		_, fireErr := brk.Fire(ctx, func(ctx context.Context) (any, error) {
			invoked = true
			rpcErr = invoker(ctx, method, req, reply, cc, opts...)
			return nil, rpcErr
		})
		if !invoked {
			// 短路或存储故障拒绝，reply 未被填充，必须以错误收场
			if fireErr != nil {
				return fireErr
			}
			return ErrOpenState
		}
		return rpcErr
	}
}

// StreamClientInterceptor 返回 gRPC 流式调用客户端拦截器
// 熔断保护覆盖流的建立阶段，流建立后的收发不再计入熔断统计。
// 与一元拦截器相同，降级值不会伪装成流：短路时返回 ErrOpenState。
func (f *Factory) StreamClientInterceptor(keyFn KeyFunc) grpc.StreamClientInterceptor {
	if keyFn == nil {
		keyFn = ServiceLevelKey()
	}
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		brk, err := f.Get(keyFn(ctx, method, cc))
		if err != nil {
			return streamer(ctx, desc, cc, method, opts...)
		}

		invoked := false
		var stream grpc.ClientStream
		var streamErr error
		_, fireErr := brk.Fire(ctx, func(ctx context.Context) (any, error) {
			invoked = true
			stream, streamErr = streamer(ctx, desc, cc, method, opts...)
			return stream, streamErr
		})
		if !invoked {
			if fireErr != nil {
				return nil, fireErr
			}
			return nil, ErrOpenState
		}
		return stream, streamErr
	}
}
