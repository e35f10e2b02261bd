package breaker

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
)

// KeyFunc 从 gRPC 调用上下文中提取熔断器标识
type KeyFunc func(ctx context.Context, fullMethod string, cc *grpc.ClientConn) string

// ========================================
// 内置 KeyFunc 实现
// ========================================

// ServiceLevelKey 服务级别标识
// 使用连接目标作为熔断维度，整个下游服务共享一个熔断器。
// 返回示例: "etcd:///logic-service"
func ServiceLevelKey() KeyFunc {
	return func(ctx context.Context, fullMethod string, cc *grpc.ClientConn) string {
		return cc.Target()
	}
}

// MethodLevelKey 方法级别标识
// 按方法熔断，单个方法故障不影响同服务的其他方法。
// 返回示例: "/pkg.Service/Method"
func MethodLevelKey() KeyFunc {
	return func(ctx context.Context, fullMethod string, cc *grpc.ClientConn) string {
		return fullMethod
	}
}

// BackendLevelKey 后端实例级别标识
// 尝试从 Peer 信息中提取真实后端地址，按实例熔断。
// 注意: 连接建立前取不到 Peer 信息，首次调用会回退到连接目标。
func BackendLevelKey() KeyFunc {
	return func(ctx context.Context, fullMethod string, cc *grpc.ClientConn) string {
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			if addr := p.Addr.String(); addr != "" {
				return addr
			}
		}
		return cc.Target()
	}
}

// CompositeKey 组合多个 KeyFunc，使用 @ 分隔
// 返回示例: "etcd:///logic-service@/pkg.Service/Method"
func CompositeKey(primary KeyFunc, secondary ...KeyFunc) KeyFunc {
	return func(ctx context.Context, fullMethod string, cc *grpc.ClientConn) string {
		result := primary(ctx, fullMethod, cc)
		for _, kf := range secondary {
			result += "@" + kf(ctx, fullMethod, cc)
		}
		return result
	}
}
