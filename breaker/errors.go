package breaker

import "github.com/ceyewan/fuse/xerrors"

// ========================================
// 错误定义 (Error Definitions)
// ========================================

var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("breaker: config is nil")

	// ErrIDEmpty 熔断器标识为空
	ErrIDEmpty = xerrors.New("breaker: id is empty")

	// ErrInvalidConfig 配置非法（阈值、超时或策略越界）
	ErrInvalidConfig = xerrors.New("breaker: invalid config")

	// ErrUnsupportedDriver 不支持的驱动类型
	ErrUnsupportedDriver = xerrors.New("breaker: unsupported driver")

	// ErrConnectorNil 驱动所需的连接器未注入
	ErrConnectorNil = xerrors.New("breaker: required connector is nil")

	// ErrOpenState 熔断器处于打开状态，请求被短路
	ErrOpenState = xerrors.New("breaker: circuit is open")

	// ErrOperationNil 业务函数为空
	ErrOperationNil = xerrors.New("breaker: operation is nil")
)

// 共享存储层错误
var (
	// ErrRecordNotFound 状态记录不存在
	ErrRecordNotFound = xerrors.New("breaker: record not found")

	// ErrRecordExists 状态记录已存在（并发初始化时返回）
	ErrRecordExists = xerrors.New("breaker: record already exists")

	// ErrVersionConflict CAS 版本冲突（其他实例已更新该记录）
	ErrVersionConflict = xerrors.New("breaker: version conflict")

	// ErrStoreUnavailable 共享存储不可用
	ErrStoreUnavailable = xerrors.New("breaker: store unavailable")
)
