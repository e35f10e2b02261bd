package breaker

import "context"

// ========================================
// 共享存储接口 (Store)
// ========================================

// Store 熔断器状态的共享存储接口
// 所有实现必须保证 CompareAndSwap 的原子性：版本比较和写入在存储侧
// 一步完成，这是整个无锁协同协议的基石。
//
// 版本语义：
//   - Create 写入的记录版本为该存储的初始版本（Redis/内存/GORM 为 1，
//     Etcd 为当次写入的 ModRevision）
//   - CompareAndSwap 成功时返回新版本号，调用方必须用它更新本地记录
//   - 实现可自行决定版本号的推进方式，调用方不得假设版本连续递增
type Store interface {
	// Get 读取状态记录
	// 记录不存在时返回 ErrRecordNotFound，存储故障时返回 ErrStoreUnavailable。
	Get(ctx context.Context, id string) (Record, error)

	// Create 原子创建初始记录
	// 记录已存在时返回 ErrRecordExists（并发初始化由调用方重读解决）。
	Create(ctx context.Context, id string, record Record) error

	// CompareAndSwap 原子比较版本并写入新记录
	// 当前版本与 expectedVersion 不一致时返回 ErrVersionConflict，
	// 记录不存在时返回 ErrRecordNotFound，成功时返回新版本号。
	CompareAndSwap(ctx context.Context, id string, expectedVersion int64, next Record) (int64, error)
}
