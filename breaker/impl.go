package breaker

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/events"
	"github.com/ceyewan/fuse/xerrors"
)

// ========================================
// 分布式熔断器实现 (Distributed Breaker)
// ========================================

// distBreaker 基于共享存储的熔断器实现（非导出）
//
// 协同协议：
//   - 状态转换由纯函数计算，通过版本化 CAS 写回共享存储
//   - 超时惰性求值：OPEN 超时后第一个到达的调用触发 OPEN→HALF_OPEN 转换
//   - 探测权抢占：转换 CAS 的胜者执行探测，败者视为仍处于打开状态
//   - 回写冲突有界重试：重读最新记录后在其上重新应用结果，重试耗尽则
//     放弃本次记账（集群中其他实例已经推进了状态）
type distBreaker struct {
	cfg      *Config
	store    Store
	logger   clog.Logger
	ins      *instruments
	fallback Fallback
	bus      events.Bus

	// outageLog 限制存储故障日志的输出频率，避免故障期间刷屏
	outageLog *rate.Limiter

	// now 可在测试中替换以控制时钟
	now func() time.Time
}

// newDistBreaker 创建基于共享存储的熔断器
func newDistBreaker(cfg *Config, store Store, logger clog.Logger, opt *options) (Breaker, error) {
	bus := opt.bus
	if bus == nil {
		bus = events.Noop()
	}
	return &distBreaker{
		cfg:       cfg,
		store:     store,
		logger:    logger,
		ins:       newInstruments(opt.meter, cfg.ID, cfg.Driver),
		fallback:  opt.fallback,
		bus:       bus,
		outageLog: rate.NewLimiter(rate.Every(5*time.Second), 1),
		now:       time.Now,
	}, nil
}

func (b *distBreaker) Fire(ctx context.Context, fn Operation) (any, error) {
	if fn == nil {
		return nil, ErrOperationNil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.ins.incRequest(ctx)

	record, err := b.loadOrCreate(ctx)
	if err != nil {
		return b.onStoreFailure(ctx, fn, err)
	}

	probing := false
	if record.Status == StatusOpen {
		if !record.probeDue(b.now()) {
			return b.reject(ctx)
		}

		// 到达探测时间，通过 CAS 抢占 OPEN→HALF_OPEN 转换和探测权
		next := record.enterHalfOpen()
		newVersion, casErr := b.store.CompareAndSwap(ctx, b.cfg.ID, record.Version, next)
		switch {
		case casErr == nil:
			b.emitTransition(ctx, StatusOpen, StatusHalfOpen)
			next.Version = newVersion
			record = next
			probing = true
		case xerrors.Is(casErr, ErrVersionConflict):
			// 探测权被其他实例抢走，本次调用按打开状态短路
			return b.reject(ctx)
		default:
			return b.onStoreFailure(ctx, fn, casErr)
		}
	}

	if probing {
		b.ins.incProbe(ctx)
	}

	start := b.now()
	result, opErr := fn(ctx)
	b.observe(ctx, b.now().Sub(start), opErr)

	// 调用方已取消时不做记账：取消不代表依赖故障，也不应在取消后再发起 CAS
	if ctx.Err() == nil {
		b.recordOutcome(ctx, record, opErr != nil)
	}

	if opErr != nil && b.fallback != nil {
		return b.fallback(ctx, opErr)
	}
	return result, opErr
}

func (b *distBreaker) State(ctx context.Context) (Status, error) {
	record, err := b.store.Get(ctx, b.cfg.ID)
	if xerrors.Is(err, ErrRecordNotFound) {
		return StatusClosed, nil
	}
	if err != nil {
		return StatusClosed, err
	}
	return record.Status, nil
}

// loadOrCreate 读取状态记录，不存在时惰性创建初始记录
func (b *distBreaker) loadOrCreate(ctx context.Context) (Record, error) {
	record, err := b.store.Get(ctx, b.cfg.ID)
	if err == nil {
		return record, nil
	}
	if !xerrors.Is(err, ErrRecordNotFound) {
		return Record{}, err
	}

	createErr := b.store.Create(ctx, b.cfg.ID, newRecord())
	if createErr != nil && !xerrors.Is(createErr, ErrRecordExists) {
		return Record{}, createErr
	}
	// 创建后重读，拿到存储分配的权威版本号
	return b.store.Get(ctx, b.cfg.ID)
}

// recordOutcome 将调用结果通过 CAS 回写共享状态
// 冲突时重读最新记录并在其上重新应用结果，最多重试 MaxUpdateRetries 次。
func (b *distBreaker) recordOutcome(ctx context.Context, record Record, failed bool) {
	if failed {
		b.ins.incFailure(ctx)
	} else {
		b.ins.incSuccess(ctx)
	}

	for attempt := 0; attempt <= b.cfg.MaxUpdateRetries; attempt++ {
		now := b.now()
		var next Record
		if failed {
			next = record.applyFailure(b.cfg.FailureThreshold, b.cfg.Timeout, now)
		} else {
			next = record.applySuccess(b.cfg.SuccessThreshold, now)
		}

		// 结果落在不记账的状态上（如迟到的慢请求结果落在 OPEN 记录上）
		if next.equalState(record) {
			return
		}

		_, err := b.store.CompareAndSwap(ctx, b.cfg.ID, record.Version, next)
		if err == nil {
			if next.Status != record.Status {
				b.emitTransition(ctx, record.Status, next.Status)
			}
			return
		}
		if !xerrors.Is(err, ErrVersionConflict) {
			b.ins.incStoreError(ctx)
			if b.outageLog.Allow() {
				b.logger.WarnContext(ctx, "outcome update abandoned, store failed", clog.Error(err))
			}
			return
		}

		// 版本冲突：其他实例先一步更新，重读后在最新记录上重放结果
		fresh, getErr := b.store.Get(ctx, b.cfg.ID)
		if getErr != nil {
			b.ins.incStoreError(ctx)
			return
		}
		record = fresh
	}

	b.logger.DebugContext(ctx, "outcome update abandoned after retries",
		clog.Int("max_retries", b.cfg.MaxUpdateRetries))
}

// reject 短路处理：有降级函数走降级，否则返回 ErrOpenState
func (b *distBreaker) reject(ctx context.Context) (any, error) {
	b.ins.incReject(ctx)
	if b.fallback != nil {
		return b.fallback(ctx, ErrOpenState)
	}
	return nil, ErrOpenState
}

// onStoreFailure 共享存储不可用时的策略处理
// fail_open：直接放行业务调用且不做记账；fail_closed：按短路处理。
func (b *distBreaker) onStoreFailure(ctx context.Context, fn Operation, cause error) (any, error) {
	b.ins.incStoreError(ctx)
	if b.outageLog.Allow() {
		b.logger.WarnContext(ctx, "shared store unavailable",
			clog.String("policy", string(b.cfg.StorePolicy)),
			clog.Error(cause))
	}

	if b.cfg.StorePolicy == PolicyFailClosed {
		b.ins.incReject(ctx)
		if b.fallback != nil {
			return b.fallback(ctx, cause)
		}
		return nil, cause
	}

	result, err := fn(ctx)
	if err != nil && b.fallback != nil {
		return b.fallback(ctx, err)
	}
	return result, err
}

// observe 记录调用耗时与结果指标
func (b *distBreaker) observe(ctx context.Context, elapsed time.Duration, opErr error) {
	b.ins.observeDuration(ctx, elapsed, opErr != nil)
}

// emitTransition 记录状态转换：日志、指标与事件（事件尽力而为）
func (b *distBreaker) emitTransition(ctx context.Context, from, to Status) {
	b.logger.InfoContext(ctx, "breaker state changed",
		clog.String("from", from.String()),
		clog.String("to", to.String()))
	b.ins.incStateChange(ctx, from, to)

	if err := b.bus.Publish(ctx, &events.Event{
		BreakerID: b.cfg.ID,
		From:      from.String(),
		To:        to.String(),
	}); err != nil {
		b.logger.DebugContext(ctx, "transition event publish failed", clog.Error(err))
	}
}
