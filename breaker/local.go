package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/events"
)

// ========================================
// 本地熔断器实现 (Local Breaker)
// ========================================

// localBreaker 基于 gobreaker 的进程内实现（非导出）
// 不经过共享存储，状态只在当前进程内生效，适合单机部署或对
// 跨实例协同没有要求的场景。对外语义与分布式驱动保持一致。
type localBreaker struct {
	cfg      *Config
	cb       *gobreaker.CircuitBreaker[any]
	logger   clog.Logger
	ins      *instruments
	fallback Fallback
}

// newLocalBreaker 创建进程内熔断器
func newLocalBreaker(cfg *Config, logger clog.Logger, opt *options) (Breaker, error) {
	bus := opt.bus
	if bus == nil {
		bus = events.Noop()
	}
	ins := newInstruments(opt.meter, cfg.ID, cfg.Driver)

	settings := gobreaker.Settings{
		Name:        cfg.ID,
		MaxRequests: uint32(cfg.SuccessThreshold),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.FailureThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStatus, toStatus := fromGobreaker(from), fromGobreaker(to)
			logger.Info("breaker state changed",
				clog.String("from", fromStatus.String()),
				clog.String("to", toStatus.String()))
			ins.incStateChange(context.Background(), fromStatus, toStatus)
			if err := bus.Publish(context.Background(), &events.Event{
				BreakerID: name,
				From:      fromStatus.String(),
				To:        toStatus.String(),
			}); err != nil {
				logger.Debug("transition event publish failed", clog.Error(err))
			}
		},
	}

	return &localBreaker{
		cfg:      cfg,
		cb:       gobreaker.NewCircuitBreaker[any](settings),
		logger:   logger,
		ins:      ins,
		fallback: opt.fallback,
	}, nil
}

func (b *localBreaker) Fire(ctx context.Context, fn Operation) (any, error) {
	if fn == nil {
		return nil, ErrOperationNil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.ins.incRequest(ctx)
	start := time.Now()

	result, err := b.cb.Execute(func() (any, error) {
		return fn(ctx)
	})

	switch {
	case err == nil:
		b.ins.incSuccess(ctx)
		b.ins.observeDuration(ctx, time.Since(start), false)
		return result, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		b.ins.incReject(ctx)
		if b.fallback != nil {
			return b.fallback(ctx, ErrOpenState)
		}
		return nil, ErrOpenState
	default:
		b.ins.incFailure(ctx)
		b.ins.observeDuration(ctx, time.Since(start), true)
		if b.fallback != nil {
			return b.fallback(ctx, err)
		}
		return result, err
	}
}

func (b *localBreaker) State(ctx context.Context) (Status, error) {
	return fromGobreaker(b.cb.State()), nil
}

// fromGobreaker 转换 gobreaker 状态
func fromGobreaker(state gobreaker.State) Status {
	switch state {
	case gobreaker.StateOpen:
		return StatusOpen
	case gobreaker.StateHalfOpen:
		return StatusHalfOpen
	default:
		return StatusClosed
	}
}
