package breaker

import (
	"context"
	"time"

	"github.com/ceyewan/fuse/metrics"
)

// ========================================
// 指标埋点 (Instrumentation)
// ========================================

// 指标名称
const (
	metricRequests     = "breaker_requests_total"
	metricSuccess      = "breaker_success_total"
	metricFailures     = "breaker_failures_total"
	metricRejects      = "breaker_rejects_total"
	metricStateChanges = "breaker_state_changes_total"
	metricProbes       = "breaker_probes_total"
	metricStoreErrors  = "breaker_store_errors_total"
	metricDuration     = "breaker_request_duration_seconds"
)

// instruments 熔断器的指标集合（非导出）
// Meter 未注入时所有字段为 nil，埋点方法对 nil 安全。
type instruments struct {
	id       string
	driver   string
	requests metrics.Counter
	success  metrics.Counter
	failures metrics.Counter
	rejects  metrics.Counter
	changes  metrics.Counter
	probes   metrics.Counter
	storeErr metrics.Counter
	duration metrics.Histogram
}

// newInstruments 创建指标集合，meter 为 nil 时返回全空集合
func newInstruments(meter metrics.Meter, id string, driver DriverType) *instruments {
	ins := &instruments{id: id, driver: string(driver)}
	if meter == nil {
		return ins
	}

	// 指标创建失败只会让对应埋点失效，不影响熔断器工作
	ins.requests, _ = meter.Counter(metricRequests, "Total calls entering the breaker")
	ins.success, _ = meter.Counter(metricSuccess, "Total successful protected calls")
	ins.failures, _ = meter.Counter(metricFailures, "Total failed protected calls")
	ins.rejects, _ = meter.Counter(metricRejects, "Total calls short-circuited while open")
	ins.changes, _ = meter.Counter(metricStateChanges, "Total breaker state transitions")
	ins.probes, _ = meter.Counter(metricProbes, "Total half-open probe attempts")
	ins.storeErr, _ = meter.Counter(metricStoreErrors, "Total shared store failures")
	ins.duration, _ = meter.Histogram(metricDuration, "Protected call duration", metrics.WithUnit("s"))
	return ins
}

func (ins *instruments) base() []metrics.Label {
	return []metrics.Label{
		metrics.L("breaker_id", ins.id),
		metrics.L("driver", ins.driver),
	}
}

func (ins *instruments) incRequest(ctx context.Context) {
	if ins.requests != nil {
		ins.requests.Inc(ctx, ins.base()...)
	}
}

func (ins *instruments) incSuccess(ctx context.Context) {
	if ins.success != nil {
		ins.success.Inc(ctx, ins.base()...)
	}
}

func (ins *instruments) incFailure(ctx context.Context) {
	if ins.failures != nil {
		ins.failures.Inc(ctx, ins.base()...)
	}
}

func (ins *instruments) incReject(ctx context.Context) {
	if ins.rejects != nil {
		ins.rejects.Inc(ctx, ins.base()...)
	}
}

func (ins *instruments) incProbe(ctx context.Context) {
	if ins.probes != nil {
		ins.probes.Inc(ctx, ins.base()...)
	}
}

func (ins *instruments) incStoreError(ctx context.Context) {
	if ins.storeErr != nil {
		ins.storeErr.Inc(ctx, ins.base()...)
	}
}

func (ins *instruments) incStateChange(ctx context.Context, from, to Status) {
	if ins.changes != nil {
		labels := append(ins.base(),
			metrics.L("from_state", from.String()),
			metrics.L("to_state", to.String()))
		ins.changes.Inc(ctx, labels...)
	}
}

func (ins *instruments) observeDuration(ctx context.Context, elapsed time.Duration, failed bool) {
	if ins.duration != nil {
		result := "success"
		if failed {
			result = "failure"
		}
		labels := append(ins.base(), metrics.L("result", result))
		ins.duration.Record(ctx, elapsed.Seconds(), labels...)
	}
}
