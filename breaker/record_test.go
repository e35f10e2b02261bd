package breaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	timeout := time.Second

	t.Run("counts failures while closed", func(t *testing.T) {
		record := newRecord()
		record = record.applyFailure(3, timeout, now)
		assert.Equal(t, StatusClosed, record.Status)
		assert.Equal(t, 1, record.FailureCount)
	})

	t.Run("opens at threshold", func(t *testing.T) {
		record := Record{Status: StatusClosed, FailureCount: 2}
		record = record.applyFailure(3, timeout, now)
		assert.Equal(t, StatusOpen, record.Status)
		assert.Equal(t, now.Add(timeout), record.NextAttemptAt)
		assert.Equal(t, 0, record.FailureCount)
	})

	t.Run("threshold of one opens immediately", func(t *testing.T) {
		record := newRecord().applyFailure(1, timeout, now)
		assert.Equal(t, StatusOpen, record.Status)
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		record := Record{Status: StatusHalfOpen, SuccessCount: 1}
		record = record.applyFailure(3, timeout, now)
		assert.Equal(t, StatusOpen, record.Status)
		assert.Equal(t, now.Add(timeout), record.NextAttemptAt)
		assert.Equal(t, 0, record.SuccessCount)
	})

	t.Run("open record ignores failures", func(t *testing.T) {
		record := Record{Status: StatusOpen, NextAttemptAt: now.Add(timeout)}
		next := record.applyFailure(3, timeout, now.Add(time.Hour))
		assert.True(t, next.equalState(record))
	})
}

func TestApplySuccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("resets failure count while closed", func(t *testing.T) {
		record := Record{Status: StatusClosed, FailureCount: 2}
		record = record.applySuccess(2, now)
		assert.Equal(t, StatusClosed, record.Status)
		assert.Equal(t, 0, record.FailureCount)
	})

	t.Run("counts successes while half-open", func(t *testing.T) {
		record := Record{Status: StatusHalfOpen}
		record = record.applySuccess(2, now)
		assert.Equal(t, StatusHalfOpen, record.Status)
		assert.Equal(t, 1, record.SuccessCount)
	})

	t.Run("closes at threshold", func(t *testing.T) {
		record := Record{Status: StatusHalfOpen, SuccessCount: 1}
		record = record.applySuccess(2, now)
		assert.Equal(t, StatusClosed, record.Status)
		assert.Equal(t, 0, record.SuccessCount)
		assert.True(t, record.NextAttemptAt.IsZero())
	})

	t.Run("open record ignores successes", func(t *testing.T) {
		record := Record{Status: StatusOpen, NextAttemptAt: now.Add(time.Second)}
		next := record.applySuccess(2, now)
		assert.True(t, next.equalState(record))
	})
}

func TestProbeDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := Record{Status: StatusOpen, NextAttemptAt: now.Add(time.Second)}

	assert.False(t, record.probeDue(now))
	assert.False(t, record.probeDue(now.Add(999*time.Millisecond)))
	assert.True(t, record.probeDue(now.Add(time.Second)))
	assert.True(t, record.probeDue(now.Add(2*time.Second)))

	closed := newRecord()
	assert.False(t, closed.probeDue(now))

	// 超时为 0 时打开即可探测
	immediate := newRecord().applyFailure(1, 0, now)
	assert.Equal(t, StatusOpen, immediate.Status)
	assert.True(t, immediate.probeDue(now))
}

// 完整走一遍状态机：3 次失败打开，1s 后探测，2 次成功闭合
func TestRecoveryCycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	timeout := time.Second
	record := newRecord()

	for i := 0; i < 3; i++ {
		record = record.applyFailure(3, timeout, now)
	}
	assert.Equal(t, StatusOpen, record.Status)
	assert.Equal(t, now.Add(timeout), record.NextAttemptAt)

	probeTime := now.Add(timeout)
	assert.True(t, record.probeDue(probeTime))

	record = record.enterHalfOpen()
	assert.Equal(t, StatusHalfOpen, record.Status)

	record = record.applySuccess(2, probeTime)
	assert.Equal(t, StatusHalfOpen, record.Status)
	assert.Equal(t, 1, record.SuccessCount)

	record = record.applySuccess(2, probeTime)
	assert.Equal(t, StatusClosed, record.Status)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "closed", StatusClosed.String())
	assert.Equal(t, "open", StatusOpen.String())
	assert.Equal(t, "half_open", StatusHalfOpen.String())
	assert.Equal(t, StatusOpen, parseStatus("open"))
	assert.Equal(t, StatusHalfOpen, parseStatus("half_open"))
	assert.Equal(t, StatusClosed, parseStatus("anything"))
}
