package breaker

import "time"

// ========================================
// 状态记录 (Record)
// ========================================

// Record 熔断器的共享状态记录
// 所有实例通过版本化 CAS 并发更新同一条记录，状态机转换由纯函数完成，
// 存储层只负责读写和版本比较。
type Record struct {
	// Status 当前状态
	Status Status

	// FailureCount 连续失败次数（CLOSED 状态下计数）
	FailureCount int

	// SuccessCount 连续成功次数（HALF_OPEN 状态下计数）
	SuccessCount int

	// NextAttemptAt 打开状态下允许下一次探测的时间，仅 OPEN 状态有效
	NextAttemptAt time.Time

	// Version 乐观并发控制版本号，由存储层维护
	Version int64
}

// newRecord 返回初始闭合状态记录
func newRecord() Record {
	return Record{Status: StatusClosed}
}

// probeDue 判断 OPEN 状态下是否到达探测时间
func (r Record) probeDue(now time.Time) bool {
	return r.Status == StatusOpen && !now.Before(r.NextAttemptAt)
}

// enterHalfOpen 返回进入半开状态的下一条记录
func (r Record) enterHalfOpen() Record {
	return Record{
		Status:  StatusHalfOpen,
		Version: r.Version,
	}
}

// applySuccess 将一次成功结果应用到记录，返回下一条记录
//
// 状态机规则：
//   - CLOSED：清零失败计数
//   - HALF_OPEN：成功计数 +1，达到 successThreshold 后闭合
//   - OPEN：不记账（该结果来自探测窗口打开之前的慢请求）
func (r Record) applySuccess(successThreshold int, now time.Time) Record {
	switch r.Status {
	case StatusClosed:
		next := r
		next.FailureCount = 0
		return next
	case StatusHalfOpen:
		next := r
		next.SuccessCount++
		if next.SuccessCount >= successThreshold {
			next = Record{Status: StatusClosed, Version: r.Version}
		}
		return next
	default:
		return r
	}
}

// applyFailure 将一次失败结果应用到记录，返回下一条记录
//
// 状态机规则：
//   - CLOSED：失败计数 +1，达到 failureThreshold 后打开并设置探测时间
//   - HALF_OPEN：探测失败，立即重新打开并重置探测时间
//   - OPEN：不记账
func (r Record) applyFailure(failureThreshold int, timeout time.Duration, now time.Time) Record {
	switch r.Status {
	case StatusClosed:
		next := r
		next.FailureCount++
		if next.FailureCount >= failureThreshold {
			next = Record{
				Status:        StatusOpen,
				NextAttemptAt: now.Add(timeout),
				Version:       r.Version,
			}
		}
		return next
	case StatusHalfOpen:
		return Record{
			Status:        StatusOpen,
			NextAttemptAt: now.Add(timeout),
			Version:       r.Version,
		}
	default:
		return r
	}
}

// equalState 判断两条记录除版本号外是否一致，用于跳过无意义的回写
func (r Record) equalState(other Record) bool {
	return r.Status == other.Status &&
		r.FailureCount == other.FailureCount &&
		r.SuccessCount == other.SuccessCount &&
		r.NextAttemptAt.Equal(other.NextAttemptAt)
}
