package events

import "github.com/ceyewan/fuse/xerrors"

// 错误定义
var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("events: config is nil")

	// ErrEventNil 事件为空
	ErrEventNil = xerrors.New("events: event is nil")

	// ErrNotConnected 底层连接不可用
	ErrNotConnected = xerrors.New("events: not connected")
)
