package config

import "github.com/ceyewan/fuse/xerrors"

// 错误定义
var (
	// ErrKeyEmpty 配置 key 为空
	ErrKeyEmpty = xerrors.New("config: key is empty")

	// ErrValidationFailed 验证失败
	ErrValidationFailed = xerrors.New("config: validation failed")
)
