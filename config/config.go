// Package config 为 Fuse 提供统一的配置管理能力。
// 支持多源配置加载、热更新和配置验证，基于 Viper 实现。
//
// 特性：
//   - 多源配置加载：YAML/JSON 文件、环境变量、.env 文件
//   - 配置优先级：环境变量 > .env > 配置文件
//   - 热更新支持：监听配置文件变化，通过 channel 通知应用
//
// 基本使用：
//
//	loader := config.MustLoad(
//		config.WithConfigName("config"),
//		config.WithConfigPaths("./config"),
//		config.WithEnvPrefix("FUSE"),
//	)
//
//	var cfg AppConfig
//	if err := loader.Unmarshal(&cfg); err != nil {
//		panic(err)
//	}
//
//	ch, _ := loader.Watch(ctx, "breaker.failure_threshold")
//	for event := range ch {
//		fmt.Printf("配置变化: %s = %v\n", event.Key, event.Value)
//	}
package config

import (
	"context"
	"time"
)

// Loader 定义配置加载器的核心行为
type Loader interface {
	// Load 加载配置并初始化内部状态
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 监听指定 Key 的配置变化，通过 context 取消监听
	Watch(ctx context.Context, key string) (<-chan Event, error)

	// Validate 验证当前配置的有效性
	Validate() error
}

// Event 配置变更事件
type Event struct {
	Key       string // 配置 key
	Value     any    // 新值
	OldValue  any    // 旧值
	Source    string // "file" | "env"
	Timestamp time.Time
}

// New 创建配置加载器（不执行加载）
func New(opts ...Option) (Loader, error) {
	return newLoader(opts...)
}

// MustLoad 创建并加载配置，出错时 panic。仅用于初始化阶段。
func MustLoad(opts ...Option) Loader {
	l, err := newLoader(opts...)
	if err != nil {
		panic(err)
	}
	if err := l.Load(context.Background()); err != nil {
		panic(err)
	}
	return l
}
