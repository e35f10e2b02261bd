package breaker

import (
	"fmt"
	"sync"

	"github.com/maypok86/otter/v2"

	"github.com/ceyewan/fuse/xerrors"
)

// ========================================
// 熔断器工厂 (Factory)
// ========================================

// Factory 熔断器工厂，按标识缓存并复用熔断器实例
// 适合为大量下游（每个服务、每个方法）按需创建熔断器的场景，
// 如 gRPC 拦截器和 Gin 中间件。所有方法并发安全。
type Factory struct {
	template Config
	opts     []Option

	// cache 以标识 + 关键参数为键缓存实例：同一标识换了阈值或驱动
	// 会得到新实例，调用方的当前配置总是生效
	cache *otter.Cache[string, Breaker]

	// memory 内存驱动的共享存储，保证同一工厂创建的同标识熔断器共享状态
	memory     Store
	memoryOnce sync.Once

	mu sync.Mutex
}

// NewFactory 创建熔断器工厂
//
// 参数：
//   - cfg: 配置模板，ID 留空，Get 时以具体标识填充；不可为 nil
//   - opts: 传递给每个熔断器实例的可选配置（连接器、日志、降级等）
func NewFactory(cfg *Config, opts ...Option) (*Factory, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	template := *cfg
	template.setDefaults()

	// 用占位标识跑一遍校验，阈值或驱动非法时在这里快速失败
	probe := template
	probe.ID = "factory"
	if err := probe.validate(); err != nil {
		return nil, err
	}

	cache, err := otter.New(&otter.Options[string, Breaker]{
		MaximumSize: 4096,
	})
	if err != nil {
		return nil, xerrors.Wrap(err, "breaker: build factory cache failed")
	}

	return &Factory{
		template: template,
		opts:     opts,
		cache:    cache,
	}, nil
}

// Get 按标识获取熔断器，不存在时以模板配置创建
func (f *Factory) Get(id string) (Breaker, error) {
	cfg := f.template
	cfg.ID = id
	return f.Create(&cfg)
}

// Create 按完整配置获取或创建熔断器
// 非法配置在此处快速失败。缓存键包含关键参数，同一标识配置变化后会创建新实例。
func (f *Factory) Create(cfg *Config) (Breaker, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	resolved := *cfg
	resolved.setDefaults()
	if err := resolved.validate(); err != nil {
		return nil, err
	}

	key := cacheKey(&resolved)
	if brk, ok := f.cache.GetIfPresent(key); ok {
		return brk, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if brk, ok := f.cache.GetIfPresent(key); ok {
		return brk, nil
	}

	opts := f.opts
	if resolved.Driver == DriverMemory {
		f.memoryOnce.Do(func() {
			f.memory = NewMemoryStore()
		})
		opts = append(append([]Option{}, f.opts...), WithStore(f.memory))
	}

	brk, err := New(&resolved, opts...)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, brk)
	return brk, nil
}

// cacheKey 组合标识与所有影响行为的参数作为缓存键
func cacheKey(cfg *Config) string {
	return fmt.Sprintf("%s|%s|%d|%d|%s|%s|%d|%s",
		cfg.ID, cfg.Driver, cfg.FailureThreshold, cfg.SuccessThreshold,
		cfg.Timeout, cfg.Prefix, cfg.MaxUpdateRetries, cfg.StorePolicy)
}
