package config

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/fuse/xerrors"
)

// loader Viper 实现（非导出）
type loader struct {
	v    *viper.Viper
	opts *Options

	mu        sync.RWMutex
	watches   map[string][]chan Event
	oldValues map[string]any
	loaded    bool
}

func newLoader(opts ...Option) (Loader, error) {
	options := defaultOptions()
	for _, o := range opts {
		o(options)
	}

	return &loader{
		v:         viper.New(),
		opts:      options,
		watches:   make(map[string][]chan Event),
		oldValues: make(map[string]any),
	}, nil
}

// Load 初始化并从所有来源加载配置
func (l *loader) Load(ctx context.Context) error {
	l.v.SetConfigName(l.opts.Name)
	l.v.SetConfigType(l.opts.FileType)
	for _, path := range l.opts.Paths {
		l.v.AddConfigPath(path)
	}

	// 环境变量优先级最高，先挂载
	l.v.SetEnvPrefix(l.opts.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	// .env 文件（存在时才加载，失败静默）
	l.loadDotEnv()

	if err := l.v.ReadInConfig(); err != nil {
		// 允许无配置文件运行（纯环境变量场景）
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return xerrors.Wrapf(err, "config: failed to read config file %q", l.opts.Name)
		}
	}

	if err := l.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	l.captureCurrentValuesLocked()
	l.loaded = true
	l.mu.Unlock()

	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.notifyWatches()
	})
	l.v.WatchConfig()

	return nil
}

func (l *loader) loadDotEnv() {
	_ = godotenv.Load()
	for _, path := range l.opts.Paths {
		_ = godotenv.Load(filepath.Join(path, ".env"))
	}
}

// Get 获取原始配置值
func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

// Unmarshal 将整个配置反序列化到结构体
func (l *loader) Unmarshal(v any) error {
	if err := l.v.Unmarshal(v); err != nil {
		return xerrors.Wrap(err, "config: unmarshal failed")
	}
	return nil
}

// UnmarshalKey 将指定 Key 的配置反序列化到结构体
func (l *loader) UnmarshalKey(key string, v any) error {
	if err := l.v.UnmarshalKey(key, v); err != nil {
		return xerrors.Wrapf(err, "config: unmarshal key %q failed", key)
	}
	return nil
}

// Watch 监听指定 Key 的配置变化
func (l *loader) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	ch := make(chan Event, 1)

	l.mu.Lock()
	l.watches[key] = append(l.watches[key], ch)
	l.oldValues[key] = l.v.Get(key)
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		defer l.mu.Unlock()
		chans := l.watches[key]
		for i, c := range chans {
			if c == ch {
				l.watches[key] = append(chans[:i], chans[i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}

// Validate 验证当前配置的有效性
func (l *loader) Validate() error {
	if l.opts.Validator == nil {
		return nil
	}
	if err := l.opts.Validator(l); err != nil {
		return xerrors.Wrap(err, "config: validation failed")
	}
	return nil
}

func (l *loader) captureCurrentValuesLocked() {
	for key := range l.watches {
		l.oldValues[key] = l.v.Get(key)
	}
}

func (l *loader) notifyWatches() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, chans := range l.watches {
		newVal := l.v.Get(key)
		oldVal := l.oldValues[key]
		if reflect.DeepEqual(newVal, oldVal) {
			continue
		}
		l.oldValues[key] = newVal

		event := Event{
			Key:       key,
			Value:     newVal,
			OldValue:  oldVal,
			Source:    "file",
			Timestamp: now,
		}
		for _, ch := range chans {
			select {
			case ch <- event:
			default:
				// 消费不及时则丢弃，监听方总能读到最新值
			}
		}
	}
}
