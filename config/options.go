package config

// Options 加载器配置
type Options struct {
	Name      string   // 配置文件名称（不含扩展名），默认 "config"
	Paths     []string // 配置文件搜索路径，默认 "." 和 "./config"
	FileType  string   // 配置文件类型（yaml、json 等），默认 "yaml"
	EnvPrefix string   // 环境变量前缀，默认 "FUSE"

	// Validator 可选的配置验证函数，Load 与热更新时调用
	Validator func(Loader) error
}

func defaultOptions() *Options {
	return &Options{
		Name:      "config",
		Paths:     []string{".", "./config"},
		FileType:  "yaml",
		EnvPrefix: "FUSE",
	}
}

// Option 配置选项函数
type Option func(*Options)

// WithConfigName 设置配置文件名称（不带扩展名）
func WithConfigName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithConfigPath 添加配置文件搜索路径
func WithConfigPath(path string) Option {
	return func(o *Options) {
		o.Paths = append(o.Paths, path)
	}
}

// WithConfigPaths 设置配置文件搜索路径（覆盖默认值）
func WithConfigPaths(paths ...string) Option {
	return func(o *Options) {
		o.Paths = paths
	}
}

// WithConfigType 设置配置文件类型（yaml、json 等）
func WithConfigType(typ string) Option {
	return func(o *Options) {
		o.FileType = typ
	}
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) {
		o.EnvPrefix = prefix
	}
}

// WithValidator 设置配置验证函数
func WithValidator(fn func(Loader) error) Option {
	return func(o *Options) {
		o.Validator = fn
	}
}
