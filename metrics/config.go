package metrics

// Config 指标组件配置
type Config struct {
	// Enabled 是否启用指标收集，false 时返回 noop 实现
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// ServiceName 服务名，出现在所有指标的 resource 属性中
	ServiceName string `json:"service_name" yaml:"service_name" mapstructure:"service_name"`

	// Version 服务版本
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// Port Prometheus HTTP 服务器端口，0 表示不启动内置服务器
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// Path 指标暴露路径，默认 "/metrics"
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// NewDevDefaultConfig 返回开发环境默认配置（不启动 HTTP 服务器）
func NewDevDefaultConfig(serviceName string) *Config {
	return &Config{
		Enabled:     true,
		ServiceName: serviceName,
		Version:     "dev",
	}
}

func (c *Config) setDefaults() {
	if c.Path == "" {
		c.Path = "/metrics"
	}
}
