package clog

import "fmt"

// Config 日志配置
type Config struct {
	// Level 日志级别: "debug" | "info" | "warn" | "error"（默认 "info"）
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format 输出格式: "console" | "json"（默认 "console"）
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output 输出目标: "stdout" | "stderr"（默认 "stdout"）
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// AddSource 是否输出调用位置（默认 false）
	AddSource bool `json:"add_source" yaml:"add_source" mapstructure:"add_source"`

	// Namespace 根命名空间，出现在所有日志的 namespace 字段中
	Namespace string `json:"namespace" yaml:"namespace" mapstructure:"namespace"`
}

// NewDevDefaultConfig 返回开发环境默认配置（console + debug）
func NewDevDefaultConfig(namespace string) *Config {
	return &Config{
		Level:     "debug",
		Format:    "console",
		Output:    "stdout",
		Namespace: namespace,
	}
}

// NewProdDefaultConfig 返回生产环境默认配置（json + info）
func NewProdDefaultConfig(namespace string) *Config {
	return &Config{
		Level:     "info",
		Format:    "json",
		Output:    "stdout",
		Namespace: namespace,
	}
}

func (c *Config) validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level: %s", c.Level)
	}
	switch c.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown format: %s", c.Format)
	}
	switch c.Output {
	case "", "stdout", "stderr":
	default:
		return fmt.Errorf("unknown output: %s", c.Output)
	}
	return nil
}
