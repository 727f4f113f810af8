// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Search        SearchConfig        `yaml:"search" mapstructure:"search"`
	Pipeline      PipelineConfig      `yaml:"pipeline" mapstructure:"pipeline"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Telegram      TelegramConfig      `yaml:"telegram" mapstructure:"telegram"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// SearchConfig 搜索后端配置
type SearchConfig struct {
	SerpAPI    SerpAPIConfig    `yaml:"serpapi" mapstructure:"serpapi"`
	DuckDuckGo DuckDuckGoConfig `yaml:"duckduckgo" mapstructure:"duckduckgo"`
	// Cooldown 进程级冷却窗口，所有抓取式请求共享
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
}

// SerpAPIConfig SerpAPI 配置，APIKey 为空时回退到抓取式后端
type SerpAPIConfig struct {
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	APIURL  string        `yaml:"api_url" mapstructure:"api_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DuckDuckGoConfig 抓取式后端配置
type DuckDuckGoConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	HTMLURL     string        `yaml:"html_url" mapstructure:"html_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	SettleDelay time.Duration `yaml:"settle_delay" mapstructure:"settle_delay"`
}

// PipelineConfig 分析流水线配置
type PipelineConfig struct {
	// Mode 产品模式：web 走搜索后端，links 只评估文本自带的链接
	Mode            string        `yaml:"mode" mapstructure:"mode"`
	MaxQueries      int           `yaml:"max_queries" mapstructure:"max_queries"`
	LimitPerQuery   int           `yaml:"limit_per_query" mapstructure:"limit_per_query"`
	MaxTotal        int           `yaml:"max_total" mapstructure:"max_total"`
	InterQueryDelay time.Duration `yaml:"inter_query_delay" mapstructure:"inter_query_delay"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// ProviderConfig LLM 提供商配置
type ProviderConfig struct {
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// TelegramConfig Telegram 机器人配置
type TelegramConfig struct {
	BotToken      string        `yaml:"bot_token" mapstructure:"bot_token"`
	APIURL        string        `yaml:"api_url" mapstructure:"api_url"`
	WebhookSecret string        `yaml:"webhook_secret" mapstructure:"webhook_secret"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	CORS CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
