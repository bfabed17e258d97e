// Package config 运行配置.
//
// 配置文件查找顺序:
//  1. $PIPECACU_CONFIG
//  2. ./pipecacu.yaml
//  3. ~/.config/pipecacu/config.yaml
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"pipecacu/catalog"
	"pipecacu/fluid"
	"pipecacu/graph"
	"pipecacu/lahi"
)

// EnvConfig 配置文件路径环境变量
const EnvConfig = "PIPECACU_CONFIG"

// 管件库存储类型
const (
	CatalogMemory = "memory"
	CatalogFile   = "file"
	CatalogSQLite = "sqlite"
)

// CatalogConfig 管件库位置
type CatalogConfig struct {
	Driver string `yaml:"driver"` // memory, file, sqlite
	Path   string `yaml:"path"`   // file 为目录, sqlite 为数据库文件
}

// Config 运行配置
type Config struct {
	LogLevel      string                 `yaml:"log_level"`
	Dangling      string                 `yaml:"dangling"` // reject 或 skip
	Solver        lahi.Config            `yaml:"solver"`
	Fluids        map[string]fluid.Entry `yaml:"fluids"`
	DefaultFluid  string                 `yaml:"default_fluid"`
	FallbackFluid string                 `yaml:"fallback_fluid"`
	Catalog       CatalogConfig          `yaml:"catalog"`
	Metrics       string                 `yaml:"metrics"` // 指标文本文件, 空为不输出
}

// FindConfigPath 查找配置文件, 未找到返回空
func FindConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	candidates := []string{"pipecacu.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "pipecacu", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load 查找并加载配置, 未找到时返回默认配置
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath 从指定路径加载配置
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("读取配置: %w", err)
	}
	cfg, err := Parse(data)
	return cfg, path, err
}

// Parse 解析配置内容, 缺省项取默认值.
// 迭代参数以默认值为底解码, 显式写出的 0 保留为 0.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Fluids = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save 写出配置
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建配置目录: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("序列化配置: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	cfg := &Config{Solver: lahi.DefaultConfig()}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults 填充缺省的字符串和油品表
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Dangling == "" {
		c.Dangling = graph.Reject.String()
	}
	if len(c.Fluids) == 0 {
		c.Fluids = fluid.DefaultEntries()
	}
	if c.DefaultFluid == "" {
		c.DefaultFluid = fluid.DefaultName
	}
	if c.FallbackFluid == "" {
		c.FallbackFluid = fluid.FallbackName
	}
	if c.Catalog.Driver == "" {
		c.Catalog.Driver = CatalogMemory
	}
}

// Validate 检查配置
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("日志级别无效: %w", err)
	}
	if _, err := graph.ParseDanglingPolicy(c.Dangling); err != nil {
		return err
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("迭代参数: %w", err)
	}
	switch c.Catalog.Driver {
	case CatalogMemory:
	case CatalogFile, CatalogSQLite:
		if c.Catalog.Path == "" {
			return fmt.Errorf("管件库 %s 需要指定 path", c.Catalog.Driver)
		}
	default:
		return fmt.Errorf("未知管件库类型: %q", c.Catalog.Driver)
	}
	return nil
}

// Logger 按配置创建日志
func (c *Config) Logger() *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "pipecacu",
	})
}

// GraphOptions 拓扑构建选项
func (c *Config) GraphOptions(logger *log.Logger) graph.Options {
	policy, _ := graph.ParseDanglingPolicy(c.Dangling)
	return graph.Options{Dangling: policy, Logger: logger}
}

// FluidTable 按配置创建油品表
func (c *Config) FluidTable() (*fluid.Table, error) {
	return fluid.NewTable(c.Fluids, c.DefaultFluid, c.FallbackFluid)
}

// OpenCatalog 打开管件库, 返回的 close 在使用结束后调用
func (c *Config) OpenCatalog(ctx context.Context) (catalog.Store, func() error, error) {
	nop := func() error { return nil }
	switch c.Catalog.Driver {
	case CatalogFile:
		store, err := catalog.OpenFile(c.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nop, nil
	case CatalogSQLite:
		store, err := catalog.OpenSQLite(ctx, c.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return catalog.NewMemory(), nop, nil
}
