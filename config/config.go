// Package config loads runtime configuration for the BAL toolchain.
// Values come from defaults, then an optional YAML file, then
// environment variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/baleybots/go-bal/visual"
)

type Config struct {
	Web   WebConfig   `yaml:"web"`
	Store StoreConfig `yaml:"store"`
	Cache CacheConfig `yaml:"cache"`
	Tools ToolsConfig `yaml:"tools"`
}

type WebConfig struct {
	Port int    `yaml:"port"`
	Auth string `yaml:"auth"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// ToolsConfig names the tool identifiers the visual compiler treats as
// relationship-bearing. Platforms with custom tool catalogs override
// these to match their own naming.
type ToolsConfig struct {
	Spawn      []string `yaml:"spawn"`
	SharedData []string `yaml:"shared_data"`
	Approval   []string `yaml:"approval"`
}

func defaults() Config {
	base := visual.DefaultOptions()
	return Config{
		Web: WebConfig{
			Port: 8080,
		},
		Store: StoreConfig{
			Path: "data/bal.db",
		},
		Cache: CacheConfig{
			MaxEntries: 256,
		},
		Tools: ToolsConfig{
			Spawn:      base.SpawnTools,
			SharedData: base.SharedDataTools,
			Approval:   base.ApprovalTools,
		},
	}
}

func Load() (*Config, error) {
	cfg := defaults()

	path := os.Getenv("BAL_CONFIG")
	if path == "" {
		path = "config/bal.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults + env
	} else {
		// Expand environment variables in YAML
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BAL_WEB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Web.Port = port
		}
	}
	if v := os.Getenv("BAL_WEB_PASSWORD"); v != "" {
		cfg.Web.Auth = v
	}
	if v := os.Getenv("BAL_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("BAL_CACHE_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = n
		}
	}
}

// VisualOptions translates the tool vocabulary into compiler options.
func (c *Config) VisualOptions() []visual.Option {
	var opts []visual.Option
	if len(c.Tools.Spawn) > 0 {
		opts = append(opts, visual.WithSpawnTools(c.Tools.Spawn...))
	}
	if len(c.Tools.SharedData) > 0 {
		opts = append(opts, visual.WithSharedDataTools(c.Tools.SharedData...))
	}
	if len(c.Tools.Approval) > 0 {
		opts = append(opts, visual.WithApprovalTools(c.Tools.Approval...))
	}
	return opts
}
