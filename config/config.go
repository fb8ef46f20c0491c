// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config 載入 cmd/svr 的設定：yaml 檔 → 環境變數（CYCLELAB_*）→ 預設值。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/cyclelab/spec"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string        `yaml:"addr"`
		CORSOrigins    []string      `yaml:"cors_origins"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"server"`
	Log struct {
		Mode  string `yaml:"mode"`  // dev | prod | silence
		Level string `yaml:"level"` // 空字串跟隨 mode
		Async int    `yaml:"async"` // buffer 大小，0 為同步
	} `yaml:"log"`
	Store struct {
		Driver      string `yaml:"driver"` // memory | sqlite | redis | postgres
		Key         string `yaml:"key"`
		SQLitePath  string `yaml:"sqlite_path"`
		RedisAddr   string `yaml:"redis_addr"`
		RedisPass   string `yaml:"redis_password"`
		RedisDB     int    `yaml:"redis_db"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"store"`
	BotAPI struct {
		BaseURL string        `yaml:"base_url"`
		Token   string        `yaml:"token"`
		Timeout time.Duration `yaml:"timeout"`
		Retries int           `yaml:"retries"`
	} `yaml:"bot_api"`
	Limits   spec.Limits `yaml:"limits"`
	Snapshot struct {
		Schedule string `yaml:"schedule"` // 空字串不啟用
		Path     string `yaml:"path"`
	} `yaml:"snapshot"`
	Seeds struct {
		Dir      string `yaml:"dir"`
		Embedded bool   `yaml:"embedded"`
	} `yaml:"seeds"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// 檔案不存在時只用環境變數與預設值。
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup Lookup) (*Config, error) {
	cfg := &Config{Limits: spec.DefaultLimits()}
	cfg.Seeds.Embedded = true

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse 以 KnownFields 解析，拼錯的鍵直接報錯
func Parse(data []byte, cfg *Config) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Lookup 與 os.LookupEnv 同形，測試時可替換
type Lookup func(key string) (string, bool)

// Environment variable overrides
func (c *Config) applyEnv(lookup Lookup) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("CYCLELAB_ADDR", &c.Server.Addr)
	str("CYCLELAB_LOG_MODE", &c.Log.Mode)
	str("CYCLELAB_LOG_LEVEL", &c.Log.Level)
	str("CYCLELAB_STORE_DRIVER", &c.Store.Driver)
	str("CYCLELAB_STORE_KEY", &c.Store.Key)
	str("CYCLELAB_SQLITE_PATH", &c.Store.SQLitePath)
	str("CYCLELAB_REDIS_ADDR", &c.Store.RedisAddr)
	str("CYCLELAB_REDIS_PASSWORD", &c.Store.RedisPass)
	str("CYCLELAB_POSTGRES_DSN", &c.Store.PostgresDSN)
	str("CYCLELAB_BOT_API_URL", &c.BotAPI.BaseURL)
	str("CYCLELAB_BOT_API_TOKEN", &c.BotAPI.Token)
	str("CYCLELAB_SNAPSHOT_SCHEDULE", &c.Snapshot.Schedule)
	str("CYCLELAB_SNAPSHOT_PATH", &c.Snapshot.Path)
	str("CYCLELAB_SEEDS_DIR", &c.Seeds.Dir)

	if v, ok := lookup("CYCLELAB_CORS_ORIGINS"); ok && v != "" {
		c.Server.CORSOrigins = c.Server.CORSOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, o)
			}
		}
	}
	if v, ok := lookup("CYCLELAB_REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CYCLELAB_REQUEST_TIMEOUT: %w", err)
		}
		c.Server.RequestTimeout = d
	}
	if v, ok := lookup("CYCLELAB_BOT_API_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CYCLELAB_BOT_API_TIMEOUT: %w", err)
		}
		c.BotAPI.Timeout = d
	}
	ints := map[string]*int{
		"CYCLELAB_LOG_ASYNC":       &c.Log.Async,
		"CYCLELAB_REDIS_DB":        &c.Store.RedisDB,
		"CYCLELAB_BOT_API_RETRIES": &c.BotAPI.Retries,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup("CYCLELAB_SEEDS_EMBEDDED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CYCLELAB_SEEDS_EMBEDDED: %w", err)
		}
		c.Seeds.Embedded = b
	}
	return nil
}

// Defaults
func (c *Config) applyDefaults() error {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5808"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 10 * time.Second
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/cyclelab.db"
	}
	if c.BotAPI.Timeout == 0 {
		c.BotAPI.Timeout = 10 * time.Second
	}
	if c.BotAPI.Retries == 0 {
		c.BotAPI.Retries = 3
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = "data/presets_snapshot.yaml"
	}
	if err := c.Limits.Init(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	return nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for driver %q", c.Store.Driver)
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store.driver %q (memory|sqlite|redis|postgres)", c.Store.Driver)
	}
	if c.BotAPI.Retries < 1 {
		return fmt.Errorf("bot_api.retries must be at least 1")
	}
	return nil
}
