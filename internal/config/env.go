package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv 按结构体标签从环境变量加载配置。
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ConvaiConfig 描述角色对话后端配置。
type ConvaiConfig struct {
	APIKey  string        `env:"CONVAI_API_KEY"`
	URL     string        `env:"CONVAI_URL" envDefault:"https://api.convai.com/character/getResponse"`
	Timeout time.Duration `env:"CONVAI_TIMEOUT" envDefault:"30s"`
}

// Enabled 表示是否提供了 API Key。
func (c ConvaiConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// StorageConfig 描述会话快照的持久化后端。
type StorageConfig struct {
	Driver        string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/snapshots.db"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix     string `env:"SNAPSHOT_KEY_PREFIX" envDefault:"convai_chat_"`
}

func (c *StorageConfig) validate() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case StorageMemory, StorageRedis:
		return nil
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
		return nil
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER value: %q", c.Driver)
	}
}

// SessionConfig 描述模拟会话的行为参数。
type SessionConfig struct {
	ErrorCooldown time.Duration `env:"ERROR_COOLDOWN" envDefault:"3s"`
	ScenariosFile string        `env:"SCENARIOS_FILE"`
}
