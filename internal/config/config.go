package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Console    ConsoleConfig    `mapstructure:"console"`
	Broadcast  BroadcastConfig  `mapstructure:"broadcast"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type TelegramConfig struct {
	BotToken       string `mapstructure:"bot_token"`
	AdminID        int64  `mapstructure:"admin_id"`
	PollingTimeout int    `mapstructure:"polling_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ModerationConfig struct {
	FloodWindow    time.Duration `mapstructure:"flood_window"`
	FloodThreshold int           `mapstructure:"flood_threshold"`
	MuteDuration   time.Duration `mapstructure:"mute_duration"`
	TrackedActors  int           `mapstructure:"tracked_actors"`
}

type ConsoleConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type BroadcastConfig struct {
	Pause time.Duration `mapstructure:"pause"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	JSONFormat bool   `mapstructure:"json_format"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("telegram.polling_timeout", 60)
	v.SetDefault("database.path", "data/dexkeeper.db")
	v.SetDefault("moderation.flood_window", "2s")
	v.SetDefault("moderation.flood_threshold", 5)
	v.SetDefault("moderation.mute_duration", "1h")
	v.SetDefault("moderation.tracked_actors", 4096)
	v.SetDefault("console.session_ttl", "30m")
	v.SetDefault("broadcast.pause", "50ms")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json_format", false)

	// Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/dexkeeper")

	// Environment variables
	v.SetEnvPrefix("DEXKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found is OK, use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}
	if c.Moderation.FloodWindow <= 0 {
		return fmt.Errorf("moderation.flood_window must be positive")
	}
	if c.Moderation.FloodThreshold < 1 {
		return fmt.Errorf("moderation.flood_threshold must be at least 1")
	}
	if c.Moderation.TrackedActors < 1 {
		return fmt.Errorf("moderation.tracked_actors must be at least 1")
	}
	return nil
}
