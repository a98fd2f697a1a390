package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	S3            S3Config            `yaml:"s3"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Hashtags      HashtagConfig       `yaml:"hashtags"`
}

// IsDevelopment reports whether the server runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "local" || c.Server.Env == "development"
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         int      `yaml:"port"`
	Env          string   `yaml:"env"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// DatabaseConfig MySQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// GetDSN builds a MySQL DSN from the database settings
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig Redis connection settings
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// S3Config media library storage settings (S3/R2/MinIO compatible)
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// ElasticsearchConfig media metadata index settings
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

// PipelineConfig tuning knobs for the voice pipeline coordinator
type PipelineConfig struct {
	// WatchdogSeconds bounds how long Processing may run before it is force-failed
	WatchdogSeconds int `yaml:"watchdog_seconds"`
	// SpeechThresholdDB amplitude level (dBFS) above which speech is considered detected
	SpeechThresholdDB float64 `yaml:"speech_threshold_db"`
	// StatusAutoClearSeconds default expiry for error statuses
	StatusAutoClearSeconds int `yaml:"status_auto_clear_seconds"`
}

// WatchdogWindow returns the processing watchdog window as a duration
func (p PipelineConfig) WatchdogWindow() time.Duration {
	if p.WatchdogSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.WatchdogSeconds) * time.Second
}

// StatusAutoClear returns the default status auto-clear duration
func (p PipelineConfig) StatusAutoClear() time.Duration {
	if p.StatusAutoClearSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.StatusAutoClearSeconds) * time.Second
}

// HashtagConfig fallback hashtag generation table.
// The keyword table is content policy, not logic, so it lives in config;
// when empty the built-in default table is used.
type HashtagConfig struct {
	MaxTags  int                 `yaml:"max_tags"`
	Keywords map[string][]string `yaml:"keywords"`
	Generic  []string            `yaml:"generic"`
}

// Load reads configuration from a YAML file with env var overrides
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Server.Port = envInt("SERVER_PORT", c.Server.Port)
	c.Server.Env = envStr("APP_ENV", c.Server.Env)

	c.Database.Host = envStr("DB_HOST", c.Database.Host)
	c.Database.Port = envInt("DB_PORT", c.Database.Port)
	c.Database.User = envStr("DB_USER", c.Database.User)
	c.Database.Password = envStr("DB_PASSWORD", c.Database.Password)
	c.Database.Name = envStr("DB_NAME", c.Database.Name)

	c.Redis.Host = envStr("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = envInt("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = envStr("REDIS_PASSWORD", c.Redis.Password)

	c.S3.AccessKeyID = envStr("S3_ACCESS_KEY_ID", c.S3.AccessKeyID)
	c.S3.SecretAccessKey = envStr("S3_SECRET_ACCESS_KEY", c.S3.SecretAccessKey)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8082
	}
	if c.Server.Env == "" {
		c.Server.Env = "local"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Pipeline.WatchdogSeconds == 0 {
		c.Pipeline.WatchdogSeconds = 30
	}
	if c.Pipeline.SpeechThresholdDB == 0 {
		c.Pipeline.SpeechThresholdDB = -40
	}
	if c.Pipeline.StatusAutoClearSeconds == 0 {
		c.Pipeline.StatusAutoClearSeconds = 5
	}
	if c.Hashtags.MaxTags == 0 {
		c.Hashtags.MaxTags = 6
	}
	if c.Elasticsearch.Index == "" {
		c.Elasticsearch.Index = "media"
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
