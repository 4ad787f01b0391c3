package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	LLM       ModelConfig     `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Qdrant    QdrantConfig    `mapstructure:"qdrant"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	NATS      NATSConfig      `mapstructure:"nats"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"` // debug / release / test
	CorsOrigins []string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql / postgres / sqlite
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type ModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type EmbeddingConfig struct {
	ModelConfig `mapstructure:",squash"`
	Dimension   int `mapstructure:"dimension"`
}

type QdrantConfig struct {
	Host           string `mapstructure:"host"` // 为空则不启用语义搜索
	Port           int    `mapstructure:"port"`
	CollectionName string `mapstructure:"collection_name"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"` // 为空则使用进程内缓存
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver"` // local / s3
	LocalDir    string `mapstructure:"local_dir"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
}

type NATSConfig struct {
	URL           string `mapstructure:"url"` // 为空则不发布事件
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// AdminConfig 启动时确保存在的管理员账号，用户名为空则跳过
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

var supportedDrivers = map[string]bool{"mysql": true, "postgres": true, "sqlite": true}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "hamhama.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimension", 1536)
	v.SetDefault("qdrant.host", "")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.collection_name", "hamhama_recipes")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "uploads/profile-pictures")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_endpoint", "")
	v.SetDefault("storage.s3_access_key", "")
	v.SetDefault("storage.s3_secret_key", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "hamhama")
	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
}

// LoadConfig 读取配置文件。path 为空时在 . 和 ./config 下查找 config.yaml，
// 找不到文件时只用默认值和环境变量
func LoadConfig(path string) (*Config, error) {
	// .env 可选，不存在就忽略
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 环境变量覆盖，例如 HAMHAMA_JWT_SECRET 覆盖 jwt.secret
	v.SetEnvPrefix("HAMHAMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Warn("config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 启动前的必要校验
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("config: jwt.ttl must be positive, got %s", c.JWT.TTL)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: unsupported server mode %q", c.Server.Mode)
	}
	if !supportedDrivers[c.Database.Driver] {
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Storage.Driver != "local" && c.Storage.Driver != "s3" {
		return fmt.Errorf("config: unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "s3" && c.Storage.S3Bucket == "" {
		return errors.New("config: storage.s3_bucket is required for s3 storage")
	}
	return nil
}

// SlogLevel 把配置里的日志级别转换为 slog.Level
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
