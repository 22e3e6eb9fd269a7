package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/BlackEmpir7199/StudySphere/pkg/config"
	"github.com/BlackEmpir7199/StudySphere/pkg/database"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
	"github.com/BlackEmpir7199/StudySphere/pkg/storage"
)

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig
	WebSocket  WebSocketConfig
	Auth       AuthConfig
	Database   database.Config
	Redis      RedisConfig
	GenAI      GenAIConfig `mapstructure:"genai"`
	Moderation ModerationConfig
	Storage    StorageConfig
	Log        log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	Issuer       string        `mapstructure:"issuer"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type RedisConfig struct {
	Address           string        `mapstructure:"address"`
	Password          string        `mapstructure:"password"`
	DB                int           `mapstructure:"db"`
	RegistryPrefix    string        `mapstructure:"registry_prefix"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	KeyTTL            time.Duration `mapstructure:"key_ttl"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Address != ""
}

type GenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ModerationConfig struct {
	// Backend selects the moderation strategy: "keyword" or "gemini".
	// Picked once at startup; oracle errors always fail closed.
	Backend string `mapstructure:"backend"`
}

type StorageConfig struct {
	Backend string              `mapstructure:"backend"` // local or s3
	Local   storage.LocalConfig `mapstructure:"local"`
	S3      storage.S3Config    `mapstructure:"s3"`
}

// Load reads configuration from ./config/config.yaml and the environment.
func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5004)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("auth.jwt_secret", "your-secret-key")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.issuer", "studysphere")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "studysphere.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.registry_prefix", "chat:channels")
	v.SetDefault("redis.heartbeat_interval", "10s")
	v.SetDefault("redis.key_ttl", "30s")
	v.SetDefault("redis.cache_ttl", "30s")
	v.SetDefault("genai.model", "gemini-2.0-flash-exp")
	v.SetDefault("moderation.backend", "keyword")
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local.base_path", "./uploads")
	v.SetDefault("storage.local.url_base", "/uploads")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "studysphere")

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.db_name", "DB_NAME")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("genai.api_key", "GEMINI_API_KEY")
	v.BindEnv("genai.model", "GEMINI_MODEL")
	v.BindEnv("moderation.backend", "MODERATION_BACKEND")
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.local.base_path", "UPLOAD_DIR")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Auth.TokenTTL = parseDuration(v, "auth.token_ttl", 168*time.Hour)
	cfg.Redis.HeartbeatInterval = parseDuration(v, "redis.heartbeat_interval", 10*time.Second)
	cfg.Redis.KeyTTL = parseDuration(v, "redis.key_ttl", 30*time.Second)
	cfg.Redis.CacheTTL = parseDuration(v, "redis.cache_ttl", 30*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
