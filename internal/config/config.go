package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Env            string        `envconfig:"APP_ENV" default:"development"`
	Addr           string        `envconfig:"HTTP_ADDR" default:":8080"`
	AllowedOrigins []string      `envconfig:"API_ALLOWED_ORIGINS" default:"*"`
	RequestTimeout time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"5s"`
	Mongo          MongoConfig
	Auth           AuthConfig
	Import         ImportConfig
	Cache          CacheConfig
	Messenger      MessengerConfig
}

// MongoConfig は接続先とコレクション名。
type MongoConfig struct {
	URI                          string        `envconfig:"MONGO_URI" default:"mongodb://mongo:27017"`
	Database                     string        `envconfig:"MONGO_DB" default:"interview-assist"`
	ConnectTimeout               time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	JobCollection                string        `envconfig:"JOB_COLLECTION" default:"jobs"`
	QuestionCollection           string        `envconfig:"QUESTION_COLLECTION" default:"questions"`
	FailedNotificationCollection string        `envconfig:"FAILED_NOTIFICATION_COLLECTION" default:"failed_notifications"`
}

// AuthConfig は管理 API の JWT 検証設定。
type AuthConfig struct {
	Secret   string `envconfig:"AUTH_JWT_SECRET"`
	Issuer   string `envconfig:"AUTH_JWT_ISSUER"`
	Audience string `envconfig:"AUTH_JWT_AUDIENCE"`
}

// ImportConfig はインポートのバッチ設定。BatchThreshold は BatchCeiling 未満でなければならない。
// Transactional はレプリカセット/mongos 向け。スタンドアロンでは起動時に無効へ戻される。
type ImportConfig struct {
	BatchThreshold int   `envconfig:"IMPORT_BATCH_THRESHOLD" default:"450"`
	BatchCeiling   int   `envconfig:"IMPORT_BATCH_CEILING" default:"500"`
	Transactional  bool  `envconfig:"IMPORT_BATCH_TRANSACTION" default:"false"`
	MaxUploadBytes int64 `envconfig:"IMPORT_MAX_UPLOAD_BYTES" default:"10485760"`
}

// CacheConfig configures the optional Redis cache. An empty Addr disables it.
type CacheConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"CACHE_TTL" default:"60s"`
}

// MessengerConfig はインポート結果通知の送信先。
type MessengerConfig struct {
	Endpoint           string        `envconfig:"MESSENGER_GATEWAY_URL"`
	DiscordDestination string        `envconfig:"MESSENGER_DISCORD_INCOMING_DESTINATION"`
	SlackDestination   string        `envconfig:"MESSENGER_SLACK_DESTINATION"`
	Timeout            time.Duration `envconfig:"MESSENGER_GATEWAY_TIMEOUT" default:"3s"`
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadWithoutAuth は CLI 用。JWT の設定がなくても読み込める。
func LoadWithoutAuth() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	cfg.normalise()
	if err := cfg.validateCommon(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalise() {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.AllowedOrigins = origins
	c.Auth.Secret = strings.TrimSpace(c.Auth.Secret)
	c.Messenger.Endpoint = strings.TrimRight(strings.TrimSpace(c.Messenger.Endpoint), "/")
}

func (c *Config) Validate() error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET must be configured")
	}
	return nil
}

func (c *Config) validateCommon() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Import.BatchCeiling < 1 {
		return fmt.Errorf("IMPORT_BATCH_CEILING must be at least 1")
	}
	if c.Import.BatchThreshold < 1 || c.Import.BatchThreshold >= c.Import.BatchCeiling {
		return fmt.Errorf("IMPORT_BATCH_THRESHOLD (%d) must be between 1 and IMPORT_BATCH_CEILING-1 (%d)",
			c.Import.BatchThreshold, c.Import.BatchCeiling-1)
	}
	if c.Import.MaxUploadBytes < 1 {
		return fmt.Errorf("IMPORT_MAX_UPLOAD_BYTES must be positive")
	}
	if strings.TrimSpace(c.Mongo.Database) == "" {
		return fmt.Errorf("MONGO_DB must not be empty")
	}
	return nil
}

// JWTConfigs returns the verification settings for the admin API.
func (c *Config) JWTConfigs() []JWTConfig {
	if c.Auth.Secret == "" {
		return nil
	}
	return []JWTConfig{{Issuer: strings.TrimSpace(c.Auth.Issuer), Secret: []byte(c.Auth.Secret)}}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) CacheEnabled() bool {
	return strings.TrimSpace(c.Cache.Addr) != ""
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Addr=%s, Mongo.Database=%s, Import.BatchThreshold=%d, "+
		"Import.BatchCeiling=%d, Import.Transactional=%t, Cache.Enabled=%t, Messenger.Endpoint=%q}",
		c.Env, c.Addr, c.Mongo.Database, c.Import.BatchThreshold,
		c.Import.BatchCeiling, c.Import.Transactional, c.CacheEnabled(), c.Messenger.Endpoint)
}
