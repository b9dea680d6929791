package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"civicsync-dashboard/query"
)

type Config struct {
	Port   int    `env:"SERVER_PORT" env-default:"8080"`
	Env    string `env:"GO_ENV"      env-default:"development"`
	Domain string `env:"DOMAIN"`

	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" env-default:"civicsync"`

	RedisAddress     string        `env:"REDIS_ADDRESS"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB"                    env-default:"0"`
	IssueLimitQueue  string        `env:"REDIS_QUEUE_FOR_ISSUE_LIMIT" env-default:"issue_updates"`
	IssueUpdateLimit int           `env:"ISSUE_UPDATE_LIMIT"          env-default:"100"`
	IssueLimitWindow time.Duration `env:"ISSUE_UPDATE_WINDOW" env-default:"24h"`

	JWTSecret  string        `env:"JWT_SECRET"  env-required:"true"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"   env-default:"72h"`
	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"72h"`
	AuthMode   string        `env:"AUTH_MODE"   env-default:"stub"`

	TransitionPolicy string `env:"ISSUE_TRANSITION_POLICY" env-default:"permissive"`
	StampResolvedAt  bool   `env:"ISSUE_STAMP_RESOLVED_AT" env-default:"false"`
	RecentLimit      int    `env:"RECENT_ISSUES_LIMIT"     env-default:"5"`

	LogLevel  string `env:"LOG_LEVEL"  env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`

	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

// Load reads .env if present, then the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535 (got %d)", c.Port)
	}
	if c.SessionTTL < 0 || c.TokenTTL < 0 {
		return fmt.Errorf("SESSION_TTL and TOKEN_TTL must not be negative")
	}
	if c.IssueUpdateLimit <= 0 {
		return fmt.Errorf("ISSUE_UPDATE_LIMIT must be > 0 (got %d)", c.IssueUpdateLimit)
	}
	if c.IssueLimitWindow <= 0 {
		return fmt.Errorf("ISSUE_UPDATE_WINDOW must be > 0 (got %s)", c.IssueLimitWindow)
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("RECENT_ISSUES_LIMIT must be > 0 (got %d)", c.RecentLimit)
	}
	switch c.AuthMode {
	case "stub":
	case "password":
		if c.MongoURI == "" {
			return fmt.Errorf("AUTH_MODE=password requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be stub or password (got %q)", c.AuthMode)
	}
	if _, err := query.ParsePolicy(c.TransitionPolicy); err != nil {
		return err
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Origins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
