package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig

	AssignmentWorkers int `env:"ASSIGNMENT_WORKERS, default=4"`
}

type AuthConfig struct {
	TokenTTL time.Duration `env:"TOKEN_TTL, default=1h"`
	// OpenRoleRegistration allows unauthenticated self-registration with the
	// admin role.
	OpenRoleRegistration bool          `env:"AUTH_OPEN_ROLE_REGISTRATION, default=true"`
	LoginRateLimit       int           `env:"LOGIN_RATE_LIMIT,            default=10"`
	LoginRateWindow      time.Duration `env:"LOGIN_RATE_WINDOW,           default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=service_tracker"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type StorageConfig struct {
	Type         string `env:"STORAGE_TYPE,       default=local"`
	LocalPath    string `env:"STORAGE_LOCAL_PATH, default=./storage/files"`
	S3Bucket     string `env:"AWS_S3_BUCKET"`
	S3Region     string `env:"AWS_REGION,         default=us-east-1"`
	AWSAccessKey string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.Storage.Type == "s3" && cfg.Storage.S3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required when STORAGE_TYPE=s3")
	}
	return &cfg, nil
}
