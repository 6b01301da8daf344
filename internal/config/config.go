// Package config loads service configuration from the environment, with
// a .env file picked up in development when present.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR,default=:3000"`

	MongoURI    string `env:"MONGO_URI,default=mongodb://127.0.0.1:27017"`
	MongoDBName string `env:"MONGO_DB_NAME,default=mendendb"`

	// When RedisAddr is set, sessions live in Redis instead of memory.
	RedisAddr     string `env:"REDIS_ADDR,default="`
	RedisPassword string `env:"REDIS_PASSWORD,default="`

	SessionMaxAge   time.Duration `env:"SESSION_MAX_AGE,default=24h"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	DBCallTimeout   time.Duration `env:"DB_CALL_TIMEOUT,default=10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
