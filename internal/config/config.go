package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// MongoCfg is config for mongodb connectivity
type MongoCfg struct {
	User        string `env:"MONGO_USER"`
	Password    string `env:"MONGO_PASSWORD"`
	Host        string `env:"MONGO_HOST" envDefault:"mongo-customers"`
	Port        int    `env:"MONGO_PORT" envDefault:"27017"`
	MaxPoolSize int    `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
}

// PostgresCfg is config for postgresql connectivity
type PostgresCfg struct {
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Database    string `env:"POSTGRES_DB"`
	SslMode     string `env:"POSTGRES_SLL_MODE" envDefault:"disable"`
	Host        string `env:"POSTGRES_HOST" envDefault:"pg-customers"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

// RedisCfg is config for redis connectivity
type RedisCfg struct {
	Host     string `env:"REDIS_HOST" envDefault:"redis-customers"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	Db       int    `env:"REDIS_DB" envDefault:"0"`
}

// RemoteCfg is config for the remote product and transaction services
type RemoteCfg struct {
	ProductBaseURL     string        `env:"PRODUCT_SERVICE_URL" envDefault:"http://businessdomain-product"`
	TransactionBaseURL string        `env:"TRANSACTION_SERVICE_URL" envDefault:"http://businessdomain-transaction"`
	LookupTimeout      time.Duration `env:"REMOTE_LOOKUP_TIMEOUT" envDefault:"3s"`
}

// ServerCfg is config for the http server
type ServerCfg struct {
	Port            int           `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Config is aggregated application config
type Config struct {
	MongoCfg    MongoCfg
	PostgresCfg PostgresCfg
	RedisCfg    RedisCfg
	RemoteCfg   RemoteCfg
	ServerCfg   ServerCfg
}

// Build reads application config from environment variables
func Build() (Config, error) {
	var cfg Config
	opts := env.Options{RequiredIfNoDef: true}

	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}
	return cfg, nil
}
