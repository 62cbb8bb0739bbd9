package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Gateway GatewayConfig
	Forms   FormsConfig
	Sublog  SublogConfig
	Redis   RedisConfig
	AMQP    AMQPConfig
}

type ServerConfig struct {
	Address string
}

type GatewayConfig struct {
	BaseURL string
}

type FormsConfig struct {
	TTL             time.Duration
	JanitorInterval time.Duration
}

type SublogConfig struct {
	Capacity int
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type AMQPConfig struct {
	Enabled  bool
	URL      string
	Exchange string
}

func LoadAll() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Gateway: GatewayConfig{
			BaseURL: mustEnv("GATEWAY_URL"),
		},
		Forms: FormsConfig{
			TTL:             time.Duration(getEnvInt("FORM_TTL_SECONDS", 3600)) * time.Second,
			JanitorInterval: time.Duration(getEnvInt("JANITOR_INTERVAL_SECONDS", 300)) * time.Second,
		},
		Sublog: SublogConfig{
			Capacity: getEnvInt("SUBLOG_CAPACITY", 100),
		},
		Redis: loadRedisConfig(),
		AMQP:  loadAMQPConfig(),
	}

	validate(cfg)
	return cfg, nil
}

func loadRedisConfig() RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}
	}

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvInt("REDIS_DB", 0),
		TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 86400)) * time.Second,
	}
}

func loadAMQPConfig() AMQPConfig {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		return AMQPConfig{Enabled: false}
	}

	return AMQPConfig{
		Enabled:  true,
		URL:      url,
		Exchange: getEnv("AMQP_EXCHANGE", "composer.events"),
	}
}

func validate(cfg *Config) {
	if cfg.Forms.TTL <= 0 {
		panic("FORM_TTL_SECONDS must be > 0")
	}
	if cfg.Forms.JanitorInterval <= 0 {
		panic("JANITOR_INTERVAL_SECONDS must be > 0")
	}
	if cfg.Sublog.Capacity <= 0 {
		panic("SUBLOG_CAPACITY must be > 0")
	}
}

func mustEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("missing required env var: %s", key))
	}
	return val
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("invalid int for env %s: %s", key, v))
	}
	return i
}
