package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var ErrUnknownStorage = errors.New("unknown storage backend")

type Config struct {
	LogLevel       string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort       string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort     string   `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage        string   `yaml:"storage" env:"STORAGE" env-default:"memory"`
	AllowedOrigins []string `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-separator:","`
	Redis          Redis    `yaml:"redis"`
	Game           Game     `yaml:"game"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Game struct {
	// RevealDelay is how long the enhanced variant holds the computer's choice back.
	RevealDelay time.Duration `yaml:"reveal-delay" env:"GAME_REVEAL_DELAY" env-default:"1s"`
	// RandomSeed 0 seeds the computer from the OS.
	RandomSeed uint64        `yaml:"random-seed" env:"GAME_RANDOM_SEED" env-default:"0"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"GAME_SESSION_TTL" env-default:"24h"`
}

// MustLoad - loads config.yml if present, otherwise the environment. A .env file is applied first.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else if err = cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to load config from environment: %w", err)
	}

	if config.Storage != StorageMemory && config.Storage != StorageRedis {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, config.Storage)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
