package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	HTTPAddr       string   `env:"HTTP_ADDR" envDefault:":4101"`
	SocketAddr     string   `env:"SOCKET_ADDR" envDefault:":8000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"richman.db"`
	RedisURL     string `env:"REDIS_URL" envDefault:"localhost:6379"`

	DBAddr     string `env:"DB_ADDR"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`

	JWTSecret  string `env:"JWT_SECRET" envDefault:"secret"`
	PlayerName string `env:"PLAYER_NAME" envDefault:"Host"`
	RoomName   string `env:"ROOM_NAME"`
	JoinURL    string `env:"JOIN_URL"`

	StartingBalance int `env:"STARTING_BALANCE" envDefault:"10000"`
	StartBonus      int `env:"START_BONUS" envDefault:"2000"`
	RewardIncrement int `env:"REWARD_INCREMENT" envDefault:"100"`
	MaxLevel        int `env:"MAX_LEVEL" envDefault:"5"`
	DiceSides       int `env:"DICE_SIDES" envDefault:"24"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads the environment, after any .env file in the working directory.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.DiceSides < 1 {
		return fmt.Errorf("DICE_SIDES must be positive, got %d", c.DiceSides)
	}
	if c.MaxLevel < 0 {
		return fmt.Errorf("MAX_LEVEL must not be negative, got %d", c.MaxLevel)
	}
	return nil
}

// Joining reports whether this peer joins another room instead of hosting.
func (c Config) Joining() bool {
	return strings.TrimSpace(c.JoinURL) != ""
}

func (c Config) UsePostgres() bool {
	return c.DBAddr != ""
}
