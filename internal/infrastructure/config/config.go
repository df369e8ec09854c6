package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Email EmailConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=noai_backend"`
}

// EmailConfig carries the SMTP settings. All four of Host, Port, User and
// Pass must be present to enable live delivery; otherwise the process runs
// with the trace sender.
type EmailConfig struct {
	Host string `env:"EMAIL_HOST"`
	Port int    `env:"EMAIL_PORT"`
	User string `env:"EMAIL_USER"`
	Pass string `env:"EMAIL_PASS"`
	From string `env:"EMAIL_FROM, default=NoAI Backend <no-reply@localhost>"`
}

// Configured reports whether live SMTP delivery can be used.
func (e EmailConfig) Configured() bool {
	return e.Host != "" && e.Port != 0 && e.User != "" && e.Pass != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
