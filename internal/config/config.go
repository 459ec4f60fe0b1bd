package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string `env:"DB_PORT" envDefault:"3306"`
	DBUser        string `env:"DB_USER" envDefault:"talentuser"`
	DBPassword    string `env:"DB_PASSWORD" envDefault:"talentpassword"`
	DBName        string `env:"DB_NAME" envDefault:"talent_registration"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	GinMode       string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr    string `env:"SERVER_ADDR" envDefault:":8080"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`

	// First director account, created only when the users table is empty.
	BootstrapEmail    string `env:"BOOTSTRAP_DIRECTOR_EMAIL"`
	BootstrapPassword string `env:"BOOTSTRAP_DIRECTOR_PASSWORD"`
	BootstrapName     string `env:"BOOTSTRAP_DIRECTOR_NAME" envDefault:"Administrator"`
}

// Load reads .env files when present and parses the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("DB_DRIVER must be 'mysql' or 'postgres', got '%s'", cfg.DBDriver)
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
