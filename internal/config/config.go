package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración de la aplicación.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Auth   AuthConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port string
}

// DBConfig apunta al Postgres. Si DSN viene vacío el router usa repos in-memory.
type DBConfig struct {
	DSN string
}

// AuthConfig configura el verificador remoto de tokens (SIVIGILA).
// Si BaseURL viene vacío se corre en modo dev (headers X-Debug-*).
type AuthConfig struct {
	BaseURL string
	APIKey  string
}

type LogConfig struct {
	Level string
}

// Load lee variables de entorno, opcionalmente desde un archivo .env.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("config: loading %s: %w", envFile, err)
		}
	} else {
		// best-effort: .env en el cwd si existe
		_ = godotenv.Load()
	}

	cfg := Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		DB: DBConfig{
			DSN: os.Getenv("DB_DSN"),
		},
		Auth: AuthConfig{
			BaseURL: os.Getenv("AUTH_BASE_URL"),
			APIKey:  os.Getenv("AUTH_API_KEY"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
