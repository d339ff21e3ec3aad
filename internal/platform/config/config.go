package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	// Persistencia: se elige UNA, en este orden de precedencia:
	// - DBDSN: Postgres directo (pgx)
	// - StoreBaseURL/StoreAPIKey: store hosted vía REST
	// - ninguna: repos in-memory (modo dev)
	DBDSN        string
	StoreBaseURL string
	StoreAPIKey  string

	MigrationsPath string

	// AliasesFile: YAML opcional con aliases legacy adicionales
	// (alias -> estado canónico), mergeado sobre los defaults.
	AliasesFile string

	// JWTSecret: si está vacío, el API corre en modo dev
	// (identidad por headers X-Debug-*).
	JWTSecret string

	LogLevel  string
	LogFormat string
	AppName   string
}

func Load() Config {
	// Conveniencia para dev local: variables desde .env si existe.
	// En producción mandan las env vars reales.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	return Config{
		HTTPAddr:       httpAddr,
		DBDSN:          os.Getenv("DB_DSN"),
		StoreBaseURL:   os.Getenv("STORE_BASE_URL"),
		StoreAPIKey:    os.Getenv("STORE_API_KEY"),
		MigrationsPath: env("MIGRATIONS_PATH", "file://migrations"),
		AliasesFile:    os.Getenv("ALIASES_FILE"),
		JWTSecret:      os.Getenv("AUTH_JWT_SECRET"),
		LogLevel:       env("LOG_LEVEL", "info"),
		LogFormat:      env("LOG_FORMAT", "text"),
		AppName:        env("APP_NAME", "appointment-lifecycle"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
