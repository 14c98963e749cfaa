package config

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds the settings of the deck table service.
type Config struct {
	Addr             string
	DatabaseDriver   string // "sqlite3" or "pgx"
	DatabaseURL      string
	StaticDir        string
	WSAllowedOrigins []string
}

// LoadFromEnv reads the configuration from the environment. Values from a
// .env file in the working directory are loaded first.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:           strings.TrimSpace(os.Getenv("ALBASTINI_ADDR")),
		DatabaseDriver: strings.TrimSpace(os.Getenv("DATABASE_DRIVER")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		StaticDir:      strings.TrimSpace(os.Getenv("STATIC_DIR")),
	}

	// ALBASTINI_ADDR wins over PORT set by the hosting environment.
	if cfg.Addr == "" {
		if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
			if strings.Contains(port, ":") {
				cfg.Addr = port
			} else {
				cfg.Addr = ":" + port
			}
		}
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "sqlite3"
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseDriver != "sqlite3" {
			return Config{}, fmt.Errorf("missing env: DATABASE_URL is required for driver %q", cfg.DatabaseDriver)
		}
		cfg.DatabaseURL = "./albastini.db"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "web/static"
	}

	switch cfg.DatabaseDriver {
	case "sqlite3", "pgx":
	default:
		return Config{}, fmt.Errorf("invalid env: DATABASE_DRIVER=%q (want sqlite3 or pgx)", cfg.DatabaseDriver)
	}

	if v := os.Getenv("WS_ALLOWED_ORIGINS"); v != "" {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				cfg.WSAllowedOrigins = append(cfg.WSAllowedOrigins, p)
			}
		}
	}

	return cfg, nil
}

// OriginAllowed reports whether a websocket handshake from origin may be
// accepted. An empty allow list accepts every origin.
func (c Config) OriginAllowed(origin string) bool {
	if len(c.WSAllowedOrigins) == 0 {
		return true
	}
	for _, o := range c.WSAllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}
