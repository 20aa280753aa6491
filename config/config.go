package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	HistoryBackendPostgres  = "postgres"
	HistoryBackendFirestore = "firestore"
)

type Config struct {
	ServerPort string

	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	CORSAllowedOrigins []string

	HistoryBackend          string
	FirebaseCredentialsPath string
	AuthRequired            bool

	Debug bool
}

// LoadDotEnv carrega o arquivo .env quando ele existe. A missing file is not
// an error: the process may be configured through the environment alone.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("erro ao carregar o arquivo .env: %w", err)
	}
	return nil
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBHost:                  strings.TrimSpace(os.Getenv("DB_HOST")),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSSLMode:               getEnv("DB_SSLMODE", "disable"),
		HistoryBackend:          strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendPostgres)),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
	}

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT inválido: %w", err)
	}
	cfg.DBPort = port

	if cfg.AuthRequired, err = getBool("AUTH_REQUIRED"); err != nil {
		return nil, err
	}
	if cfg.Debug, err = getBool("LOG_DEBUG"); err != nil {
		return nil, err
	}

	if origins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	switch cfg.HistoryBackend {
	case HistoryBackendPostgres, HistoryBackendFirestore:
	default:
		return nil, fmt.Errorf("HISTORY_BACKEND inválido: %q", cfg.HistoryBackend)
	}

	if (cfg.HistoryBackend == HistoryBackendFirestore || cfg.AuthRequired) && cfg.FirebaseCredentialsPath == "" {
		return nil, errors.New("FIREBASE_CREDENTIALS_PATH é obrigatório para Firestore ou autenticação")
	}

	return cfg, nil
}

// HasDatabase reports whether a durable store is configured. Without one the
// server runs against the in-memory store.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != "" || c.DBHost != ""
}

// ConnString monta a string de conexão do PostgreSQL.
func (c *Config) ConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s inválido: %w", key, err)
	}
	return b, nil
}
