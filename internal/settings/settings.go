// Package settings provides centralized configuration management: env
// based server settings plus the YAML arena definitions.
package settings

import (
	"os"
	"strconv"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int
	DebugPort int // localhost-only metrics/pprof server
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:      3000,
		DebugPort: 6060,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if p := getEnvInt("DEBUG_PORT", 0); p > 0 {
		cfg.DebugPort = p
	}
	return cfg
}

// StorageConfig holds persistence paths.
type StorageConfig struct {
	DatabasePath string // sqlite stats database
	AuditLogPath string // JSONL audit trail, empty disables file output
	ArenasDir    string // directory of arena YAML files
}

// DefaultStorage returns the default storage configuration.
func DefaultStorage() StorageConfig {
	return StorageConfig{
		DatabasePath: "data/bedrush.db",
		AuditLogPath: "data/audit.jsonl",
		ArenasDir:    "arenas",
	}
}

// StorageFromEnv returns storage configuration with environment overrides.
func StorageFromEnv() StorageConfig {
	cfg := DefaultStorage()
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v, set := os.LookupEnv("AUDIT_LOG_PATH"); set {
		cfg.AuditLogPath = v
	}
	if v := os.Getenv("ARENAS_DIR"); v != "" {
		cfg.ArenasDir = v
	}
	return cfg
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server  ServerConfig
	Storage StorageConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Server:  ServerFromEnv(),
		Storage: StorageFromEnv(),
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
