// Package config provides configuration management for kotoba.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Session defaults
	DefaultSessionLifetime = 24 * time.Hour
	SessionCookieName      = "session_id"

	// DefaultAvatarURL is the avatar reference placed into new sessions
	DefaultAvatarURL = "/static/img/avatar-default.svg"
)

// Hash scheme identifiers for stored password digests
const (
	HashSchemeSHA256 = "sha256"
	HashSchemeBcrypt = "bcrypt"
)

// MainConfig holds the main configuration for kotoba
type MainConfig struct {
	// Web interface settings
	Web WebConfig `json:"web"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort      int           `json:"listen_port"`
	SSL             bool          `json:"ssl"`
	CertFile        string        `json:"cert_file,omitempty"`
	KeyFile         string        `json:"key_file,omitempty"`
	SessionSecret   string        `json:"-"` // HMAC key for session cookies, never serialized
	SessionLifetime time.Duration `json:"session_lifetime"`
	HashScheme      string        `json:"hash_scheme"` // sha256 (default) or bcrypt
	Debug           bool          `json:"debug"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DataDir string `json:"data_dir"` // Directory for the SQLite database
}

// NewDefaultConfig returns a configuration with sensible defaults,
// overridden by KOTOBA_* environment variables where set.
func NewDefaultConfig() *MainConfig {
	cfg := &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort:      3000,
			SSL:             false,
			SessionSecret:   "insecure-dev-secret",
			SessionLifetime: DefaultSessionLifetime,
			HashScheme:      HashSchemeSHA256,
		},
		Database: DatabaseConfig{
			DataDir: "./data",
		},
	}

	if v := os.Getenv("KOTOBA_LISTEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Web.ListenPort = port
		} else {
			log.Printf("Ignoring invalid KOTOBA_LISTEN_PORT=%q", v)
		}
	}
	if v := os.Getenv("KOTOBA_SESSION_SECRET"); v != "" {
		cfg.Web.SessionSecret = v
	}
	if v := os.Getenv("KOTOBA_HASH_SCHEME"); v != "" {
		switch v {
		case HashSchemeSHA256, HashSchemeBcrypt:
			cfg.Web.HashScheme = v
		default:
			log.Printf("Ignoring unknown KOTOBA_HASH_SCHEME=%q", v)
		}
	}
	if v := os.Getenv("KOTOBA_DATA_DIR"); v != "" {
		cfg.Database.DataDir = v
	}

	return cfg
}
