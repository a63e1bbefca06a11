package database

import (
	"database/sql"
	"fmt"
	"strconv"
)

const (
	query_GetConfigValue = `SELECT value FROM config WHERE key = ?`

	query_SetConfigValue = `INSERT INTO config (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`
)

// GetConfigValue returns the stored value for a key, or "" when unset
func (db *Database) GetConfigValue(key string) (string, error) {
	var value string
	err := retryableQueryRowScan(db.mainDB, query_GetConfigValue,
		[]interface{}{key}, &value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config value for %s: %w", key, err)
	}
	return value, nil
}

// SetConfigValue stores or replaces the value for a key
func (db *Database) SetConfigValue(key, value string) error {
	if _, err := retryableExec(db.mainDB, query_SetConfigValue, key, value); err != nil {
		return fmt.Errorf("failed to set config value for %s: %w", key, err)
	}
	return nil
}

// GetConfigBool reads a boolean config value, falling back to the given
// default when the key is unset or unparsable.
func (db *Database) GetConfigBool(key string, defaultValue bool) bool {
	value, err := db.GetConfigValue(key)
	if err != nil || value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// SetConfigBool stores a boolean config value
func (db *Database) SetConfigBool(key string, value bool) error {
	return db.SetConfigValue(key, strconv.FormatBool(value))
}

// IsRegistrationEnabled reports whether new account signups are allowed.
// Registration defaults to open when the flag was never set.
func (db *Database) IsRegistrationEnabled() bool {
	return db.GetConfigBool("registration_enabled", true)
}
