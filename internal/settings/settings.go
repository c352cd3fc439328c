// Package settings is the typed key/value store for runtime-tunable policy.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Well-known keys.
const (
	KeyMaxJobDeadlineDays       = "max_job_deadline_days"
	KeyArchiveDeletionDays      = "archive_deletion_days"
	KeyMatchingForCompanies     = "matching_enabled_for_companies"
	KeyMatchingForApplicants    = "matching_enabled_for_applicants"
	KeyAutoDeactivateExpired    = "auto_deactivate_expired_jobs"
	KeyJobNotificationsEnabled  = "job_notifications_enabled"
	KeyJobNotificationThreshold = "job_notifications_threshold"
)

// defaults is the built-in policy table consulted when no row exists.
var defaults = map[string]string{
	KeyMaxJobDeadlineDays:       "31",
	KeyArchiveDeletionDays:      "90",
	KeyMatchingForCompanies:     "true",
	KeyMatchingForApplicants:    "true",
	KeyAutoDeactivateExpired:    "true",
	KeyJobNotificationsEnabled:  "true",
	KeyJobNotificationThreshold: "85",
}

// Registry reads and writes the settings table.
type Registry struct {
	db *sql.DB
}

func NewRegistry(db *sql.DB) *Registry {
	return &Registry{db: db}
}

// raw resolves a key: row value, then defaults table, then ok=false.
func (r *Registry) raw(ctx context.Context, key string) (string, bool) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err == nil {
		return value, true
	}
	if def, ok := defaults[key]; ok {
		return def, true
	}
	return "", false
}

// GetString returns the stored string or the supplied default.
func (r *Registry) GetString(ctx context.Context, key, def string) string {
	if v, ok := r.raw(ctx, key); ok {
		return v
	}
	return def
}

// GetBool parses true/1/yes as true; anything else is false.
func (r *Registry) GetBool(ctx context.Context, key string, def bool) bool {
	v, ok := r.raw(ctx, key)
	if !ok {
		return def
	}
	return ParseBool(v)
}

// GetInt returns the stored integer or the supplied default on parse failure.
func (r *Registry) GetInt(ctx context.Context, key string, def int) int {
	v, ok := r.raw(ctx, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// GetJSON unmarshals the stored value into out; returns false when absent or
// malformed.
func (r *Registry) GetJSON(ctx context.Context, key string, out interface{}) bool {
	v, ok := r.raw(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(v), out) == nil
}

// Set upserts a value, inferring its type, and records the acting
// administrator.
func (r *Registry) Set(ctx context.Context, key string, value interface{}, actorID int64) error {
	str, typ := encode(value)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, value_type, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    value_type = EXCLUDED.value_type,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = EXCLUDED.updated_at`,
		key, str, typ, actorID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// ParseBool implements the boolean form the legacy schema accepted.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func encode(value interface{}) (string, string) {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v), "boolean"
	case int:
		return strconv.Itoa(v), "integer"
	case int64:
		return strconv.FormatInt(v, 10), "integer"
	case string:
		return v, "string"
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v), "string"
		}
		return string(raw), "json"
	}
}

// Default exposes the built-in default for a key (empty when unknown).
func Default(key string) string {
	return defaults[key]
}
