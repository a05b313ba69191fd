package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/productivity-tracker/internal/breaks"
)

// FileName is the config file inside the data directory.
const FileName = "config.json"

// Config is the root configuration for ptt, stored in
// ~/.productivity_tracker/config.json. The file supports single-line //
// comments for documentation purposes.
type Config struct {
	// BreakTypes are the break categories offered by the break commands and
	// drawn from by random breaks.
	BreakTypes []string `json:"break_types"`
	// Debug mirrors diagnostic logging to stderr.
	Debug   bool          `json:"debug"`
	Outlook OutlookConfig `json:"outlook"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = local.
	Timezone string `json:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		BreakTypes: append([]string(nil), breaks.DefaultTypes...),
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
		},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `// ptt configuration – ~/.productivity_tracker/config.json
//
// All settings are optional; delete this file to regenerate the defaults.
{
  // Break categories offered by "ptt break" and used by random breaks.
  "break_types": ["Coffee", "Bathroom", "Water", "Lunch", "Stretch"],

  // Mirror diagnostic logs (logs/tracker.log) to stderr.
  "debug": false,

  // ── Outlook calendar import ("ptt outlook sync") ────────────────────────
  "outlook": {
    // Azure AD tenant ID; "common" works for personal and most org accounts.
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // IANA timezone for calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use the local timezone.
    "timezone": ""
  }
}
`

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <dir>/config.json, creating it with annotated defaults on first
// run. On error the defaults are returned alongside the error so callers can
// continue.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if len(cfg.BreakTypes) == 0 {
		cfg.BreakTypes = append([]string(nil), breaks.DefaultTypes...)
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	return cfg, nil
}

// writeDefault creates the data directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
