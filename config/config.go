// Package config holds the CLI-facing configuration for cmd/mimeparser:
// where to log, at what level, and the mime.Config knobs to hand to the
// parser. Adapted from the teacher's JSON-tagged AppConfig/ReadConfig
// pair in config.go, trimmed from an SMTP server's listener/TLS/backend
// settings down to a parser's own tuning and logging settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zacek/mail-mime-parser/mime"
)

// Config is the top-level CLI configuration, loadable from a JSON file.
type Config struct {
	Mime     mime.Config `json:"mime"`
	LogFile  string      `json:"log_file"`
	LogLevel string      `json:"log_level"`
}

// Default returns the configuration cmd/mimeparser uses when no
// -config flag is given: log to stderr at info level, with the
// parser's generous-but-bounded defaults.
func Default() Config {
	return Config{
		Mime:     mime.DefaultConfig(),
		LogFile:  "stderr",
		LogLevel: "info",
	}
}

// Load reads a JSON config file at path, overlaying it onto Default().
// An empty path returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: could not read %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: could not parse %s: %w", path, err)
	}
	return cfg, nil
}
