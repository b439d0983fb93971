package config

import (
	"os"
	"strings"
)

// Environment variable names
const (
	EnvFixtureDir    = "MOCKCLIENT_FIXTURE_DIR"
	EnvFixtureFormat = "MOCKCLIENT_FIXTURE_FORMAT"
	EnvRedactHeaders = "MOCKCLIENT_REDACT_HEADERS"
	EnvHistoryDir    = "MOCKCLIENT_HISTORY_DIR"
	EnvLogLevel      = "MOCKCLIENT_LOG_LEVEL"
	EnvLogFormat     = "MOCKCLIENT_LOG_FORMAT"
	EnvConfig        = "MOCKCLIENT_CONFIG"
)

// LoadEnv applies environment variables to cfg.
// It only sets values that are present in the environment.
func LoadEnv(cfg *Config) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvFixtureDir); v != "" {
		cfg.FixtureDir = v
		cfg.Sources["fixtureDir"] = SourceEnv
	}

	if v := os.Getenv(EnvFixtureFormat); v != "" {
		cfg.FixtureFormat = strings.ToLower(v)
		cfg.Sources["fixtureFormat"] = SourceEnv
	}

	// Comma separated; blank entries are dropped.
	if v := os.Getenv(EnvRedactHeaders); v != "" {
		cfg.RedactHeaders = splitList(v)
		cfg.Sources["redactHeaders"] = SourceEnv
	}

	if v := os.Getenv(EnvHistoryDir); v != "" {
		cfg.HistoryDir = v
		cfg.Sources["historyDir"] = SourceEnv
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
		cfg.Sources["logLevel"] = SourceEnv
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
		cfg.Sources["logFormat"] = SourceEnv
	}

	if v := os.Getenv(EnvConfig); v != "" {
		cfg.ConfigFile = v
		cfg.Sources["configFile"] = SourceEnv
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
