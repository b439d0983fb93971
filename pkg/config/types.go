package config

import (
	"github.com/getmockd/mockclient/pkg/logging"
)

// Config holds settings shared by the CLI and the pkg/testing helpers.
type Config struct {
	// FixtureDir is the directory fixtures are read from and saved to.
	FixtureDir string `yaml:"fixtureDir,omitempty" json:"fixtureDir,omitempty"`

	// FixtureFormat is the on-disk format new fixtures are written in (json or yaml).
	FixtureFormat string `yaml:"fixtureFormat,omitempty" json:"fixtureFormat,omitempty"`

	// RedactHeaders replaces the default list of headers scrubbed when saving fixtures.
	RedactHeaders []string `yaml:"redactHeaders,omitempty" json:"redactHeaders,omitempty"`

	// HistoryDir receives history dumps from failed tests. Empty disables dumping.
	HistoryDir string `yaml:"historyDir,omitempty" json:"historyDir,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`

	// LogFormat is text or json.
	LogFormat string `yaml:"logFormat,omitempty" json:"logFormat,omitempty"`

	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Sources records where each value came from, keyed by field name.
	Sources map[string]string `yaml:"-" json:"sources,omitempty"`
}

// Source types for tracking where config values came from.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Default values.
const (
	DefaultFixtureDir    = "testdata/fixtures"
	DefaultFixtureFormat = "json"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
)

// FileNames are the config file names searched for, in order.
var FileNames = []string{".mockclient.yaml", ".mockclient.yml"}

// Logging returns the logging configuration described by c.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.LogLevel)
	cfg.Format = logging.ParseFormat(c.LogFormat)
	return cfg
}

// Source reports where the named field's value came from.
func (c *Config) Source(field string) string {
	if s, ok := c.Sources[field]; ok {
		return s
	}
	return SourceDefault
}
