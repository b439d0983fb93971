package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader errors.
var (
	ErrFileNotFound  = errors.New("config file not found")
	ErrInvalidConfig = errors.New("invalid config")
)

// FindLocalConfig returns the first of FileNames present in dir.
// Returns empty string if none exists.
func FindLocalConfig(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadFile reads a YAML config file. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, newConfigError(path, err)
	}

	cfg.FixtureFormat = strings.ToLower(cfg.FixtureFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// Load resolves the configuration from defaults, a config file and the
// environment, in increasing order of precedence. The file is explicitPath
// when set, else $MOCKCLIENT_CONFIG, else a .mockclient.yaml in the working
// directory. Flags are layered on afterwards with Merge(cfg, flags, SourceFlag).
func Load(explicitPath string) (*Config, error) {
	cfg := NewDefault()

	path, source := explicitPath, SourceFlag
	if path == "" {
		path, source = os.Getenv(EnvConfig), SourceEnv
	}
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path, source = FindLocalConfig(cwd), SourceFile
		}
	}

	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		Merge(cfg, fileCfg, SourceFile)
	}

	LoadEnv(cfg)

	if path != "" {
		cfg.ConfigFile = path
		cfg.Sources["configFile"] = source
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that enumerated fields hold known values.
func (c *Config) Validate() error {
	var errs []error
	switch c.FixtureFormat {
	case "json", "yaml", "yml":
	default:
		errs = append(errs, fmt.Errorf("%w: fixtureFormat %q (want json or yaml)", ErrInvalidConfig, c.FixtureFormat))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: logLevel %q (want debug, info, warn or error)", ErrInvalidConfig, c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: logFormat %q (want text or json)", ErrInvalidConfig, c.LogFormat))
	}
	if c.FixtureDir == "" {
		errs = append(errs, fmt.Errorf("%w: fixtureDir is empty", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

var yamlLine = regexp.MustCompile(`line (\d+)`)

// newConfigError lifts the first line number yaml.v3 reports into the error.
func newConfigError(path string, err error) *ConfigError {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		msg = strings.Join(typeErr.Errors, "; ")
	}
	ce := &ConfigError{Path: path, Message: msg}
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		ce.Line, _ = strconv.Atoi(m[1])
	}
	return ce
}
