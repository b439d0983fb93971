package config

// NewDefault returns a Config with every field at its default.
func NewDefault() *Config {
	return &Config{
		FixtureDir:    DefaultFixtureDir,
		FixtureFormat: DefaultFixtureFormat,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		Sources: map[string]string{
			"fixtureDir":    SourceDefault,
			"fixtureFormat": SourceDefault,
			"redactHeaders": SourceDefault,
			"historyDir":    SourceDefault,
			"logLevel":      SourceDefault,
			"logFormat":     SourceDefault,
		},
	}
}
