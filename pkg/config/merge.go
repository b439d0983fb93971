package config

// Merge applies the non-zero values of source onto target and records
// sourceType for each field it changed.
func Merge(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.FixtureDir != "" {
		target.FixtureDir = source.FixtureDir
		target.Sources["fixtureDir"] = sourceType
	}
	if source.FixtureFormat != "" {
		target.FixtureFormat = source.FixtureFormat
		target.Sources["fixtureFormat"] = sourceType
	}
	if len(source.RedactHeaders) > 0 {
		target.RedactHeaders = append([]string(nil), source.RedactHeaders...)
		target.Sources["redactHeaders"] = sourceType
	}
	if source.HistoryDir != "" {
		target.HistoryDir = source.HistoryDir
		target.Sources["historyDir"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.ConfigFile != "" {
		target.ConfigFile = source.ConfigFile
		target.Sources["configFile"] = sourceType
	}
}
