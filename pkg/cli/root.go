package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockclient/pkg/config"
	"github.com/getmockd/mockclient/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
	jsonOutput bool

	// Resolved by the root command before any subcommand runs.
	cfg    *config.Config
	logger = logging.Nop()

	logOutput io.Closer

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mockclient",
	Short: "Inspect fixtures and verify recorded mock client histories",
	Long: `mockclient works with the files produced by the mockclient Go package:
stored fixtures, URL patterns and history dumps written by failing tests.

Configuration can be provided via flags, MOCKCLIENT_* environment variables,
or a .mockclient.yaml file in the working directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Main()
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logOutput != nil {
			_ = logOutput.Close()
			logOutput = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .mockclient.yaml, or $MOCKCLIENT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// setup resolves the configuration and logger for the invoked command.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flagCfg := &config.Config{}
	if cmd.Flags().Changed("log-level") {
		flagCfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		flagCfg.LogFormat = logFormat
	}
	if f := cmd.Flags().Lookup("dir"); f != nil && f.Changed {
		flagCfg.FixtureDir = f.Value.String()
	}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		flagCfg.FixtureFormat = f.Value.String()
	}
	config.Merge(loaded, flagCfg, config.SourceFlag)
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	lc := cfg.Logging()
	lc.Output = cmd.ErrOrStderr()
	handler := logging.NewHandler(lc)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logOutput = f
		handler = logging.NewMultiHandler(handler, logging.NewHandler(logging.Config{
			Level:  lc.Level,
			Format: logging.FormatJSON,
			Output: f,
		}))
	}
	logger = slog.New(handler).With("command", cmd.Name())
	logger.Debug("configuration resolved", "configFile", cfg.ConfigFile, "fixtureDir", cfg.FixtureDir)
	return nil
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// Execute runs the CLI and exits. This is called by main.main().
func Execute() {
	os.Exit(Main())
}
