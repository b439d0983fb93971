package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockclient/pkg/cli/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration and where each value came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		type field struct {
			Name   string `json:"name"`
			Value  string `json:"value"`
			Source string `json:"source"`
		}
		fields := []field{
			{"fixtureDir", cfg.FixtureDir, cfg.Source("fixtureDir")},
			{"fixtureFormat", cfg.FixtureFormat, cfg.Source("fixtureFormat")},
			{"redactHeaders", strings.Join(cfg.RedactHeaders, ","), cfg.Source("redactHeaders")},
			{"historyDir", cfg.HistoryDir, cfg.Source("historyDir")},
			{"logLevel", cfg.LogLevel, cfg.Source("logLevel")},
			{"logFormat", cfg.LogFormat, cfg.Source("logFormat")},
		}

		type configOutput struct {
			ConfigFile string  `json:"configFile,omitempty"`
			Fields     []field `json:"fields"`
		}
		return printResult(cmd, configOutput{ConfigFile: cfg.ConfigFile, Fields: fields}, func() {
			out := cmd.OutOrStdout()
			if cfg.ConfigFile != "" {
				fmt.Fprintf(out, "Config file: %s\n", cfg.ConfigFile)
			}
			w := output.Table(out)
			fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
			for _, f := range fields {
				value := f.Value
				if value == "" {
					value = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, value, f.Source)
			}
			_ = w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
