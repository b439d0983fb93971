package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		type versionInfo struct {
			Version   string `json:"version"`
			Commit    string `json:"commit"`
			BuildDate string `json:"buildDate"`
			Go        string `json:"go"`
		}
		info := versionInfo{Version: Version, Commit: Commit, BuildDate: BuildDate, Go: runtime.Version()}
		return printResult(cmd, info, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "mockclient %s (commit %s, built %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.Go)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
