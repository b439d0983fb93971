package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockclient/pkg/cli/internal/output"
	"github.com/getmockd/mockclient/pkg/fixture"
)

var (
	fixturesDir    string
	fixturesFormat string
	fixturesGlob   string
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "List, validate and show stored fixtures",
	Long: `Work with the fixture files a fixture store reads and writes.

Fixtures live under the fixture directory (--dir, $MOCKCLIENT_FIXTURE_DIR or
fixtureDir in .mockclient.yaml) as <key>.json or <key>.yaml.`,
}

var fixturesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fixture keys",
	Example: `  # All fixtures
  mockclient fixtures list

  # Only fixtures under users/
  mockclient fixtures list --glob 'users/**'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}

		var keys []string
		if fixturesGlob != "" {
			keys, err = store.Match(fixturesGlob)
		} else {
			keys, err = store.List()
		}
		if err != nil {
			return err
		}
		if keys == nil {
			keys = []string{}
		}

		type listResult struct {
			Dir      string   `json:"dir"`
			Fixtures []string `json:"fixtures"`
		}
		return printResult(cmd, listResult{Dir: store.Dir(), Fixtures: keys}, func() {
			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintf(out, "No fixtures in %s\n", store.Dir())
				return
			}
			for _, key := range keys {
				fmt.Fprintln(out, key)
			}
		})
	},
}

var fixturesValidateCmd = &cobra.Command{
	Use:   "validate [key...]",
	Short: "Check fixture files against the fixture schema",
	Long: `Validate parses every fixture (or only the given keys) and checks it
against the fixture schema. The command fails if any fixture is invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}

		keys := args
		if len(keys) == 0 {
			if keys, err = store.List(); err != nil {
				return err
			}
		}

		type validateResult struct {
			Key   string `json:"key"`
			Valid bool   `json:"valid"`
			Error string `json:"error,omitempty"`
		}
		results := make([]validateResult, 0, len(keys))
		invalid := 0
		for _, key := range keys {
			r := validateResult{Key: key, Valid: true}
			if _, err := store.Load(key); err != nil {
				r.Valid = false
				r.Error = err.Error()
				invalid++
				logger.Debug("invalid fixture", "key", key, "error", err)
			}
			results = append(results, r)
		}

		if err := printResult(cmd, results, func() {
			w := output.Table(cmd.OutOrStdout())
			for _, r := range results {
				if r.Valid {
					fmt.Fprintf(w, "ok\t%s\n", r.Key)
				} else {
					fmt.Fprintf(w, "FAIL\t%s\t%s\n", r.Key, r.Error)
				}
			}
			_ = w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "%d fixtures, %d invalid\n", len(results), invalid)
		}); err != nil {
			return err
		}

		if invalid > 0 {
			return fmt.Errorf("%w: %d of %d", ErrInvalidFixtures, invalid, len(results))
		}
		return nil
	},
}

var fixturesShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print a fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		file, err := store.Load(args[0])
		if err != nil {
			return err
		}
		resp, err := file.Response()
		if err != nil {
			return err
		}

		return printResult(cmd, file, func() {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status: %d\n", resp.Status())
			if len(file.Headers) > 0 {
				fmt.Fprintln(out, "Headers:")
				names := make([]string, 0, len(file.Headers))
				for name := range file.Headers {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "  %s: %s\n", name, file.Headers[name])
				}
			}
			if body := resp.Body(); len(body) > 0 {
				fmt.Fprintf(out, "\n%s\n", body)
			}
		})
	},
}

var fixturesSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema fixture files are validated against",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(fixture.SchemaJSON())
		return err
	},
}

// newStore opens the configured fixture directory.
func newStore() (*fixture.Store, error) {
	format, err := fixture.ParseFormat(cfg.FixtureFormat)
	if err != nil {
		return nil, err
	}
	opts := []fixture.Option{fixture.WithFormat(format), fixture.WithLogger(logger)}
	if len(cfg.RedactHeaders) > 0 {
		opts = append(opts, fixture.WithRedactHeaders(cfg.RedactHeaders...))
	}
	return fixture.NewStore(cfg.FixtureDir, opts...), nil
}

func init() {
	fixturesCmd.PersistentFlags().StringVar(&fixturesDir, "dir", "", "Fixture directory (default: testdata/fixtures)")
	fixturesCmd.PersistentFlags().StringVar(&fixturesFormat, "format", "", "Fixture format: json, yaml")
	fixturesListCmd.Flags().StringVar(&fixturesGlob, "glob", "", "Only list fixtures whose file matches this doublestar pattern")

	fixturesCmd.AddCommand(fixturesListCmd, fixturesValidateCmd, fixturesShowCmd, fixturesSchemaCmd)
	rootCmd.AddCommand(fixturesCmd)
}
