package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockclient/pkg/cli/internal/flags"
	"github.com/getmockd/mockclient/pkg/cli/internal/output"
	"github.com/getmockd/mockclient/pkg/history"
	"github.com/getmockd/mockclient/pkg/mockclient"
)

var (
	verifyHistory string
	verifyExpect  flags.StringSlice
)

var verifyCmd = &cobra.Command{
	Use:   "verify --history <file> --expect <file>",
	Short: "Check a recorded history against YAML expectations",
	Long: `Verify loads a history dump (written by failing tests when
MOCKCLIENT_HISTORY_DIR is set) and runs the expectations from one or more
YAML files against it, the same way the mock client's assertions do.`,
	Example: `  mockclient verify --history out/TestCheckout.json --expect testdata/checkout.yaml`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyHistory == "" {
			return errors.New("--history is required")
		}
		if len(verifyExpect) == 0 {
			return errors.New("--expect is required")
		}

		client, n, err := loadHistory(verifyHistory)
		if err != nil {
			return err
		}

		var results []VerifyResult
		for _, path := range verifyExpect {
			exp, err := LoadExpectations(path)
			if err != nil {
				return err
			}
			results = append(results, exp.Verify(client)...)
		}

		failed := 0
		for _, r := range results {
			if !r.Passed {
				failed++
			}
		}
		logger.Debug("verified history", "history", verifyHistory, "entries", n, "checks", len(results), "failed", failed)

		type verifyOutput struct {
			History string         `json:"history"`
			Entries int            `json:"entries"`
			Passed  int            `json:"passed"`
			Failed  int            `json:"failed"`
			Results []VerifyResult `json:"results"`
		}
		res := verifyOutput{
			History: verifyHistory,
			Entries: n,
			Passed:  len(results) - failed,
			Failed:  failed,
			Results: results,
		}
		if res.Results == nil {
			res.Results = []VerifyResult{}
		}
		if err := printResult(cmd, res, func() { printVerifyText(cmd, res.Results, res.Passed, res.Failed) }); err != nil {
			return err
		}

		if failed > 0 {
			return fmt.Errorf("%w: %d of %d", ErrExpectationsFailed, failed, len(results))
		}
		return nil
	},
}

// loadHistory replays a history dump into a fresh MockClient.
func loadHistory(path string) (*mockclient.MockClient, int, error) {
	entries, err := history.LoadFile[*mockclient.Response](path)
	if err != nil {
		return nil, 0, err
	}
	client, err := mockclient.New(mockclient.WithLogger(logger))
	if err != nil {
		return nil, 0, err
	}
	for _, e := range entries {
		if _, err := client.RecordResponse(e.Value); err != nil {
			return nil, 0, fmt.Errorf("history entry %d: %w", e.Index, err)
		}
	}
	return client, len(entries), nil
}

// printVerifyText prints results grouped by kind, in first-seen order.
func printVerifyText(cmd *cobra.Command, results []VerifyResult, passed, failed int) {
	out := cmd.OutOrStdout()

	var order []string
	groups := make(map[string][]VerifyResult)
	for _, r := range results {
		if _, ok := groups[r.Kind]; !ok {
			order = append(order, r.Kind)
		}
		groups[r.Kind] = append(groups[r.Kind], r)
	}

	for _, kind := range order {
		fmt.Fprintln(out, output.Heading(kind))
		w := output.Table(out)
		for _, r := range groups[kind] {
			status := "PASS"
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(w, "  %s\t%s\n", status, r.Subject)
			if r.Error != "" {
				fmt.Fprintf(w, "  \t%s\n", r.Error)
			}
		}
		_ = w.Flush()
	}
	fmt.Fprintf(out, "%d passed, %d failed\n", passed, failed)
}

func init() {
	verifyCmd.Flags().StringVar(&verifyHistory, "history", "", "History dump to verify (JSON)")
	verifyCmd.Flags().Var(&verifyExpect, "expect", "Expectations file (YAML); repeatable")
	rootCmd.AddCommand(verifyCmd)
}
