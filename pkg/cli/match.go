package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockclient/internal/matching"
	"github.com/getmockd/mockclient/pkg/cli/internal/output"
)

var matchCmd = &cobra.Command{
	Use:   "match <url> <pattern>...",
	Short: "Show which URL patterns match a URL, most specific first",
	Long: `Match ranks URL patterns the way a mock client picks a URL-keyed response:
fewer wildcards first, then more fixed path segments, then more literal
characters, then registration order (the order given here).

Patterns starting with "/" match the path, patterns containing "://" match
the full URL, and anything else matches host and path. "*" matches any run of
characters and "{name}" matches a single path segment.`,
	Example: `  mockclient match https://api.example.com/users/42 '/users/*' '/users/{id}' 'api.example.com/*'`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		patterns := make([]matching.Pattern, 0, len(args)-1)
		for _, raw := range args[1:] {
			patterns = append(patterns, matching.Compile(raw))
		}
		ranked := matching.Rank(patterns, url)

		type matchResult struct {
			Rank        int                  `json:"rank"`
			Pattern     string               `json:"pattern"`
			Target      string               `json:"target"`
			Specificity matching.Specificity `json:"specificity"`
		}
		type result struct {
			URL       string        `json:"url"`
			Matches   []matchResult `json:"matches"`
			Unmatched []string      `json:"unmatched"`
		}

		res := result{URL: url, Matches: []matchResult{}, Unmatched: []string{}}
		matched := make(map[int]bool, len(ranked))
		for i, r := range ranked {
			matched[r.Index] = true
			res.Matches = append(res.Matches, matchResult{
				Rank:        i + 1,
				Pattern:     r.Pattern.String(),
				Target:      r.Pattern.Target().String(),
				Specificity: r.Pattern.Specificity(),
			})
		}
		for i, p := range patterns {
			if !matched[i] {
				res.Unmatched = append(res.Unmatched, p.String())
			}
		}
		logger.Debug("ranked patterns", "url", url, "patterns", len(patterns), "matches", len(ranked))

		return printResult(cmd, res, func() {
			out := cmd.OutOrStdout()
			if len(res.Matches) == 0 {
				fmt.Fprintf(out, "No pattern matches %s\n", url)
			} else {
				w := output.Table(out)
				fmt.Fprintln(w, "RANK\tPATTERN\tTARGET\tSPECIFICITY")
				for _, m := range res.Matches {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.Rank, m.Pattern, m.Target, m.Specificity)
				}
				_ = w.Flush()
			}
			for _, p := range res.Unmatched {
				fmt.Fprintf(out, "no match: %s\n", p)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
