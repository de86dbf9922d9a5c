package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/montrey/shelf/search"
	"github.com/spf13/cobra"
)

var (
	suggestLimit int
	suggestJSON  bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [query]",
	Short: "Show search box suggestions for a partial query",
	Long: `Show the rows the search box dropdown would offer for a partial query:
matching past searches first, then product, category, brand and tag
suggestions. With no query only past searches are shown.`,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "l", 0, "Maximum number of rows (0 for no limit)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Output as JSON")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.engine()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	entries := engine.Dropdown(query, a.history().List(), suggestLimit)

	w := cmd.OutOrStdout()
	if suggestJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	for _, e := range entries {
		marker := " "
		if e.Kind() == search.KindHistory {
			marker = "↺"
		}
		fmt.Fprintf(w, "%s %s\n", marker, search.Describe(e))
	}
	return nil
}
