package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/montrey/shelf/search"
	"github.com/spf13/cobra"
)

var (
	searchState     string
	searchSort      string
	searchPage      int
	searchJSON      bool
	searchNoHistory bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long: `Search the catalog and print one page of ranked results.

The search can be given as a query string, exactly as it appears in a
storefront URL; words on the command line replace its free-text query.

Examples:
  shelf search matcha
  shelf search --sort price-asc korean skincare
  shelf search --state "category=beauty&origin=korea&maxPrice=30"
  shelf search --json snacks | jq '.result.items[].name'`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchState, "state", "s", "", "Search state as a URL query string")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort: relevance, price-asc, price-desc, rating, popularity, newest")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 0, "Page number")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output results as JSON")
	searchCmd.Flags().BoolVar(&searchNoHistory, "no-history", false, "Do not record the query in search history")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.engine()
	if err != nil {
		return err
	}

	state := buildState(engine.Codec(), searchState, args)
	result := engine.Search(state)

	if q := state.Query(); q != "" && !searchNoHistory {
		if err := a.history().Record(q, result.Total); err != nil {
			a.logger.Warn("failed to record search history", "query", q, "error", err)
		}
	}

	return outputResult(cmd.OutOrStdout(), engine.Codec().Encode(state), result, searchJSON)
}

// buildState decodes raw and applies the query words and flags on top.
func buildState(codec search.Codec, raw string, args []string) search.State {
	state := codec.Decode(raw)
	if len(args) > 0 {
		state.Filters.Search = strings.TrimSpace(strings.Join(args, " "))
	}
	if searchSort != "" {
		state.Sort = search.ParseSortMode(searchSort)
	}
	if searchPage > 0 {
		state.Page = searchPage
	}
	return state
}

// searchOutput is the JSON output of a search.
type searchOutput struct {
	State  string        `json:"state"`
	Result search.Result `json:"result"`
}

func outputResult(w io.Writer, state string, result search.Result, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(searchOutput{State: state, Result: result})
	}

	if result.Total == 0 {
		fmt.Fprintln(w, "No products found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range result.Items {
		price := fmt.Sprintf("$%.2f", p.SellingPrice)
		if d := p.Discount(); d > 0 {
			price += fmt.Sprintf(" (-%.0f%%)", d*100)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t★ %.1f (%d)\t%s\n",
			p.ID, p.Name, p.Category.Name, price, p.Rating.Average, p.Rating.Count, p.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\npage %d/%d, %d results", result.Page, result.Pages, result.Total)
	if state != "" {
		fmt.Fprintf(w, ", ?%s", state)
	}
	fmt.Fprintln(w)
	return nil
}
