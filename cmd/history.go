package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/montrey/shelf/search"
	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Long:  `Show recent searches, most recent first. Use the subcommands to edit the list.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent searches",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <query>",
	Short: "Forget one search",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryRm,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all searches",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyRmCmd, historyClearCmd)

	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "Output as JSON")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	items := a.history().List()
	w := cmd.OutOrStdout()
	if historyJSON {
		if items == nil {
			items = []search.HistoryItem{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(items)
	}

	if len(items) == 0 {
		fmt.Fprintln(w, "No recent searches.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, h := range items {
		fmt.Fprintf(tw, "%s\t%d results\t%s\n", h.Query, h.ResultCount, h.Time().Format(time.DateTime))
	}
	return tw.Flush()
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	if err := a.history().Remove(query); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from history\n", query)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.history().Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
	return nil
}
