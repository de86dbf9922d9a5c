package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/montrey/shelf/ui"
	"github.com/spf13/cobra"
)

var (
	tuiState   string
	tuiLogFile string
)

var tuiCmd = &cobra.Command{
	Use:   "tui [query]",
	Short: "Search interactively in the terminal",
	Long: `Search interactively: suggestions appear as you type, Enter runs the
search and Enter again picks the highlighted product, whose ID and search
state are printed on exit.

Keys:
  Tab/Shift+Tab   cycle sort        PgUp/PgDn   change page
  Ctrl+F          facet filters     Ctrl+D      forget highlighted history entry
  Ctrl+K          clear history     Esc         close dropdown, then quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVarP(&tuiState, "state", "s", "", "Initial search state as a URL query string")
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "Write logs to this file (default: discard)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The terminal belongs to the UI, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	a, err := openApp(logOut)
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.engine()
	if err != nil {
		return err
	}

	state := engine.Codec().Decode(tuiState)
	if len(args) > 0 {
		state.Filters.Search = strings.Join(args, " ")
	}

	m := ui.New(engine, a.history(), ui.Options{
		Debounce:      a.cfg.Search.Debounce,
		DropdownLimit: a.cfg.Search.MaxSuggestions + a.cfg.Search.HistoryLimit,
		State:         state,
		Logger:        a.logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	if m, ok := finalModel.(ui.Model); ok {
		if product, ok := m.Selected(); ok {
			fmt.Fprintln(cmd.OutOrStdout(), product.ID)
			if state := m.State(); state != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "?%s\n", state)
			}
		}
	}
	return nil
}
