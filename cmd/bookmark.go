package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/montrey/shelf/search"
	"github.com/montrey/shelf/store"
	"github.com/spf13/cobra"
)

var bookmarkJSON bool

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark",
	Aliases: []string{"bm"},
	Short:   "Save and reopen named searches",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <name> <state>",
	Short: "Save a search state under a name",
	Long: `Save a search state under a name, replacing any bookmark with that name.
The state is a URL query string such as "q=matcha&sort=price-asc".`,
	Args: cobra.ExactArgs(2),
	RunE: runBookmarkAdd,
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks",
	Args:  cobra.NoArgs,
	RunE:  runBookmarkList,
}

var bookmarkRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkRm,
}

var bookmarkOpenCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Run a bookmarked search",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkOpen,
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)
	bookmarkCmd.AddCommand(bookmarkAddCmd, bookmarkListCmd, bookmarkRmCmd, bookmarkOpenCmd)

	bookmarkCmd.PersistentFlags().BoolVar(&bookmarkJSON, "json", false, "Output as JSON")
}

func runBookmarkAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("bookmark name must not be empty")
	}

	// Canonical form, so equal searches are stored identically
	codec := search.NewCodec(a.cfg.Search.PerPage, a.cfg.Search.MaxPerPage)
	state := codec.Encode(codec.Decode(args[1]))
	if err := store.SaveBookmark(a.db, name, state); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: ?%s\n", name, state)
	return nil
}

func runBookmarkList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	bookmarks, err := store.ListBookmarks(a.db)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if bookmarkJSON {
		if bookmarks == nil {
			bookmarks = []store.Bookmark{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(bookmarks)
	}

	if len(bookmarks) == 0 {
		fmt.Fprintln(w, "No bookmarks.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range bookmarks {
		fmt.Fprintf(tw, "%s\t?%s\t%s\n", b.Name, b.State, b.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func runBookmarkRm(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := store.DeleteBookmark(a.db, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runBookmarkOpen(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := store.GetBookmark(a.db, args[0])
	if err != nil {
		return err
	}

	engine, err := a.engine()
	if err != nil {
		return err
	}

	state := engine.Codec().Decode(b.State)
	result := engine.Search(state)
	return outputResult(cmd.OutOrStdout(), engine.Codec().Encode(state), result, bookmarkJSON)
}
