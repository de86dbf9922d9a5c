package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/montrey/shelf/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `products:
  - id: p1
    name: Matcha KitKat
    description: Green tea wafers
    category: {id: c1, name: Snacks, slug: snacks}
    tags: [japanese, sweets]
    origin: japan
    status: available
    type: ready_stock
    sellingPrice: 8
    originalPrice: 10
    rating: {average: 4.1, count: 75}
  - id: p2
    name: Matcha Latte Powder
    description: Ceremonial grade
    category: {id: c2, name: Drinks, slug: drinks}
    tags: [tea]
    origin: japan
    status: preorder
    type: pre_order
    sellingPrice: 20
    rating: {average: 4.6, count: 10}
  - id: p3
    name: Trail Shoes
    description: Lightweight runners
    category: {id: c3, name: Shoes, slug: shoes}
    tags: [shoes]
    origin: europe
    status: available
    type: ready_stock
    sellingPrice: 140
    rating: {average: 3.9, count: 12}
`

// resetFlags restores every flag to its default, since cobra keeps flag
// values in package variables between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// fixture writes a catalog and returns the flags pointing commands at it and
// at a fresh database.
func fixture(t *testing.T) []string {
	t.Helper()
	for _, key := range []string{"SHELF_CATALOG", "SHELF_DB", "SHELF_ADDR", "SHELF_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	catalogFile := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogFile, []byte(testCatalog), 0o644))

	return []string{"--config", "", "--catalog", catalogFile, "--db", filepath.Join(dir, "shelf.db"), "--log-level", "error"}
}

func run(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, env...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandDefinitions(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"search", "suggest", "serve", "tui", "history", "bookmark", "config"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	t.Run("persistent flags", func(t *testing.T) {
		for _, name := range []string{"config", "catalog", "db", "log-level"} {
			assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
		}
		assert.Equal(t, "c", rootCmd.PersistentFlags().Lookup("catalog").Shorthand)
	})

	t.Run("search flags", func(t *testing.T) {
		flags := searchCmd.Flags()
		state := flags.Lookup("state")
		require.NotNil(t, state)
		assert.Equal(t, "s", state.Shorthand)
		assert.Equal(t, "false", flags.Lookup("json").DefValue)
		assert.NotNil(t, flags.Lookup("no-history"))
	})

	t.Run("serve flags", func(t *testing.T) {
		assert.NotNil(t, serveCmd.Flags().Lookup("addr"))
		assert.Equal(t, "false", serveCmd.Flags().Lookup("watch").DefValue)
	})
}

func TestSearchCommand(t *testing.T) {
	env := fixture(t)

	out, err := run(t, env, "search", "matcha")
	require.NoError(t, err)
	assert.Contains(t, out, "Matcha KitKat")
	assert.Contains(t, out, "$8.00 (-20%)")
	assert.NotContains(t, out, "Trail Shoes")
	assert.Contains(t, out, "page 1/1, 2 results, ?q=matcha")

	t.Run("state and flags", func(t *testing.T) {
		out, err := run(t, env, "search", "--state", "origin=japan&sort=price-asc", "--sort", "price-desc", "--json", "--no-history")
		require.NoError(t, err)

		var got searchOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "origin=japan&sort=price-desc", got.State, "flags override the state string")
		require.Len(t, got.Result.Items, 2)
		assert.Equal(t, "p2", got.Result.Items[0].ID)
	})

	t.Run("no results", func(t *testing.T) {
		out, err := run(t, env, "search", "--no-history", "umbrella")
		require.NoError(t, err)
		assert.Equal(t, "No products found.\n", out)
	})

	t.Run("records history", func(t *testing.T) {
		out, err := run(t, env, "history", "--json")
		require.NoError(t, err)

		var items []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &items))
		require.Len(t, items, 1, "only the first search was recorded")
		assert.Equal(t, "matcha", items[0]["query"])
		assert.Equal(t, float64(2), items[0]["resultCount"])
	})

	t.Run("missing catalog", func(t *testing.T) {
		missing := slices.Clone(env)
		missing[slices.Index(missing, "--catalog")+1] = filepath.Join(t.TempDir(), "none.json")
		_, err := run(t, missing, "search", "tea")
		assert.Error(t, err)
	})
}

func TestSuggestCommand(t *testing.T) {
	env := fixture(t)
	_, err := run(t, env, "search", "matcha")
	require.NoError(t, err)

	out, err := run(t, env, "suggest", "ma")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.Equal(t, "↺ matcha (2 results)", lines[0], "history comes first")
	assert.Contains(t, out, "Matcha KitKat [product")

	out, err = run(t, env, "suggest", "--limit", "1", "ma")
	require.NoError(t, err)
	assert.Equal(t, "↺ matcha (2 results)\n", out)

	out, err = run(t, env, "suggest", "--json", "sho")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "suggestion"`)
}

func TestHistoryCommands(t *testing.T) {
	env := fixture(t)

	out, err := run(t, env, "history")
	require.NoError(t, err)
	assert.Equal(t, "No recent searches.\n", out)

	for _, q := range []string{"trail", "matcha latte"} {
		_, err := run(t, env, "search", q)
		require.NoError(t, err)
	}

	out, err = run(t, env, "history", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "matcha latte"), "most recent first")

	out, err = run(t, env, "history", "rm", "matcha", "latte")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed "matcha latte"`)

	_, err = run(t, env, "history", "clear")
	require.NoError(t, err)
	out, err = run(t, env, "history", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestBookmarkCommands(t *testing.T) {
	env := fixture(t)

	out, err := run(t, env, "bookmark", "add", "cheap-tea", "?q=matcha&sort=price-asc&page=1&bogus=1")
	require.NoError(t, err)
	assert.Equal(t, "Saved cheap-tea: ?q=matcha&sort=price-asc\n", out)

	out, err = run(t, env, "bookmark", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cheap-tea")
	assert.Contains(t, out, "?q=matcha&sort=price-asc")

	out, err = run(t, env, "bookmark", "open", "--json", "cheap-tea")
	require.NoError(t, err)
	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Result.Items, 2)
	assert.Equal(t, "p1", got.Result.Items[0].ID)

	_, err = run(t, env, "bm", "rm", "cheap-tea")
	require.NoError(t, err)
	_, err = run(t, env, "bookmark", "rm", "cheap-tea")
	assert.ErrorIs(t, err, store.ErrBookmarkNotFound)
	_, err = run(t, env, "bookmark", "open", "cheap-tea")
	assert.ErrorIs(t, err, store.ErrBookmarkNotFound)

	out, err = run(t, env, "bookmark", "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestConfigCommands(t *testing.T) {
	env := fixture(t)

	out, err := run(t, env, "config", "get", "search.per_page")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)

	_, err = run(t, env, "config", "set", "search.per_page", "1")
	require.NoError(t, err)

	out, err = run(t, env, "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "search.per_page")
	assert.Contains(t, out, "search.debounce")

	// Stored settings reach the engine
	out, err = run(t, env, "search", "--no-history", "matcha")
	require.NoError(t, err)
	assert.Contains(t, out, "page 1/2, 2 results")

	_, err = run(t, env, "config", "set", "search.per_page", "lots")
	assert.Error(t, err)
	_, err = run(t, env, "config", "set", "colour", "red")
	assert.Error(t, err)

	_, err = run(t, env, "config", "unset", "search.per_page")
	require.NoError(t, err)
	out, err = run(t, env, "config", "get", "search.per_page")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)
}
