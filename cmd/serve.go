package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/montrey/shelf/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Serve search, suggestions, facets, history and bookmarks as a JSON API.

Endpoints:
  GET    /api/search?<state>       one page of results
  GET    /api/suggest?q=           dropdown rows
  GET    /api/facets               filterable values with counts
  GET    /api/products/{id}
  GET    /api/history              DELETE clears it
  DELETE /api/history/{query}
  GET    /api/bookmarks
  PUT    /api/bookmarks/{name}     body: state query string
  DELETE /api/bookmarks/{name}
  GET    /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Reload the catalog when its files change")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	load := server.NewLoader(a.cfg.Catalog, a.cfg.Search.Options())
	engine, err := load()
	if err != nil {
		return err
	}

	s := server.New(engine, a.history(), a.db, a.logger)
	s.SetLoader(load)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWatch || a.cfg.Server.Watch {
		go func() {
			err := server.Watch(ctx, a.cfg.Catalog, a.cfg.Search.Debounce, a.logger, func() {
				if err := s.Reload(); err != nil {
					a.logger.Error("catalog reload failed", "error", err)
				}
			})
			if err != nil {
				a.logger.Error("catalog watcher stopped", "error", err)
			}
		}()
	}

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	return s.Run(ctx, addr)
}
