package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/parchment-labs/docuchat/internal/adapters/driving/watch"
	"github.com/parchment-labs/docuchat/internal/adapters/driving/web"
)

var (
	serveAddr         string
	serveWatchDir     string
	serveWatchSession string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Starts the HTTP server with the chat UI and JSON API.

With --watch, files dropped into the given directory are ingested
automatically into the watch session.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", web.DefaultAddr, "listen address")
	serveCmd.Flags().StringVarP(&serveWatchDir, "watch", "w", "", "directory to auto-ingest documents from")
	serveCmd.Flags().StringVar(&serveWatchSession, "watch-session", "watch", "session watched files are ingested into")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if coordinator == nil {
		return errors.New("coordinator not configured")
	}

	server := web.NewServer(coordinator, documentService, sessionService, serveAddr)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Start(ctx)
	})

	if serveWatchDir != "" {
		watcher, err := watch.New(coordinator, documentService, serveWatchSession)
		if err != nil {
			return err
		}
		defer watcher.Close()
		g.Go(func() error {
			return watcher.Run(ctx, serveWatchDir)
		})
	}

	return g.Wait()
}
