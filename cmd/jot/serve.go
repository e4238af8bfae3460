package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jotkit/jot"
	"github.com/jotkit/jot/pkg/web"
)

var (
	serveAddr string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pad as a web page",
	Long: `Serve starts an HTTP server with the embedded single-page pad,
a small JSON API, and a WebSocket hub that pushes the full list to every
connected page after each change. External edits to the state directory
are picked up and pushed too.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// handle Ctrl+C for graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-c
			cancel()
		}()

		pad, err := jot.Open(ctx, resolveDir(), padOptions()...)
		if err != nil {
			fatal("Failed to open pad", err)
		}
		defer pad.Close()

		// Live refresh needs a watchable store; sqlite pads just serve.
		if err := pad.AutoRefresh(ctx); err != nil {
			slog.Debug("live refresh unavailable", "error", err)
		}

		srv := web.NewServer(pad.Service, web.Config{Logger: slog.Default()})

		fmt.Printf("Serving pad on http://localhost%s\n", serveAddr)
		if err := srv.Run(ctx, serveAddr); err != nil {
			fatal("Server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}
