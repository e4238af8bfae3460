package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jotkit/jot"
	"github.com/jotkit/jot/pkg/adapters/lifecycle"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Stream external changes to the pad",
	Long: `Watch prints an event for every external change to the state
directory. Slot keys are matched against the glob pattern (default: every
slot). The pad's own saves are not reported.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := "*"
		if len(args) == 1 {
			pattern = args[0]
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

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

		events, err := pad.Watch(ctx, pattern)
		if err != nil {
			fatal("Failed to watch pad", err)
		}

		// Run the stream through the lifecycle bridge so hosts embedding
		// this loop get tracked-goroutine semantics for free.
		src := lifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		fmt.Fprintf(os.Stderr, "Watching %s (pattern %q). Ctrl+C to stop.\n", resolveDir(), pattern)
		for e := range src.Events() {
			fmt.Println(e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
