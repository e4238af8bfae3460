package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jotkit/jot"
)

var (
	verbose bool
	padDir  string
	adapter string
	slot    string
	format  string
	syncURL string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "A local-first note pad with fail-open storage and fire-and-forget sync",
	Long: `Jot keeps an ordered list of timestamped notes on your machine.
Every change lands on disk and, if a sync endpoint is configured, is
mirrored out as the full list. Storage never gets in the way: unreadable
state loads as an empty pad.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file
		if err := godotenv.Load(); err == nil {
			slog.Debug("loaded .env file")
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&padDir, "dir", "", "Pad directory (default: $JOT_DIR, an enclosing pad, or ~/.jot)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "file", "Storage adapter (file or sqlite)")
	rootCmd.PersistentFlags().StringVar(&slot, "slot", "", "Named list to operate on (default: notes)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Slot file extension for the file adapter (.json, .yaml)")
	rootCmd.PersistentFlags().StringVar(&syncURL, "sync-url", "", "Mirror endpoint (default: $JOT_SYNC_URL)")
}

// resolveDir picks the pad directory: the flag wins, then the environment,
// then an enclosing pad found by walking upwards, then ~/.jot.
func resolveDir() string {
	if padDir != "" {
		return padDir
	}
	if env := os.Getenv("JOT_DIR"); env != "" {
		return env
	}
	if wd, err := os.Getwd(); err == nil {
		if root, err := jot.FindPadRoot(wd); err == nil {
			return root
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jot"
	}
	return filepath.Join(home, ".jot")
}

// padOptions translates the persistent flags into open options.
func padOptions() []jot.Option {
	opts := []jot.Option{
		jot.WithAdapter(adapter),
		jot.WithLogger(slog.Default()),
	}
	if slot != "" {
		opts = append(opts, jot.WithSlot(slot))
	}
	if format != "" {
		opts = append(opts, jot.WithFormat(format))
	}
	url := syncURL
	if url == "" {
		url = os.Getenv("JOT_SYNC_URL")
	}
	if url != "" {
		opts = append(opts, jot.WithSyncURL(url))
	}
	return opts
}
