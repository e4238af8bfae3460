package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotkit/jot"
)

var rmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a note from the pad",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: %q is not a note id\n", args[0])
			os.Exit(1)
		}

		ctx := context.Background()

		pad, err := jot.Open(ctx, resolveDir(), padOptions()...)
		if err != nil {
			fmt.Printf("Error opening pad: %v\n", err)
			os.Exit(1)
		}
		defer pad.Close()

		if err := pad.Delete(ctx, id); err != nil {
			fmt.Printf("Error removing note: %v\n", err)
			os.Exit(1)
		}

		pad.Flush(2 * time.Second)

		fmt.Printf("Removed %d\n", id)
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
