package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotkit/jot"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a note to the pad",
	Long:  `Add appends a note with the given text. The note's id is its creation time in unix milliseconds.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		pad, err := jot.Open(ctx, resolveDir(), padOptions()...)
		if err != nil {
			fatal("Failed to open pad", err)
		}
		defer pad.Close()

		note, err := pad.Add(ctx, strings.Join(args, " "))
		if err != nil {
			fatal("Failed to add note", err)
		}

		// Give a queued sync POST a chance to leave before exit.
		pad.Flush(2 * time.Second)

		fmt.Printf("Added %d\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
