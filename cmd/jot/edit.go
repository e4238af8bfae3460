package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotkit/jot"
)

var editCmd = &cobra.Command{
	Use:   "edit [id] [text]",
	Short: "Rewrite a note in place",
	Long:  `Edit replaces the text of the note with the given id. The note keeps its id and its position in the list.`,
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: %q is not a note id\n", args[0])
			os.Exit(1)
		}

		ctx := context.Background()

		pad, err := jot.Open(ctx, resolveDir(), padOptions()...)
		if err != nil {
			fatal("Failed to open pad", err)
		}
		defer pad.Close()

		if _, err := pad.Edit(ctx, id, strings.Join(args[1:], " ")); err != nil {
			fatal("Failed to edit note", err)
		}

		pad.Flush(2 * time.Second)

		fmt.Printf("Updated %d\n", id)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
