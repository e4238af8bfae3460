package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotkit/jot"
)

var (
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes in the pad",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		pad, err := jot.Open(ctx, resolveDir(), padOptions()...)
		if err != nil {
			fmt.Printf("Error opening pad: %v\n", err)
			os.Exit(1)
		}
		defer pad.Close()

		notes := pad.Notes()

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}

		for _, note := range notes {
			created := time.UnixMilli(note.ID).Format("2006-01-02 15:04")
			fmt.Printf("%d  %s  %s\n", note.ID, created, note.Text)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
