package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jotkit/jot"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark pad after running")
	adapter := flag.String("adapter", "file", "Storage adapter (file or sqlite)")
	flag.Parse()

	// 1. Setup
	benchDir, err := os.MkdirTemp("", "jot_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.TODO()

	pad, err := jot.Open(ctx, benchDir,
		jot.WithAdapter(*adapter),
		jot.WithLogger(logger),
	)
	if err != nil {
		panic(err)
	}

	// 2. Write path: every Add re-encodes and persists the whole list, so
	// this measures the worst case of the full-snapshot model.
	fmt.Printf("Adding %d notes in %s (%s adapter)...\n", *count, benchDir, *adapter)
	startAdd := time.Now()
	for i := 0; i < *count; i++ {
		if _, err := pad.Add(ctx, fmt.Sprintf("benchmark note %d", i)); err != nil {
			panic(err)
		}
	}
	addDuration := time.Since(startAdd)
	fmt.Printf("Add Result: %v (%v per note)\n", addDuration, addDuration/time.Duration(*count))

	if err := pad.Close(); err != nil {
		panic(err)
	}

	// 3. Read path: a fresh pad loads the full list once at open.
	fmt.Println("Reopening pad (cold load)...")
	startLoad := time.Now()
	pad2, err := jot.Open(ctx, benchDir,
		jot.WithAdapter(*adapter),
		jot.WithLogger(logger),
	)
	if err != nil {
		panic(err)
	}
	defer pad2.Close()
	loadDuration := time.Since(startLoad)
	fmt.Printf("Load Result: %v (Items: %d)\n", loadDuration, pad2.Len())

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %s adapter):\n", *count, *adapter)
	fmt.Printf("  Add (total): %v\n", addDuration)
	fmt.Printf("  Cold load:   %v\n", loadDuration)
	fmt.Printf("--------------------------------------------------\n")
}
