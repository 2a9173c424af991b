package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gridforge.dev/internal/builder"
	"gridforge.dev/internal/world"
)

const (
	defaultWidth  = 256
	defaultHeight = 256
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: generate <output-dir> <seed> [seed...]")
		os.Exit(1)
	}

	outputDir := os.Args[1]
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	pipe := builder.Default()
	failed := false

	for _, arg := range os.Args[2:] {
		seed, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR: invalid seed %q\n", arg)
			failed = true
			continue
		}

		fmt.Printf("Generating %dx%d world, seed %d...\n", defaultWidth, defaultHeight, seed)
		w, err := builder.Generate(pipe, defaultWidth, defaultHeight, seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR: %v\n", err)
			failed = true
			continue
		}

		path := filepath.Join(outputDir, fmt.Sprintf("%d.world", seed))
		if err := builder.Save(w, path); err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR: %v\n", err)
			failed = true
			continue
		}

		fmt.Printf("  Created %s\n", filepath.Base(path))
		printCoverage(w)
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("Done!")
}

func printCoverage(w *world.World) {
	kinds := w.KindPercentages()
	names := make([]world.TileKind, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, k := range names {
		fmt.Printf("    %-14s %5.1f%%\n", k, kinds[k]*100)
	}

	contents := w.ContentPercentages()
	cnames := make([]world.ContentKind, 0, len(contents))
	for c := range contents {
		cnames = append(cnames, c)
	}
	sort.Slice(cnames, func(i, j int) bool { return cnames[i] < cnames[j] })
	for _, c := range cnames {
		fmt.Printf("    %-14s %5.2f%%\n", c, contents[c]*100)
	}
}
