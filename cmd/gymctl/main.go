// Command gymctl administers a gym data store: seed, purge, stats, and
// snapshot export against the backend selected by GYMCORE_STORAGE_DRIVER.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gymcore/internal/blob"
	"gymcore/internal/core"
	"gymcore/internal/snapshot"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "gymctl:", err)
		os.Exit(1)
	}
}

func usage() string {
	return `usage: gymctl <command>

commands:
  stats    print aggregate counts for the current store
  seed     reset the store to the seed catalog
  purge    delete every entity record (settings survive)
  export   snapshot the store contents to blob storage
`
}

func run(args []string, out *os.File) error {
	fs := flag.NewFlagSet("gymctl", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fmt.Fprint(out, usage())
		return fmt.Errorf("missing command")
	}
	cmd := fs.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	store, err := core.OpenCollectionStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc := core.NewService(store, core.WithLogger(core.NewSlogLogger(logger)))
	if err := svc.Init(ctx); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	switch cmd {
	case "stats":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(svc.Stats())
	case "seed":
		if err := svc.ResetToSeed(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "store reset to seed catalog")
		return nil
	case "purge":
		if err := svc.PurgeAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "store purged")
		return nil
	case "export":
		blobs, err := blob.Open(ctx)
		if err != nil {
			return fmt.Errorf("open blob store: %w", err)
		}
		exporter := snapshot.NewExporter(store, blobs)
		manifest, err := exporter.Export(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "snapshot %s written (%d collections)\n", manifest.ID, len(manifest.Collections))
		return nil
	default:
		fmt.Fprint(out, usage())
		return fmt.Errorf("unknown command %q", cmd)
	}
}
