package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"citizenhub/internal/officials"
	"citizenhub/pkg/utils"
)

// snapshot records the upstream payload for one address so it can be served
// later by the bundle source or mirror-server.
func main() {
	var (
		address = flag.String("address", "", "address to look up")
		city    = flag.String("city", "", "city key for the snapshot, e.g. \"San Francisco, CA\"")
		outDir  = flag.String("out", "data/snapshots", "snapshot directory")
	)
	flag.Parse()

	if *address == "" || *city == "" {
		log.Fatal("usage: snapshot -address ADDR -city CITY [-out DIR]")
	}

	cfg := utils.MustLoad()
	if cfg.Upstream.BaseURL == "" {
		log.Fatal("CITIZENHUB_API_BASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	remote := officials.NewRemoteSource(cfg.Upstream.BaseURL, cfg.Upstream.APIKey, cfg.Upstream.Timeout, nil)
	body, err := remote.FetchRaw(ctx, *address)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}
	path := filepath.Join(*outDir, officials.SnapshotKey(*city))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	log.Printf("wrote %d bytes to %s", len(body), path)
}
