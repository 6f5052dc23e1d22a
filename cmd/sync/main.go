package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"citizenhub/internal/metrics"
	"citizenhub/internal/officials"
	"citizenhub/pkg/database"
	"citizenhub/pkg/utils"
)

func main() {
	var (
		addresses   = flag.String("addresses", "", "semicolon-separated addresses to fetch from the upstream API")
		cities      = flag.String("cities", "", "semicolon-separated bundled cities to load; \"all\" loads every snapshot")
		concurrency = flag.Int("concurrency", 4, "lookups in flight at once")
		timeout     = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	cfg := utils.MustLoad()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(database.Config{Path: cfg.Database.Path})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	m := metrics.New(prometheus.NewRegistry())
	svc, err := officials.FromConfig(cfg.Upstream, m, nil)
	if err != nil {
		log.Fatalf("officials config: %v", err)
	}

	req := officials.SyncRequest{Addresses: splitList(*addresses), Cities: splitList(*cities)}
	if len(req.Cities) == 1 && strings.EqualFold(req.Cities[0], "all") {
		if req.Cities, err = svc.Bundle.Cities(); err != nil {
			log.Fatalf("list snapshots: %v", err)
		}
	}
	if len(req.Addresses) == 0 && len(req.Cities) == 0 {
		log.Fatal("nothing to sync: pass -addresses and/or -cities")
	}

	syncer := officials.NewSyncer(svc, db, nil, m, nil)
	syncer.Concurrency = *concurrency

	report, err := syncer.Run(ctx, req)
	if err != nil {
		log.Fatalf("sync failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)

	failed := 0
	for _, r := range report.Results {
		if r.Error != "" {
			failed++
		}
	}
	log.Printf("sync %s finished: %d keys, %d failed", report.RunID, len(report.Results), failed)
	if failed > 0 {
		os.Exit(2)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
