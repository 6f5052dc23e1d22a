package officials

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"citizenhub/internal/metrics"
	synchub "citizenhub/internal/sync"
	"citizenhub/pkg/models"
)

// Broadcaster receives one event per synced key. *sync.Hub implements it.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// SyncRequest lists what to refresh: addresses go to the upstream API,
// cities to the bundled snapshots.
type SyncRequest struct {
	Addresses []string `json:"addresses"`
	Cities    []string `json:"cities"`
}

type SyncResult struct {
	Source string `json:"source"`
	Key    string `json:"key"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

type SyncReport struct {
	RunID   string       `json:"run_id"`
	Results []SyncResult `json:"results"`
}

// Syncer fetches legislators for many keys concurrently and persists them.
// A key that fails to fetch is reported and does not stop the others; a
// database failure aborts the run.
type Syncer struct {
	Service     *Service
	DB          *sql.DB
	Broadcaster Broadcaster
	Metrics     *metrics.Metrics
	Logger      *log.Logger
	Concurrency int

	writeMu gosync.Mutex
}

func NewSyncer(svc *Service, db *sql.DB, b Broadcaster, m *metrics.Metrics, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.Default()
	}
	return &Syncer{Service: svc, DB: db, Broadcaster: b, Metrics: m, Logger: logger, Concurrency: 4}
}

func (s *Syncer) Run(ctx context.Context, req SyncRequest) (SyncReport, error) {
	type job struct {
		source string
		key    string
		lookup func(context.Context, string) ([]models.Legislator, error)
	}
	var jobs []job
	for _, a := range req.Addresses {
		if a = strings.TrimSpace(a); a != "" {
			jobs = append(jobs, job{source: "remote", key: a, lookup: s.Service.Lookup})
		}
	}
	for _, c := range req.Cities {
		if c = strings.TrimSpace(c); c != "" {
			jobs = append(jobs, job{source: "bundle", key: c, lookup: s.Service.LookupLocal})
		}
	}

	report := SyncReport{RunID: uuid.NewString(), Results: make([]SyncResult, len(jobs))}

	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, j := range jobs {
		g.Go(func() error {
			started := time.Now().UTC()
			res := SyncResult{Source: j.source, Key: j.key}

			legislators, err := j.lookup(gctx, j.key)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Count = len(legislators)
				if err := s.persist(gctx, j.source, legislators); err != nil {
					return fmt.Errorf("sync %s %q: %w", j.source, j.key, err)
				}
			}
			if err := s.recordRun(gctx, report.RunID, res, started); err != nil {
				return fmt.Errorf("sync %s %q: %w", j.source, j.key, err)
			}

			report.Results[i] = res
			s.announce(report.RunID, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Syncer) persist(ctx context.Context, source string, legislators []models.Legislator) error {
	if len(legislators) == 0 {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := SaveToDatabase(ctx, s.DB, source, legislators); err != nil {
		return err
	}
	s.Metrics.ObserveSynced(len(legislators))
	return nil
}

func (s *Syncer) recordRun(ctx context.Context, runID string, res SyncResult, started time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO sync_runs (id, run_id, source, lookup_key, count, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), runID, res.Source, res.Key, res.Count, sql.NullString{String: res.Error, Valid: res.Error != ""},
		started.Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}
	return nil
}

func (s *Syncer) announce(runID string, res SyncResult) {
	if res.Error != "" {
		s.Logger.Printf("[sync] %s %q failed: %s", res.Source, res.Key, res.Error)
	} else {
		s.Logger.Printf("[sync] %s %q: %d legislators", res.Source, res.Key, res.Count)
	}
	if s.Broadcaster == nil {
		return
	}
	s.Broadcaster.BroadcastJSON(synchub.SyncEvent{
		Type:   synchub.SyncedEventType,
		RunID:  runID,
		Source: res.Source,
		Key:    res.Key,
		Count:  res.Count,
		Error:  res.Error,
		At:     time.Now().UTC(),
	})
}
