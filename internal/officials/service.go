package officials

import (
	"context"
	"errors"
	"log"
	"time"

	"citizenhub/internal/metrics"
	"citizenhub/pkg/models"
	"citizenhub/pkg/utils"
)

// Service is the entry point the APIs use. Remote may be nil when no upstream
// is configured; Bundle is always present.
type Service struct {
	Remote  *RemoteSource
	Bundle  *BundleSource
	Metrics *metrics.Metrics
	Logger  *log.Logger
}

func NewService(remote *RemoteSource, bundle *BundleSource, m *metrics.Metrics, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{Remote: remote, Bundle: bundle, Metrics: m, Logger: logger}
}

// FromConfig wires a Service from environment configuration.
func FromConfig(cfg utils.UpstreamConfig, m *metrics.Metrics, logger *log.Logger) (*Service, error) {
	overrides, err := LoadOverridesFile(cfg.OverridesPath)
	if err != nil {
		return nil, err
	}
	var remote *RemoteSource
	if cfg.BaseURL != "" {
		remote = NewRemoteSource(cfg.BaseURL, cfg.APIKey, cfg.Timeout, overrides)
	}
	return NewService(remote, NewBundleSource(cfg.SnapshotDir, overrides), m, logger), nil
}

// Lookup asks the upstream API for the legislators serving address.
func (s *Service) Lookup(ctx context.Context, address string) ([]models.Legislator, error) {
	if s.Remote == nil {
		return nil, ErrRemoteDisabled
	}
	return s.run(ctx, s.Remote, address)
}

// LookupLocal reads the bundled snapshot for city. Unknown cities give an
// empty list.
func (s *Service) LookupLocal(ctx context.Context, city string) ([]models.Legislator, error) {
	return s.run(ctx, s.Bundle, city)
}

func (s *Service) LookupAsync(ctx context.Context, address string) <-chan Result {
	return goLookup(func() ([]models.Legislator, error) { return s.Lookup(ctx, address) })
}

func (s *Service) LookupLocalAsync(ctx context.Context, city string) <-chan Result {
	return goLookup(func() ([]models.Legislator, error) { return s.LookupLocal(ctx, city) })
}

func (s *Service) run(ctx context.Context, src Source, key string) ([]models.Legislator, error) {
	start := time.Now()
	out, err := src.Legislators(ctx, key)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, ErrMalformedPayload):
		s.Metrics.ObserveLookup(src.Name(), metrics.OutcomeMalformed, 0, elapsed)
		s.Logger.Printf("[officials] %s lookup %q: %v", src.Name(), key, err)
		return nil, err
	case err != nil:
		s.Metrics.ObserveLookup(src.Name(), metrics.OutcomeError, 0, elapsed)
		s.Logger.Printf("[officials] %s lookup %q: %v", src.Name(), key, err)
		return nil, err
	case len(out) == 0:
		s.Metrics.ObserveLookup(src.Name(), metrics.OutcomeEmpty, 0, elapsed)
	default:
		s.Metrics.ObserveLookup(src.Name(), metrics.OutcomeOK, len(out), elapsed)
	}
	return out, nil
}
