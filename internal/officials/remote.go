package officials

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"citizenhub/pkg/models"
)

const (
	// APIKeyHeader carries the static upstream key.
	APIKeyHeader = "X-API-KEY"

	maxPayloadBytes = 8 << 20
	maxErrorBody    = 4096
)

// RemoteSource looks legislators up by free-text address on the upstream API.
// Each call issues exactly one request; there is no retry.
type RemoteSource struct {
	BaseURL   string
	APIKey    string
	Client    *http.Client
	Overrides Overrides
}

func NewRemoteSource(baseURL, apiKey string, timeout time.Duration, overrides Overrides) *RemoteSource {
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	return &RemoteSource{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		Client:    &http.Client{Timeout: timeout},
		Overrides: overrides,
	}
}

func (s *RemoteSource) Name() string { return "remote" }

func (s *RemoteSource) Legislators(ctx context.Context, address string) ([]models.Legislator, error) {
	body, err := s.fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	out, err := decodeAndMap(body, s.Overrides)
	if err != nil {
		return nil, fmt.Errorf("remote: decode: %w", err)
	}
	return out, nil
}

// FetchRaw returns the upstream payload for address after checking that it
// decodes. Used to record snapshots.
func (s *RemoteSource) FetchRaw(ctx context.Context, address string) ([]byte, error) {
	body, err := s.fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	if _, err := Decode(body); err != nil {
		return nil, fmt.Errorf("remote: decode: %w", err)
	}
	return body, nil
}

func (s *RemoteSource) fetch(ctx context.Context, address string) ([]byte, error) {
	u, err := s.lookupURL(address)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(APIKeyHeader, s.APIKey)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("remote: read body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("remote: %w", ErrEmptyBody)
	}
	return body, nil
}

func (s *RemoteSource) lookupURL(address string) (string, error) {
	if strings.TrimSpace(address) == "" || !utf8.ValidString(address) {
		return "", fmt.Errorf("remote: %w: %q", ErrInvalidAddress, address)
	}
	u, err := url.Parse(s.BaseURL + "/legislators")
	if err != nil {
		return "", fmt.Errorf("remote: base url: %w", err)
	}
	q := u.Query()
	q.Set("address", address)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
