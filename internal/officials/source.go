package officials

import (
	"context"
	"errors"
	"fmt"

	"citizenhub/pkg/models"
)

var (
	// ErrInvalidAddress means the lookup query could not be built.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrEmptyBody means the upstream answered without a payload.
	ErrEmptyBody = errors.New("empty response body")
	// ErrRemoteDisabled means no upstream base URL is configured.
	ErrRemoteDisabled = errors.New("remote lookups are not configured")
)

// Source is implemented by each place legislators can come from (the upstream
// API, the bundled snapshots). Each source fetches its own bytes and maps them
// through Decode and ToLegislators.
type Source interface {
	Name() string
	// Legislators resolves key (an address or a city, depending on the
	// source) into legislators in payload order.
	Legislators(ctx context.Context, key string) ([]models.Legislator, error)
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

// decodeAndMap is the shared tail of every source.
func decodeAndMap(data []byte, overrides Overrides) ([]models.Legislator, error) {
	resp, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return ToLegislators(resp, overrides), nil
}
