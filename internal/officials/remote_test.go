package officials

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRemoteSource_Lookup(t *testing.T) {
	var gotPath, gotAddress, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAddress = r.URL.Query().Get("address")
		gotKey = r.Header.Get(APIKeyHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"officials": [`+official(9, minimalOffice, "", "[]")+`]}`)
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.URL+"/", "secret", 5*time.Second, nil)
	ls, err := src.Legislators(context.Background(), "1 Main St, Springfield & Co")
	require.NoError(t, err)
	require.Len(t, ls, 1)

	assert.Equal(t, int64(9), ls[0].ID)
	assert.Equal(t, "/legislators", gotPath)
	assert.Equal(t, "1 Main St, Springfield & Co", gotAddress)
	assert.Equal(t, "secret", gotKey)
}

func TestRemoteSource_Errors(t *testing.T) {
	respond := func(code int, body string) *RemoteSource {
		return &RemoteSource{
			BaseURL: "http://upstream.test",
			Client: &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: code,
					Body:       io.NopCloser(strings.NewReader(body)),
					Header:     make(http.Header),
					Request:    r,
				}, nil
			})},
		}
	}

	t.Run("non-2xx", func(t *testing.T) {
		_, err := respond(http.StatusForbidden, "bad key").Legislators(context.Background(), "x")
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusForbidden, se.Code)
		assert.Equal(t, "bad key", se.Body)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := respond(http.StatusOK, "").Legislators(context.Background(), "x")
		assert.ErrorIs(t, err, ErrEmptyBody)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := respond(http.StatusOK, `{"officials": [{"id": "nope"}]}`).Legislators(context.Background(), "x")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("transport failure", func(t *testing.T) {
		src := &RemoteSource{
			BaseURL: "http://upstream.test",
			Client: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			})},
		}
		_, err := src.Legislators(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("invalid address", func(t *testing.T) {
		src := respond(http.StatusOK, `{"officials": []}`)
		for _, addr := range []string{"", "   ", "bad \xff utf8"} {
			_, err := src.Legislators(context.Background(), addr)
			assert.ErrorIs(t, err, ErrInvalidAddress, "address %q", addr)
		}
	})
}

func TestRemoteSource_FetchRaw(t *testing.T) {
	payload := `{"officials": []}`
	src := &RemoteSource{
		BaseURL: "http://upstream.test",
		Client: &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(payload)), Header: make(http.Header)}, nil
		})},
	}

	body, err := src.FetchRaw(context.Background(), "Boise, ID")
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
}
